package replicator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// CommandReader reads replicated commands, encoded as RESP arrays of bulk strings, off a reader
// owned by the caller.
type CommandReader struct {
	rd   *bufio.Reader
	conf *Config
}

// NewCommandReader returns a CommandReader reading from r. The reader is buffered unless it
// already is a *bufio.Reader.
func NewCommandReader(r io.Reader, conf *Config) *CommandReader {
	if conf == nil {
		conf = NewConfig()
	}
	rd, ok := r.(*bufio.Reader)
	if !ok {
		rd = bufio.NewReader(r)
	}
	return &CommandReader{rd: rd, conf: conf}
}

// ReadCommand reads the next command as a token array, command name first. A null bulk string
// is returned as a nil token. It returns io.EOF when the input ends cleanly between commands and
// a DecodingError when a frame is malformed or truncated.
func (cr *CommandReader) ReadCommand() ([][]byte, error) {
	line, err := cr.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '*' {
		return nil, DecodingError{Info: fmt.Sprintf("expected RESP array, got %q", line)}
	}

	n, err := cr.parseSize(line[1:])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, DecodingError{Info: "null RESP array is not a command"}
	}
	if n > int64(cr.conf.Command.MaxArgs) {
		return nil, DecodingError{Info: fmt.Sprintf("command of %d tokens exceeds the %d token limit", n, cr.conf.Command.MaxArgs)}
	}

	command := make([][]byte, 0, n)
	for i := int64(0); i < n; i++ {
		token, err := cr.readBulk()
		if err != nil {
			return nil, truncated(err)
		}
		command = append(command, token)
	}
	return command, nil
}

func (cr *CommandReader) readBulk() ([]byte, error) {
	line, err := cr.readLine()
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '$' {
		return nil, DecodingError{Info: fmt.Sprintf("expected RESP bulk string, got %q", line)}
	}

	n, err := cr.parseSize(line[1:])
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	if n > int64(cr.conf.Command.MaxBulkLength) {
		return nil, DecodingError{Info: fmt.Sprintf("bulk string of %d bytes exceeds the %d byte limit", n, cr.conf.Command.MaxBulkLength)}
	}

	// the buffer grows with the bytes actually read, not with the declared length
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, cr.rd, n+2); err != nil {
		return nil, err
	}
	token := buf.Bytes()
	if token[n] != '\r' || token[n+1] != '\n' {
		return nil, DecodingError{Info: "bulk string not terminated by CRLF"}
	}
	return token[:n], nil
}

// readLine returns one CRLF terminated line without the terminator.
func (cr *CommandReader) readLine() ([]byte, error) {
	line, err := cr.rd.ReadSlice('\n')
	if err != nil {
		if errors.Is(err, bufio.ErrBufferFull) {
			return nil, DecodingError{Info: "RESP header line too long"}
		}
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return nil, ErrInsufficientData
		}
		return nil, err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, DecodingError{Info: "RESP line not terminated by CRLF"}
	}
	return line[:len(line)-2], nil
}

func (cr *CommandReader) parseSize(text []byte) (int64, error) {
	n, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil || n < -1 {
		return 0, DecodingError{Info: fmt.Sprintf("invalid RESP length %q", text)}
	}
	return n, nil
}

// truncated maps an end of input inside a frame to ErrInsufficientData.
func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrInsufficientData
	}
	return err
}
