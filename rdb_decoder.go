package replicator

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// rdbDecoder is the interface providing helpers for reading with the snapshot encoding rules.
// Types implementing decode only need to worry about calling methods like getString,
// not about how a string is represented in the snapshot.
type rdbDecoder interface {
	remaining() int
	offset() int

	getLength() (uint64, error)
	getCount() (int, error)
	getString() ([]byte, error)
	getMillis() (int64, error)
	getStreamID() (StreamID, error)
	getLengthStreamID() (StreamID, error)
}

// length prefixes, selected by the two high bits of the first byte
const (
	rdbLen6Bit  = 0
	rdbLen14Bit = 1
	rdbEncoded  = 3

	rdbLen32Bit = 0x80
	rdbLen64Bit = 0x81
)

// special string encodings, carried in the low bits of an rdbEncoded prefix
const (
	rdbEncInt8  = 0
	rdbEncInt16 = 1
	rdbEncInt32 = 2
	rdbEncLZF   = 3
)

const streamIDSize = 16

// an LZF back reference is 3 bytes long and copies at most 264
const lzfMaxExpansion = 88

type realRDBDecoder struct {
	raw       []byte
	off       int
	maxString int
}

func (rd *realRDBDecoder) remaining() int {
	return len(rd.raw) - rd.off
}

func (rd *realRDBDecoder) offset() int {
	return rd.off
}

func (rd *realRDBDecoder) getUint8() (byte, error) {
	if rd.remaining() < 1 {
		rd.off = len(rd.raw)
		return 0, ErrInsufficientData
	}
	tmp := rd.raw[rd.off]
	rd.off++
	return tmp, nil
}

func (rd *realRDBDecoder) getRaw(n int) ([]byte, error) {
	if n < 0 {
		return nil, DecodingError{Info: fmt.Sprintf("invalid length %d", n)}
	}
	if n > rd.remaining() {
		rd.off = len(rd.raw)
		return nil, ErrInsufficientData
	}
	start := rd.off
	rd.off += n
	return rd.raw[start:rd.off], nil
}

// getLengthWithEncoding reads a length prefix. When encoded is true the value is one of the
// rdbEnc* string encodings rather than a length.
func (rd *realRDBDecoder) getLengthWithEncoding() (n uint64, encoded bool, err error) {
	b, err := rd.getUint8()
	if err != nil {
		return 0, false, err
	}

	switch b >> 6 {
	case rdbLen6Bit:
		return uint64(b & 0x3f), false, nil
	case rdbLen14Bit:
		next, err := rd.getUint8()
		if err != nil {
			return 0, false, err
		}
		return uint64(b&0x3f)<<8 | uint64(next), false, nil
	case rdbEncoded:
		return uint64(b & 0x3f), true, nil
	}

	// rdbLenWide: the width follows in the remaining bits
	switch b {
	case rdbLen32Bit:
		buf, err := rd.getRaw(4)
		if err != nil {
			return 0, false, err
		}
		return uint64(binary.BigEndian.Uint32(buf)), false, nil
	case rdbLen64Bit:
		buf, err := rd.getRaw(8)
		if err != nil {
			return 0, false, err
		}
		return binary.BigEndian.Uint64(buf), false, nil
	default:
		return 0, false, DecodingError{Info: fmt.Sprintf("unknown length encoding 0x%02x", b)}
	}
}

func (rd *realRDBDecoder) getLength() (uint64, error) {
	n, encoded, err := rd.getLengthWithEncoding()
	if err != nil {
		return 0, err
	}
	if encoded {
		return 0, DecodingError{Info: "encoded string where a length was expected"}
	}
	return n, nil
}

// getCount reads a collection size. Every element takes at least one byte, so a count larger than
// what is left cannot be valid.
func (rd *realRDBDecoder) getCount() (int, error) {
	n, err := rd.getLength()
	if err != nil {
		return -1, err
	}
	if n > uint64(rd.remaining()) {
		rd.off = len(rd.raw)
		return -1, ErrInsufficientData
	}
	return int(n), nil
}

func (rd *realRDBDecoder) getString() ([]byte, error) {
	n, encoded, err := rd.getLengthWithEncoding()
	if err != nil {
		return nil, err
	}

	if encoded {
		return rd.getEncodedString(n)
	}

	if n > uint64(rd.maxString) {
		return nil, DecodingError{Info: fmt.Sprintf("string of %d bytes exceeds the %d byte limit", n, rd.maxString)}
	}
	buf, err := rd.getRaw(int(n))
	if err != nil {
		return nil, err
	}
	tmp := make([]byte, len(buf))
	copy(tmp, buf)
	return tmp, nil
}

func (rd *realRDBDecoder) getEncodedString(enc uint64) ([]byte, error) {
	switch enc {
	case rdbEncInt8:
		buf, err := rd.getRaw(1)
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int8(buf[0])), 10), nil
	case rdbEncInt16:
		buf, err := rd.getRaw(2)
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int16(binary.LittleEndian.Uint16(buf))), 10), nil
	case rdbEncInt32:
		buf, err := rd.getRaw(4)
		if err != nil {
			return nil, err
		}
		return strconv.AppendInt(nil, int64(int32(binary.LittleEndian.Uint32(buf))), 10), nil
	case rdbEncLZF:
		clen, err := rd.getLength()
		if err != nil {
			return nil, err
		}
		ulen, err := rd.getLength()
		if err != nil {
			return nil, err
		}
		if ulen > uint64(rd.maxString) {
			return nil, DecodingError{Info: fmt.Sprintf("string of %d bytes exceeds the %d byte limit", ulen, rd.maxString)}
		}
		if ulen > clen*lzfMaxExpansion {
			return nil, DecodingError{Info: fmt.Sprintf("lzf string of %d bytes cannot expand to %d bytes", clen, ulen)}
		}
		if clen > uint64(rd.remaining()) {
			rd.off = len(rd.raw)
			return nil, ErrInsufficientData
		}
		compressed, err := rd.getRaw(int(clen))
		if err != nil {
			return nil, err
		}
		return lzfDecompress(compressed, int(ulen))
	default:
		return nil, DecodingError{Info: fmt.Sprintf("unknown string encoding %d", enc)}
	}
}

// getMillis reads a millisecond unix time, stored little endian.
func (rd *realRDBDecoder) getMillis() (int64, error) {
	buf, err := rd.getRaw(8)
	if err != nil {
		return -1, err
	}
	return int64(binary.LittleEndian.Uint64(buf)), nil
}

// getStreamID reads an ID in its 128 bit key form: ms then seq, both big endian.
func (rd *realRDBDecoder) getStreamID() (StreamID, error) {
	buf, err := rd.getRaw(streamIDSize)
	if err != nil {
		return StreamID{}, err
	}
	return StreamID{
		Ms:  binary.BigEndian.Uint64(buf[:8]),
		Seq: binary.BigEndian.Uint64(buf[8:]),
	}, nil
}

// getLengthStreamID reads an ID stored as two length-encoded integers.
func (rd *realRDBDecoder) getLengthStreamID() (StreamID, error) {
	ms, err := rd.getLength()
	if err != nil {
		return StreamID{}, err
	}
	seq, err := rd.getLength()
	if err != nil {
		return StreamID{}, err
	}
	return StreamID{Ms: ms, Seq: seq}, nil
}

func getInt64Length(pd rdbDecoder, what string) (int64, error) {
	n, err := pd.getLength()
	if err != nil {
		return -1, err
	}
	if n > math.MaxInt64 {
		return -1, DecodingError{Info: fmt.Sprintf("%s %d out of range", what, n)}
	}
	return int64(n), nil
}
