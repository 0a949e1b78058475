package replicator

import (
	"fmt"
	"strconv"
	"strings"
)

// StreamID identifies a stream entry. IDs are ordered by Ms, then by Seq.
type StreamID struct {
	Ms  uint64
	Seq uint64
}

// NewStreamID returns the ID (ms, seq).
func NewStreamID(ms, seq uint64) StreamID {
	return StreamID{Ms: ms, Seq: seq}
}

// Compare returns -1, 0 or +1 depending on whether id sorts before, equal to or after other.
func (id StreamID) Compare(other StreamID) int {
	switch {
	case id.Ms < other.Ms:
		return -1
	case id.Ms > other.Ms:
		return 1
	case id.Seq < other.Seq:
		return -1
	case id.Seq > other.Seq:
		return 1
	default:
		return 0
	}
}

// Less reports whether id sorts before other.
func (id StreamID) Less(other StreamID) bool {
	return id.Compare(other) < 0
}

// IsZero reports whether id is 0-0.
func (id StreamID) IsZero() bool {
	return id.Ms == 0 && id.Seq == 0
}

func (id StreamID) String() string {
	return strconv.FormatUint(id.Ms, 10) + "-" + strconv.FormatUint(id.Seq, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (id StreamID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *StreamID) UnmarshalText(text []byte) error {
	parsed, err := ParseStreamID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseStreamID parses the canonical "<ms>-<seq>" form. A bare "<ms>" is accepted with Seq 0, the
// way the store accepts incomplete IDs in command arguments.
func ParseStreamID(s string) (StreamID, error) {
	msPart, seqPart, hasSeq := strings.Cut(s, "-")
	ms, ok := parseIDPart(msPart)
	if !ok {
		return StreamID{}, fmt.Errorf("%w: invalid stream ID %q", ErrTypeMismatch, s)
	}
	if !hasSeq {
		return StreamID{Ms: ms}, nil
	}
	seq, ok := parseIDPart(seqPart)
	if !ok {
		return StreamID{}, fmt.Errorf("%w: invalid stream ID %q", ErrTypeMismatch, s)
	}
	return StreamID{Ms: ms, Seq: seq}, nil
}

// LooksLikeStreamID reports whether the token is a well-formed stream ID. Parsers use it as
// lookahead to find the end of ID lists that carry no explicit count.
func LooksLikeStreamID(token []byte) bool {
	if token == nil {
		return false
	}
	_, err := ParseStreamID(string(token))
	return err == nil
}

// strconv.ParseUint accepts a leading '+', the store does not
func parseIDPart(s string) (uint64, bool) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	return v, err == nil
}
