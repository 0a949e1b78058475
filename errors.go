package replicator

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch is returned when a token does not have the shape the grammar expects, for
// example a null token where a key is required or non-numeric text where a number is required.
var ErrTypeMismatch = errors.New("replicator: token has unexpected type")

// ErrNotAnExactInteger is returned when a numeric token carries fractional digits. Integer
// arguments are never truncated: "3.5" and "3.0" are both rejected.
var ErrNotAnExactInteger = errors.New("replicator: value is not an exact integer")

// ErrIntegerOverflow is returned when a numeric token does not fit the requested integer width.
var ErrIntegerOverflow = errors.New("replicator: integer overflow")

// ErrMalformedEncoding is the class of every snapshot or protocol decoding failure. Use errors.Is
// against it to detect a DecodingError of any kind.
var ErrMalformedEncoding = errors.New("replicator: malformed encoding")

// ErrUnknownCommand is returned by CommandParsers.Parse when no parser is registered for the
// command name.
var ErrUnknownCommand = errors.New("replicator: unknown command")

// ErrUnsupportedOption is the class of UnsupportedOptionError.
var ErrUnsupportedOption = errors.New("replicator: unsupported option")

// ErrArityMismatch is returned when a command has fewer tokens than its grammar requires, or an
// option keyword is missing its value.
var ErrArityMismatch = errors.New("replicator: wrong number of arguments")

// ErrInsufficientData is returned when decoding and the value is truncated.
var ErrInsufficientData = DecodingError{Info: "insufficient data to decode value, more bytes expected"}

// DecodingError is returned when there was an error (other than truncated data) decoding a snapshot
// value or a protocol frame. This can be a bad length prefix, an unresolvable pending entry or any
// other invalid value.
type DecodingError struct {
	Info string
}

func (err DecodingError) Error() string {
	return fmt.Sprintf("replicator: error decoding value: %s", err.Info)
}

func (err DecodingError) Unwrap() error {
	return ErrMalformedEncoding
}

// UnsupportedOptionError is returned when a command carries a trailing keyword its grammar does
// not know. Option holds the offending token's text.
type UnsupportedOptionError struct {
	Command string
	Option  string
}

func (err UnsupportedOptionError) Error() string {
	return fmt.Sprintf("replicator: unsupported option %q for %s", err.Option, err.Command)
}

func (err UnsupportedOptionError) Unwrap() error {
	return ErrUnsupportedOption
}

// ConfigurationError is the type of error returned from a constructor (e.g. NewCommandParsers)
// or Config.Validate when the specified configuration is invalid.
type ConfigurationError string

func (err ConfigurationError) Error() string {
	return "replicator: invalid configuration (" + string(err) + ")"
}

func arityError(command string, want int, got int) error {
	return fmt.Errorf("%w: %s needs at least %d arguments, got %d", ErrArityMismatch, command, want, got)
}
