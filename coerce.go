package replicator

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// int64 holds at most 19 decimal digits, so any larger positive exponent on a non-zero
// coefficient is out of range without materialising the value. Zero is answered before the
// exponent is looked at: "0e2000000000" must not be expanded.
const maxInt64Exponent = 19

// ToBytes returns the token unchanged. The null token is not a byte sequence and yields
// ErrTypeMismatch.
func ToBytes(token []byte) ([]byte, error) {
	if token == nil {
		return nil, fmt.Errorf("%w: null token where bytes are required", ErrTypeMismatch)
	}
	return token, nil
}

// ToText returns the UTF-8 view of the token, and false for the null token. The view is for
// convenience only: invalid sequences become U+FFFD and the raw bytes stay canonical.
func ToText(token []byte) (string, bool) {
	if token == nil {
		return "", false
	}
	return textView(token), true
}

// ToInt64 parses the token as a base-10 decimal and requires it to be an exact int64.
func ToInt64(token []byte) (int64, error) {
	d, err := toDecimal(token)
	if err != nil {
		return 0, err
	}
	if d.Sign() == 0 {
		return 0, nil
	}
	if d.Exponent() > maxInt64Exponent {
		return 0, fmt.Errorf("%w: %q does not fit in 64 bits", ErrIntegerOverflow, token)
	}
	v := d.BigInt()
	if !v.IsInt64() {
		return 0, fmt.Errorf("%w: %q does not fit in 64 bits", ErrIntegerOverflow, token)
	}
	return v.Int64(), nil
}

// ToInt32 parses the token as a base-10 decimal and requires it to be an exact int32.
func ToInt32(token []byte) (int32, error) {
	v, err := ToInt64(token)
	if err != nil {
		if errors.Is(err, ErrIntegerOverflow) {
			return 0, fmt.Errorf("%w: %q does not fit in 32 bits", ErrIntegerOverflow, token)
		}
		return 0, err
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q does not fit in 32 bits", ErrIntegerOverflow, token)
	}
	return int32(v), nil
}

func toDecimal(token []byte) (decimal.Decimal, error) {
	if token == nil {
		return decimal.Zero, fmt.Errorf("%w: null token where a number is required", ErrTypeMismatch)
	}
	d, err := decimal.NewFromString(string(token))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrTypeMismatch, token)
	}
	// a written fractional part is never exact, even when it is all zeroes
	if d.Exponent() < 0 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotAnExactInteger, token)
	}
	return d, nil
}

// IsKeyword reports whether the token spells keyword, ignoring case.
func IsKeyword(token []byte, keyword string) bool {
	text, ok := ToText(token)
	return ok && strings.EqualFold(text, keyword)
}

// textView is the lossy decoded view stored next to raw bytes in decoded values.
func textView(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}
