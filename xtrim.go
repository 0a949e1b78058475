package replicator

import (
	"fmt"
	"strings"
)

// TrimStrategy selects how XTRIM and XADD trim a stream.
type TrimStrategy string

const (
	// TrimMaxLen keeps at most Threshold entries.
	TrimMaxLen TrimStrategy = "MAXLEN"
	// TrimMinID evicts entries with IDs lower than Threshold.
	TrimMinID TrimStrategy = "MINID"
)

// TrimOptions is the MAXLEN|MINID [=|~] threshold [LIMIT count] clause shared by XTRIM and XADD.
type TrimOptions struct {
	Strategy     TrimStrategy
	Approximate  bool
	Threshold    string
	RawThreshold []byte
	Limit        *int64
}

// XTrimCommand is XTRIM key MAXLEN|MINID [=|~] threshold [LIMIT count].
type XTrimCommand struct {
	Key    string
	RawKey []byte
	Trim   TrimOptions
}

func (c *XTrimCommand) Name() string {
	return "XTRIM"
}

func parseXTrim(command [][]byte) (Command, error) {
	if len(command) < 4 {
		return nil, arityError("XTRIM", 3, len(command)-1)
	}

	var err error
	c := &XTrimCommand{}
	if c.Key, c.RawKey, err = argument(command, 1); err != nil {
		return nil, err
	}
	if !isTrimStrategy(command[2]) {
		return nil, unsupportedOption(command, 2)
	}
	trim, idx, err := parseTrimOptions(command, 2)
	if err != nil {
		return nil, err
	}
	c.Trim = *trim
	if idx < len(command) {
		return nil, unsupportedOption(command, idx)
	}

	return c, nil
}

func isTrimStrategy(token []byte) bool {
	return IsKeyword(token, string(TrimMaxLen)) || IsKeyword(token, string(TrimMinID))
}

// parseTrimOptions reads a trim clause whose strategy keyword is at command[idx] and returns the
// index after it.
func parseTrimOptions(command [][]byte, idx int) (*TrimOptions, int, error) {
	strategy, _ := ToText(command[idx])
	trim := &TrimOptions{Strategy: TrimStrategy(strings.ToUpper(strategy))}
	idx++

	if idx < len(command) {
		switch {
		case IsKeyword(command[idx], "~"):
			trim.Approximate = true
			idx++
		case IsKeyword(command[idx], "="):
			idx++
		}
	}

	var err error
	if trim.Threshold, trim.RawThreshold, err = argument(command, idx); err != nil {
		return nil, idx, err
	}
	switch trim.Strategy {
	case TrimMaxLen:
		if _, err := ToInt64(trim.RawThreshold); err != nil {
			return nil, idx, err
		}
	case TrimMinID:
		if !LooksLikeStreamID(trim.RawThreshold) {
			return nil, idx, fmt.Errorf("%w: MINID threshold %q is not a stream ID", ErrTypeMismatch, trim.Threshold)
		}
	}
	idx++

	if idx < len(command) && IsKeyword(command[idx], "LIMIT") {
		if trim.Limit, err = optionValue(command, idx); err != nil {
			return nil, idx, err
		}
		idx += 2
	}

	return trim, idx, nil
}
