package replicator

import "fmt"

// XAddCommand is XADD key [NOMKSTREAM] [MAXLEN|MINID [=|~] threshold [LIMIT count]] id|* field
// value [field value ...]. Trim is nil when no trim clause was given.
type XAddCommand struct {
	Key        string
	RawKey     []byte
	NoMkStream bool
	Trim       *TrimOptions
	ID         string
	RawID      []byte
	Fields     []Field
	RawFields  []RawField
}

func (c *XAddCommand) Name() string {
	return "XADD"
}

func parseXAdd(command [][]byte) (Command, error) {
	if len(command) < 5 {
		return nil, arityError("XADD", 4, len(command)-1)
	}

	var err error
	c := &XAddCommand{}
	if c.Key, c.RawKey, err = argument(command, 1); err != nil {
		return nil, err
	}

	idx := 2
options:
	for idx < len(command) {
		switch {
		case IsKeyword(command[idx], "NOMKSTREAM"):
			c.NoMkStream = true
			idx++
		case isTrimStrategy(command[idx]):
			if c.Trim, idx, err = parseTrimOptions(command, idx); err != nil {
				return nil, err
			}
		default:
			break options
		}
	}

	if c.ID, c.RawID, err = streamIDArgument(command, idx, "*"); err != nil {
		return nil, err
	}
	idx++

	pairs := len(command) - idx
	if pairs == 0 || pairs%2 != 0 {
		return nil, fmt.Errorf("%w: XADD needs field value pairs after the ID, got %d tokens", ErrArityMismatch, pairs)
	}
	c.Fields = make([]Field, 0, pairs/2)
	c.RawFields = make([]RawField, 0, pairs/2)
	for ; idx < len(command); idx += 2 {
		name, rawName, err := argument(command, idx)
		if err != nil {
			return nil, err
		}
		value, rawValue, err := argument(command, idx+1)
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, Field{Name: name, Value: value})
		c.RawFields = append(c.RawFields, RawField{Name: rawName, Value: rawValue})
	}

	return c, nil
}
