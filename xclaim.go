package replicator

import "fmt"

// XClaimCommand is XCLAIM key group consumer min-idle-time id [id ...] [IDLE ms] [TIME unix-ms]
// [RETRYCOUNT n] [FORCE] [JUSTID]. Options that were not given are nil or false.
type XClaimCommand struct {
	Key         string
	RawKey      []byte
	Group       string
	RawGroup    []byte
	Consumer    string
	RawConsumer []byte
	MinIdleTime int64
	IDs         []string
	RawIDs      [][]byte
	Idle        *int64
	Time        *int64
	RetryCount  *int64
	Force       bool
	JustID      bool
}

func (c *XClaimCommand) Name() string {
	return "XCLAIM"
}

func parseXClaim(command [][]byte) (Command, error) {
	if len(command) < 6 {
		return nil, arityError("XCLAIM", 5, len(command)-1)
	}

	var err error
	c := &XClaimCommand{}
	idx := 1
	if c.Key, c.RawKey, err = argument(command, idx); err != nil {
		return nil, err
	}
	idx++
	if c.Group, c.RawGroup, err = argument(command, idx); err != nil {
		return nil, err
	}
	idx++
	if c.Consumer, c.RawConsumer, err = argument(command, idx); err != nil {
		return nil, err
	}
	idx++
	if c.MinIdleTime, err = int64Argument(command, idx); err != nil {
		return nil, err
	}
	idx++

	c.IDs, c.RawIDs, idx = streamIDs(command, idx)
	if len(c.IDs) == 0 {
		return nil, fmt.Errorf("%w: XCLAIM needs at least one stream ID after min-idle-time", ErrArityMismatch)
	}

	for idx < len(command) {
		switch {
		case IsKeyword(command[idx], "IDLE"):
			if c.Idle, err = optionValue(command, idx); err != nil {
				return nil, err
			}
			idx += 2
		case IsKeyword(command[idx], "TIME"):
			if c.Time, err = optionValue(command, idx); err != nil {
				return nil, err
			}
			idx += 2
		case IsKeyword(command[idx], "RETRYCOUNT"):
			if c.RetryCount, err = optionValue(command, idx); err != nil {
				return nil, err
			}
			idx += 2
		case IsKeyword(command[idx], "FORCE"):
			c.Force = true
			idx++
		case IsKeyword(command[idx], "JUSTID"):
			c.JustID = true
			idx++
		default:
			return nil, unsupportedOption(command, idx)
		}
	}

	return c, nil
}
