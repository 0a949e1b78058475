package replicator

// XAckCommand is XACK key group id [id ...].
type XAckCommand struct {
	Key      string
	RawKey   []byte
	Group    string
	RawGroup []byte
	IDs      []string
	RawIDs   [][]byte
}

func (c *XAckCommand) Name() string {
	return "XACK"
}

func parseXAck(command [][]byte) (Command, error) {
	if len(command) < 4 {
		return nil, arityError("XACK", 3, len(command)-1)
	}

	var err error
	c := &XAckCommand{}
	if c.Key, c.RawKey, err = argument(command, 1); err != nil {
		return nil, err
	}
	if c.Group, c.RawGroup, err = argument(command, 2); err != nil {
		return nil, err
	}
	for idx := 3; idx < len(command); idx++ {
		id, raw, err := streamIDArgument(command, idx)
		if err != nil {
			return nil, err
		}
		c.IDs = append(c.IDs, id)
		c.RawIDs = append(c.RawIDs, raw)
	}

	return c, nil
}
