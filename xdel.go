package replicator

// XDelCommand is XDEL key id [id ...].
type XDelCommand struct {
	Key    string
	RawKey []byte
	IDs    []string
	RawIDs [][]byte
}

func (c *XDelCommand) Name() string {
	return "XDEL"
}

func parseXDel(command [][]byte) (Command, error) {
	if len(command) < 3 {
		return nil, arityError("XDEL", 2, len(command)-1)
	}

	var err error
	c := &XDelCommand{}
	if c.Key, c.RawKey, err = argument(command, 1); err != nil {
		return nil, err
	}
	for idx := 2; idx < len(command); idx++ {
		id, raw, err := streamIDArgument(command, idx)
		if err != nil {
			return nil, err
		}
		c.IDs = append(c.IDs, id)
		c.RawIDs = append(c.RawIDs, raw)
	}

	return c, nil
}
