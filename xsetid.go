package replicator

// XSetIDCommand is XSETID key last-id [ENTRIESADDED entries-added] [MAXDELETEDID max-deleted-id].
type XSetIDCommand struct {
	Key             string
	RawKey          []byte
	LastID          string
	RawLastID       []byte
	EntriesAdded    *int64
	MaxDeletedID    *string
	RawMaxDeletedID []byte
}

func (c *XSetIDCommand) Name() string {
	return "XSETID"
}

func parseXSetID(command [][]byte) (Command, error) {
	if len(command) < 3 {
		return nil, arityError("XSETID", 2, len(command)-1)
	}

	var err error
	c := &XSetIDCommand{}
	if c.Key, c.RawKey, err = argument(command, 1); err != nil {
		return nil, err
	}
	if c.LastID, c.RawLastID, err = streamIDArgument(command, 2); err != nil {
		return nil, err
	}

	for idx := 3; idx < len(command); {
		switch {
		case IsKeyword(command[idx], "ENTRIESADDED"):
			if c.EntriesAdded, err = optionValue(command, idx); err != nil {
				return nil, err
			}
			idx += 2
		case IsKeyword(command[idx], "MAXDELETEDID"):
			id, raw, err := streamIDArgument(command, idx+1)
			if err != nil {
				return nil, err
			}
			c.MaxDeletedID, c.RawMaxDeletedID = &id, raw
			idx += 2
		default:
			return nil, unsupportedOption(command, idx)
		}
	}

	return c, nil
}
