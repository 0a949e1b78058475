package replicator

// XGroupCreateCommand is XGROUP CREATE key group id|$ [MKSTREAM] [ENTRIESREAD entries-read].
type XGroupCreateCommand struct {
	Key         string
	RawKey      []byte
	Group       string
	RawGroup    []byte
	ID          string
	RawID       []byte
	MkStream    bool
	EntriesRead *int64
}

func (c *XGroupCreateCommand) Name() string {
	return "XGROUP"
}

// XGroupSetIDCommand is XGROUP SETID key group id|$ [ENTRIESREAD entries-read].
type XGroupSetIDCommand struct {
	Key         string
	RawKey      []byte
	Group       string
	RawGroup    []byte
	ID          string
	RawID       []byte
	EntriesRead *int64
}

func (c *XGroupSetIDCommand) Name() string {
	return "XGROUP"
}

// XGroupDestroyCommand is XGROUP DESTROY key group.
type XGroupDestroyCommand struct {
	Key      string
	RawKey   []byte
	Group    string
	RawGroup []byte
}

func (c *XGroupDestroyCommand) Name() string {
	return "XGROUP"
}

// XGroupCreateConsumerCommand is XGROUP CREATECONSUMER key group consumer.
type XGroupCreateConsumerCommand struct {
	Key         string
	RawKey      []byte
	Group       string
	RawGroup    []byte
	Consumer    string
	RawConsumer []byte
}

func (c *XGroupCreateConsumerCommand) Name() string {
	return "XGROUP"
}

// XGroupDelConsumerCommand is XGROUP DELCONSUMER key group consumer.
type XGroupDelConsumerCommand struct {
	Key         string
	RawKey      []byte
	Group       string
	RawGroup    []byte
	Consumer    string
	RawConsumer []byte
}

func (c *XGroupDelConsumerCommand) Name() string {
	return "XGROUP"
}

func parseXGroup(command [][]byte) (Command, error) {
	if len(command) < 4 {
		return nil, arityError("XGROUP", 3, len(command)-1)
	}

	key, rawKey, err := argument(command, 2)
	if err != nil {
		return nil, err
	}
	group, rawGroup, err := argument(command, 3)
	if err != nil {
		return nil, err
	}

	switch {
	case IsKeyword(command[1], "CREATE"):
		c := &XGroupCreateCommand{Key: key, RawKey: rawKey, Group: group, RawGroup: rawGroup}
		if c.ID, c.RawID, err = streamIDArgument(command, 4, "$"); err != nil {
			return nil, err
		}
		for idx := 5; idx < len(command); {
			switch {
			case IsKeyword(command[idx], "MKSTREAM"):
				c.MkStream = true
				idx++
			case IsKeyword(command[idx], "ENTRIESREAD"):
				if c.EntriesRead, err = optionValue(command, idx); err != nil {
					return nil, err
				}
				idx += 2
			default:
				return nil, unsupportedOption(command, idx)
			}
		}
		return c, nil
	case IsKeyword(command[1], "SETID"):
		c := &XGroupSetIDCommand{Key: key, RawKey: rawKey, Group: group, RawGroup: rawGroup}
		if c.ID, c.RawID, err = streamIDArgument(command, 4, "$"); err != nil {
			return nil, err
		}
		for idx := 5; idx < len(command); {
			if !IsKeyword(command[idx], "ENTRIESREAD") {
				return nil, unsupportedOption(command, idx)
			}
			if c.EntriesRead, err = optionValue(command, idx); err != nil {
				return nil, err
			}
			idx += 2
		}
		return c, nil
	case IsKeyword(command[1], "DESTROY"):
		if len(command) > 4 {
			return nil, unsupportedOption(command, 4)
		}
		return &XGroupDestroyCommand{Key: key, RawKey: rawKey, Group: group, RawGroup: rawGroup}, nil
	case IsKeyword(command[1], "CREATECONSUMER"):
		consumer, rawConsumer, err := consumerArgument(command)
		if err != nil {
			return nil, err
		}
		return &XGroupCreateConsumerCommand{
			Key: key, RawKey: rawKey, Group: group, RawGroup: rawGroup,
			Consumer: consumer, RawConsumer: rawConsumer,
		}, nil
	case IsKeyword(command[1], "DELCONSUMER"):
		consumer, rawConsumer, err := consumerArgument(command)
		if err != nil {
			return nil, err
		}
		return &XGroupDelConsumerCommand{
			Key: key, RawKey: rawKey, Group: group, RawGroup: rawGroup,
			Consumer: consumer, RawConsumer: rawConsumer,
		}, nil
	default:
		return nil, unsupportedOption(command, 1)
	}
}

func consumerArgument(command [][]byte) (string, []byte, error) {
	consumer, raw, err := argument(command, 4)
	if err != nil {
		return "", nil, err
	}
	if len(command) > 5 {
		return "", nil, unsupportedOption(command, 5)
	}
	return consumer, raw, nil
}
