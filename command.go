package replicator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rcrowley/go-metrics"
)

// Command is a typed replicated command. Values are built once by a parser and never modified.
type Command interface {
	// Name returns the upper-case command name.
	Name() string
}

// CommandParser turns a command token array into a Command. command[0] is the command name and
// the arguments follow. Implementations must be pure functions of their input so a registry can be
// shared between goroutines.
type CommandParser interface {
	Parse(command [][]byte) (Command, error)
}

// CommandParserFunc adapts an ordinary function to a CommandParser.
type CommandParserFunc func(command [][]byte) (Command, error)

// Parse calls f(command).
func (f CommandParserFunc) Parse(command [][]byte) (Command, error) {
	return f(command)
}

func builtinCommandParsers() map[string]CommandParser {
	return map[string]CommandParser{
		"XACK":   CommandParserFunc(parseXAck),
		"XADD":   CommandParserFunc(parseXAdd),
		"XCLAIM": CommandParserFunc(parseXClaim),
		"XDEL":   CommandParserFunc(parseXDel),
		"XGROUP": CommandParserFunc(parseXGroup),
		"XSETID": CommandParserFunc(parseXSetID),
		"XTRIM":  CommandParserFunc(parseXTrim),
	}
}

// CommandParsers maps command names to parsers. It is immutable once built and safe for concurrent
// use.
type CommandParsers struct {
	parsers  map[string]CommandParser
	registry metrics.Registry
}

// NewCommandParsers builds the registry from the built-in stream command parsers and
// conf.Command.Parsers.
func NewCommandParsers(conf *Config) (*CommandParsers, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	parsers := builtinCommandParsers()
	for name, parser := range conf.Command.Parsers {
		parsers[strings.ToUpper(name)] = parser
	}

	return &CommandParsers{parsers: parsers, registry: conf.MetricRegistry}, nil
}

// Names returns the registered command names, sorted.
func (p *CommandParsers) Names() []string {
	names := make([]string, 0, len(p.parsers))
	for name := range p.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the parser registered for name, ignoring case.
func (p *CommandParsers) Lookup(name string) (CommandParser, bool) {
	parser, ok := p.parsers[strings.ToUpper(name)]
	return parser, ok
}

// Parse dispatches command to the parser registered for command[0]. Unknown names fail with
// ErrUnknownCommand; parser failures are returned unchanged.
func (p *CommandParsers) Parse(command [][]byte) (Command, error) {
	if len(command) == 0 {
		return nil, p.failed("", fmt.Errorf("%w: empty command", ErrArityMismatch))
	}
	name, ok := ToText(command[0])
	if !ok {
		return nil, p.failed("", fmt.Errorf("%w: null command name", ErrTypeMismatch))
	}

	parser, ok := p.Lookup(name)
	if !ok {
		return nil, p.failed(name, fmt.Errorf("%w: %q", ErrUnknownCommand, name))
	}

	metrics.GetOrRegisterCounter("command-count", p.registry).Inc(1)
	getOrRegisterCommandCounter("command-count", name, p.registry).Inc(1)

	cmd, err := parser.Parse(command)
	if err != nil {
		return nil, p.failed(name, err)
	}
	return cmd, nil
}

func (p *CommandParsers) failed(name string, err error) error {
	metrics.GetOrRegisterCounter("command-errors", p.registry).Inc(1)
	DebugLogger.Printf("command/%s skipped: %v\n", name, err)
	return err
}

// argument returns the decoded and raw forms of command[idx], failing with ErrArityMismatch when
// the command is too short.
func argument(command [][]byte, idx int) (string, []byte, error) {
	if idx >= len(command) {
		return "", nil, fmt.Errorf("%w: %s is missing argument %d", ErrArityMismatch, commandName(command), idx)
	}
	raw, err := ToBytes(command[idx])
	if err != nil {
		return "", nil, err
	}
	return textView(raw), raw, nil
}

func int64Argument(command [][]byte, idx int) (int64, error) {
	if idx >= len(command) {
		return 0, fmt.Errorf("%w: %s is missing argument %d", ErrArityMismatch, commandName(command), idx)
	}
	return ToInt64(command[idx])
}

// optionValue reads the integer following an option keyword at command[idx].
func optionValue(command [][]byte, idx int) (*int64, error) {
	if idx+1 >= len(command) {
		keyword, _ := ToText(command[idx])
		return nil, fmt.Errorf("%w: %s option %s needs a value", ErrArityMismatch, commandName(command), strings.ToUpper(keyword))
	}
	v, err := ToInt64(command[idx+1])
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// streamIDs collects the run of stream IDs starting at command[idx] and returns the index of the
// first token that is not one.
func streamIDs(command [][]byte, idx int) ([]string, [][]byte, int) {
	end := idx
	for end < len(command) && LooksLikeStreamID(command[end]) {
		end++
	}
	ids := make([]string, 0, end-idx)
	rawIDs := make([][]byte, 0, end-idx)
	for ; idx < end; idx++ {
		ids = append(ids, string(command[idx]))
		rawIDs = append(rawIDs, command[idx])
	}
	return ids, rawIDs, end
}

func unsupportedOption(command [][]byte, idx int) error {
	option, _ := ToText(command[idx])
	return UnsupportedOptionError{Command: commandName(command), Option: option}
}

func commandName(command [][]byte) string {
	if len(command) == 0 {
		return ""
	}
	name, _ := ToText(command[0])
	return strings.ToUpper(name)
}

// streamIDArgument reads command[idx] and requires it to be a stream ID or one of the given
// special IDs, such as "*" or "$".
func streamIDArgument(command [][]byte, idx int, special ...string) (string, []byte, error) {
	id, raw, err := argument(command, idx)
	if err != nil {
		return "", nil, err
	}
	for _, s := range special {
		if id == s {
			return id, raw, nil
		}
	}
	if !LooksLikeStreamID(raw) {
		return "", nil, fmt.Errorf("%w: %s argument %d %q is not a stream ID", ErrTypeMismatch, commandName(command), idx, id)
	}
	return id, raw, nil
}
