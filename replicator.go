/*
Package replicator decodes the two artifacts a replicating key-value store emits for its stream type:
the RDB snapshot encoding of a stream value (entries, consumer groups, consumers and their pending
entry lists) and the command token arrays propagated over the replication link.

To decode a stream value that the surrounding RDB framing has already cut out of a snapshot, use
DecodeStream:

	stream, err := replicator.DecodeStream(value, replicator.NewConfig())
	if err != nil {
		// the whole value is rejected, there is no partial result
	}
	stream.Entries.Ascend(func(id replicator.StreamID, e *replicator.StreamEntry) bool {
		fmt.Println(id, e.Fields)
		return true
	})

To turn replicated commands into typed values, build a CommandParsers registry once and share it:

	parsers, err := replicator.NewCommandParsers(replicator.NewConfig())
	...
	reader := replicator.NewCommandReader(conn, conf)
	for {
		tokens, err := reader.ReadCommand()
		...
		cmd, err := parsers.Parse(tokens)
		if errors.Is(err, replicator.ErrUnknownCommand) {
			continue
		}
		...
	}

Every text view exposed by the decoded values has a raw byte counterpart. The text view replaces
invalid UTF-8, so callers that need to re-emit the original bytes must use the raw view.

Metrics

The decoders record metrics into the go-metrics registry of the Config they are given:

	+----------------------------+------------+----------------------------------------------+
	| Name                       | Type       | Description                                  |
	+----------------------------+------------+----------------------------------------------+
	| snapshot-size              | histogram  | Size in bytes of decoded stream values       |
	| stream-entries             | histogram  | Entries per decoded stream                   |
	| stream-groups              | histogram  | Consumer groups per decoded stream           |
	| stream-pending-entries     | histogram  | Global pending entries per consumer group    |
	| stream-decode-errors       | counter    | Stream values rejected as malformed          |
	| command-count              | counter    | Commands dispatched to a parser              |
	| command-count-for-<name>   | counter    | Commands dispatched for a given command name |
	| command-errors             | counter    | Commands that failed to dispatch or parse    |
	+----------------------------+------------+----------------------------------------------+
*/
package replicator

import (
	"io"
	"log"
)

// Logger is the instance of a StdLogger interface that the decoders write connection-independent
// failures to. By default it is set to discard all log messages via io.Discard, but you can set it
// to redirect wherever you want.
var Logger StdLogger = log.New(io.Discard, "[replicator] ", log.LstdFlags)

// DebugLogger is the instance of a StdLogger interface used for per-command tracing, such as
// commands skipped because no parser is registered for them. Like Logger it discards by default.
var DebugLogger StdLogger = log.New(io.Discard, "[replicator][debug] ", log.LstdFlags)

// StdLogger is used to log error messages.
type StdLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}
