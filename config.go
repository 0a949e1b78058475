package replicator

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rcrowley/go-metrics"
)

// Config is used to pass multiple configuration options to the decoders and the command parser
// registry.
type Config struct {
	// Snapshot is the namespace for stream value decoding properties.
	Snapshot struct {
		// The codec the value was compressed with before it reached DecodeStream
		// (default CompressionNone).
		Compression CompressionCodec
		// The largest stream value, after decompression, that will be accepted in bytes
		// (default 512MiB).
		MaxValueLength int
		// The largest string, entry field or consumer name, that will be accepted in bytes
		// (default 512MiB, the store's own bulk limit).
		MaxStringLength int
	}

	// Command is the namespace for replicated command decoding properties.
	Command struct {
		// The largest number of tokens a single command may carry (default 1Mi).
		MaxArgs int
		// The largest single token in bytes (default 512MiB).
		MaxBulkLength int
		// Parsers registers additional parsers by command name, matched case-insensitively.
		// An entry for a built-in command replaces the built-in parser.
		Parsers map[string]CommandParser
	}

	// MetricRegistry is the registry decoders and parsers record metrics into. See the package
	// documentation for the list of metrics. Defaults to a fresh registry per Config.
	MetricRegistry metrics.Registry
}

// NewConfig returns a new configuration instance with sane defaults.
func NewConfig() *Config {
	c := &Config{}

	c.Snapshot.Compression = CompressionNone
	c.Snapshot.MaxValueLength = 512 * 1024 * 1024
	c.Snapshot.MaxStringLength = 512 * 1024 * 1024

	c.Command.MaxArgs = 1024 * 1024
	c.Command.MaxBulkLength = 512 * 1024 * 1024

	c.MetricRegistry = metrics.NewRegistry()

	return c
}

// Validate checks a Config instance. It will return every problem found, combined into one
// error whose parts are ConfigurationErrors.
func (c *Config) Validate() error {
	var result *multierror.Error

	if !c.Snapshot.Compression.valid() {
		result = multierror.Append(result, ConfigurationError(fmt.Sprintf("Snapshot.Compression %d is not a known codec", c.Snapshot.Compression)))
	}
	if c.Snapshot.MaxValueLength <= 0 {
		result = multierror.Append(result, ConfigurationError("Snapshot.MaxValueLength must be > 0"))
	}
	if c.Snapshot.MaxStringLength <= 0 {
		result = multierror.Append(result, ConfigurationError("Snapshot.MaxStringLength must be > 0"))
	}
	if c.Command.MaxArgs <= 0 {
		result = multierror.Append(result, ConfigurationError("Command.MaxArgs must be > 0"))
	}
	if c.Command.MaxBulkLength <= 0 {
		result = multierror.Append(result, ConfigurationError("Command.MaxBulkLength must be > 0"))
	}
	for name, parser := range c.Command.Parsers {
		switch {
		case strings.TrimSpace(name) == "":
			result = multierror.Append(result, ConfigurationError("Command.Parsers must not contain an empty command name"))
		case parser == nil:
			result = multierror.Append(result, ConfigurationError(fmt.Sprintf("Command.Parsers[%q] must not be nil", name)))
		}
	}
	if c.MetricRegistry == nil {
		result = multierror.Append(result, ConfigurationError("MetricRegistry must not be nil"))
	}

	return result.ErrorOrNil()
}
