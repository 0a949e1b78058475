package replicator

import (
	"bytes"
	"time"
)

// NoConsumer is the StreamNack.Consumer value of a pending entry that no consumer holds.
const NoConsumer = -1

// Stream is a decoded stream value.
type Stream struct {
	// LastID is the highest ID the stream ever assigned. It does not move back when entries are
	// deleted, so it may be greater than the last key of Entries.
	LastID  StreamID
	Entries *IDMap[*StreamEntry]
	Groups  []*StreamGroup
}

// Group returns the consumer group with the given name.
func (s *Stream) Group(name string) (*StreamGroup, bool) {
	for _, g := range s.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// Field is the decoded view of one entry field.
type Field struct {
	Name  string
	Value string
}

// RawField is one entry field exactly as stored.
type RawField struct {
	Name  []byte
	Value []byte
}

// StreamEntry is a single stream entry. Fields and RawFields are in the order the fields were
// written; RawFields is canonical.
type StreamEntry struct {
	ID        StreamID
	Fields    []Field
	RawFields []RawField
}

// Field returns the decoded value of the first field with the given decoded name.
func (e *StreamEntry) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// RawField returns the raw value of the first field whose raw name equals name.
func (e *StreamEntry) RawField(name []byte) ([]byte, bool) {
	for _, f := range e.RawFields {
		if bytes.Equal(f.Name, name) {
			return f.Value, true
		}
	}
	return nil, false
}

// StreamGroup is a consumer group. PendingEntries is the group-wide pending entry list: every
// record in a consumer's PendingEntries is the same *StreamNack found here under the same ID.
type StreamGroup struct {
	Name            string
	RawName         []byte
	LastDeliveredID StreamID
	PendingEntries  *IDMap[*StreamNack]
	Consumers       []*StreamConsumer
}

// Owner returns the consumer currently holding the pending entry, or nil.
func (g *StreamGroup) Owner(nack *StreamNack) *StreamConsumer {
	if nack == nil || nack.Consumer < 0 || nack.Consumer >= len(g.Consumers) {
		return nil
	}
	return g.Consumers[nack.Consumer]
}

// Consumer returns the consumer with the given name.
func (g *StreamGroup) Consumer(name string) (*StreamConsumer, bool) {
	for _, c := range g.Consumers {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// StreamConsumer is a consumer of a group and the entries delivered to it but not yet
// acknowledged.
type StreamConsumer struct {
	Name           string
	RawName        []byte
	SeenTime       int64
	PendingEntries *IDMap[*StreamNack]
}

// SeenAt returns SeenTime, a unix time in milliseconds, as a time.Time.
func (c *StreamConsumer) SeenAt() time.Time {
	return time.UnixMilli(c.SeenTime)
}

// StreamNack is a pending entry: delivered, not yet acknowledged. Consumer is the index of the
// holding consumer in the owning group's Consumers, or NoConsumer. It is a handle, not an owner:
// records are owned by the pending entry lists that hold them.
type StreamNack struct {
	ID            StreamID
	Consumer      int
	DeliveryTime  int64
	DeliveryCount int64
}

// DeliveredAt returns DeliveryTime, a unix time in milliseconds, as a time.Time.
func (n *StreamNack) DeliveredAt() time.Time {
	return time.UnixMilli(n.DeliveryTime)
}
