package replicator

import (
	"bytes"
	"encoding/binary"
	"math"
	"runtime"
)

// allocatedBytes reports how many bytes fn allocated on the heap.
func allocatedBytes(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

// rdbBuilder writes values with the snapshot encoding rules, for feeding the decoders.
type rdbBuilder struct {
	buf bytes.Buffer
}

func (b *rdbBuilder) length(n uint64) *rdbBuilder {
	switch {
	case n < 1<<6:
		b.buf.WriteByte(byte(n))
	case n < 1<<14:
		b.buf.WriteByte(byte(0x40 | n>>8))
		b.buf.WriteByte(byte(n))
	case n <= math.MaxUint32:
		b.buf.WriteByte(rdbLen32Bit)
		b.buf.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
	default:
		b.buf.WriteByte(rdbLen64Bit)
		b.buf.Write(binary.BigEndian.AppendUint64(nil, n))
	}
	return b
}

func (b *rdbBuilder) str(s string) *rdbBuilder {
	return b.raw([]byte(s))
}

func (b *rdbBuilder) raw(p []byte) *rdbBuilder {
	b.length(uint64(len(p)))
	b.buf.Write(p)
	return b
}

func (b *rdbBuilder) bytes(p ...byte) *rdbBuilder {
	b.buf.Write(p)
	return b
}

func (b *rdbBuilder) millis(ms int64) *rdbBuilder {
	b.buf.Write(binary.LittleEndian.AppendUint64(nil, uint64(ms)))
	return b
}

func (b *rdbBuilder) id(id StreamID) *rdbBuilder {
	b.buf.Write(binary.BigEndian.AppendUint64(nil, id.Ms))
	b.buf.Write(binary.BigEndian.AppendUint64(nil, id.Seq))
	return b
}

func (b *rdbBuilder) lengthID(id StreamID) *rdbBuilder {
	return b.length(id.Ms).length(id.Seq)
}

func (b *rdbBuilder) Bytes() []byte {
	return b.buf.Bytes()
}

type testEntry struct {
	id     StreamID
	fields []string // name, value, name, value...
}

type testNack struct {
	id            StreamID
	deliveryTime  int64
	deliveryCount uint64
}

type testConsumer struct {
	name     string
	seenTime int64
	pending  []StreamID
}

type testGroup struct {
	name      string
	lastID    StreamID
	pending   []testNack
	consumers []testConsumer
}

type testStream struct {
	lastID  StreamID
	entries []testEntry
	groups  []testGroup
}

func (ts testStream) encode() []byte {
	b := new(rdbBuilder)
	b.lengthID(ts.lastID)

	b.length(uint64(len(ts.entries)))
	for _, e := range ts.entries {
		b.id(e.id)
		b.length(uint64(len(e.fields) / 2))
		for _, f := range e.fields {
			b.str(f)
		}
	}

	b.length(uint64(len(ts.groups)))
	for _, g := range ts.groups {
		b.str(g.name)
		b.lengthID(g.lastID)
		b.length(uint64(len(g.pending)))
		for _, n := range g.pending {
			b.id(n.id).millis(n.deliveryTime).length(n.deliveryCount)
		}
		b.length(uint64(len(g.consumers)))
		for _, c := range g.consumers {
			b.str(c.name).millis(c.seenTime)
			b.length(uint64(len(c.pending)))
			for _, id := range c.pending {
				b.id(id)
			}
		}
	}

	return b.Bytes()
}

// basicTestStream has two entries, one group with two consumers and a pending entry nobody holds.
var basicTestStream = testStream{
	lastID: StreamID{Ms: 1700000000500, Seq: 3},
	entries: []testEntry{
		{StreamID{Ms: 1700000000000, Seq: 0}, []string{"sensor", "t1", "temp", "21.5"}},
		{StreamID{Ms: 1700000000000, Seq: 1}, []string{"sensor", "t2", "temp", "19"}},
		{StreamID{Ms: 1700000000400, Seq: 0}, []string{"sensor", "t1", "temp", "22"}},
	},
	groups: []testGroup{
		{
			name:   "workers",
			lastID: StreamID{Ms: 1700000000400, Seq: 0},
			pending: []testNack{
				{StreamID{Ms: 1700000000000, Seq: 0}, 1700000001000, 1},
				{StreamID{Ms: 1700000000000, Seq: 1}, 1700000002000, 3},
				{StreamID{Ms: 1700000000400, Seq: 0}, 1700000003000, 2},
			},
			consumers: []testConsumer{
				{"alice", 1700000005000, []StreamID{{Ms: 1700000000000, Seq: 0}, {Ms: 1700000000400, Seq: 0}}},
				{"bob", 1700000006000, []StreamID{{Ms: 1700000000000, Seq: 1}}},
			},
		},
		{
			name:   "audit",
			lastID: StreamID{},
		},
	},
}

func tokens(args ...string) [][]byte {
	command := make([][]byte, len(args))
	for i, arg := range args {
		command[i] = []byte(arg)
	}
	return command
}

func int64Ptr(v int64) *int64 {
	return &v
}
