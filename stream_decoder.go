package replicator

import (
	"fmt"

	"github.com/rcrowley/go-metrics"
)

// DecodeStream decodes one stream value. buf must hold exactly the value, after
// Config.Snapshot.Compression is undone. On any failure no Stream is returned; the error is a
// DecodingError (errors.Is(err, ErrMalformedEncoding)) or a ConfigurationError.
func DecodeStream(buf []byte, conf *Config) (*Stream, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	raw, err := decompress(conf.Snapshot.Compression, buf, conf.Snapshot.MaxValueLength)
	if err != nil {
		return nil, streamDecodeFailed(conf.MetricRegistry, err)
	}

	rd := &realRDBDecoder{raw: raw, maxString: conf.Snapshot.MaxStringLength}
	s := new(Stream)
	if err := s.decode(rd); err != nil {
		return nil, streamDecodeFailed(conf.MetricRegistry, err)
	}
	if rd.remaining() != 0 {
		err := DecodingError{Info: fmt.Sprintf("%d trailing bytes after stream value", rd.remaining())}
		return nil, streamDecodeFailed(conf.MetricRegistry, err)
	}

	updateStreamMetrics(conf.MetricRegistry, len(raw), s)
	return s, nil
}

// DecodeStreamPrefix decodes the stream value at the start of buf and reports how many bytes it
// took, for RDB framing that does not know the value length up front. Compression is not applied:
// a prefix of a compressed blob cannot be decoded.
func DecodeStreamPrefix(buf []byte, conf *Config) (*Stream, int, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, 0, err
	}

	rd := &realRDBDecoder{raw: buf, maxString: conf.Snapshot.MaxStringLength}
	s := new(Stream)
	if err := s.decode(rd); err != nil {
		return nil, 0, streamDecodeFailed(conf.MetricRegistry, err)
	}

	updateStreamMetrics(conf.MetricRegistry, rd.offset(), s)
	return s, rd.offset(), nil
}

func streamDecodeFailed(r metrics.Registry, err error) error {
	metrics.GetOrRegisterCounter("stream-decode-errors", r).Inc(1)
	Logger.Printf("rdb/stream rejecting stream value: %v\n", err)
	return err
}

func (s *Stream) decode(pd rdbDecoder) (err error) {
	if s.LastID, err = pd.getLengthStreamID(); err != nil {
		return err
	}

	n, err := pd.getCount()
	if err != nil {
		return err
	}
	s.Entries = NewIDMap[*StreamEntry]()
	for i := 0; i < n; i++ {
		entry := new(StreamEntry)
		if err := entry.decode(pd); err != nil {
			return err
		}
		if s.Entries.Put(entry.ID, entry) {
			return DecodingError{Info: fmt.Sprintf("duplicate stream entry %s", entry.ID)}
		}
	}
	if maxID, _, ok := s.Entries.Max(); ok && s.LastID.Less(maxID) {
		return DecodingError{Info: fmt.Sprintf("last ID %s is lower than entry %s", s.LastID, maxID)}
	}

	n, err = pd.getCount()
	if err != nil {
		return err
	}
	s.Groups = make([]*StreamGroup, n)
	for i := range s.Groups {
		group := new(StreamGroup)
		if err := group.decode(pd); err != nil {
			return err
		}
		s.Groups[i] = group
	}

	return nil
}

func (e *StreamEntry) decode(pd rdbDecoder) (err error) {
	if e.ID, err = pd.getStreamID(); err != nil {
		return err
	}

	n, err := pd.getCount()
	if err != nil {
		return err
	}
	e.Fields = make([]Field, n)
	e.RawFields = make([]RawField, n)
	for i := 0; i < n; i++ {
		name, err := pd.getString()
		if err != nil {
			return err
		}
		value, err := pd.getString()
		if err != nil {
			return err
		}
		e.RawFields[i] = RawField{Name: name, Value: value}
		e.Fields[i] = Field{Name: textView(name), Value: textView(value)}
	}

	return nil
}

// decode reads the group and its consumers. The group pending entries are staged first with no
// consumer; each consumer then claims its entries from them by ID.
func (g *StreamGroup) decode(pd rdbDecoder) (err error) {
	if g.RawName, err = pd.getString(); err != nil {
		return err
	}
	g.Name = textView(g.RawName)

	if g.LastDeliveredID, err = pd.getLengthStreamID(); err != nil {
		return err
	}

	n, err := pd.getCount()
	if err != nil {
		return err
	}
	g.PendingEntries = NewIDMap[*StreamNack]()
	for i := 0; i < n; i++ {
		nack := &StreamNack{Consumer: NoConsumer}
		if err := nack.decode(pd); err != nil {
			return err
		}
		if g.PendingEntries.Put(nack.ID, nack) {
			return DecodingError{Info: fmt.Sprintf("group %q has duplicate pending entry %s", g.Name, nack.ID)}
		}
	}

	n, err = pd.getCount()
	if err != nil {
		return err
	}
	g.Consumers = make([]*StreamConsumer, n)
	for i := range g.Consumers {
		consumer := new(StreamConsumer)
		if err := consumer.decode(pd, g, i); err != nil {
			return err
		}
		g.Consumers[i] = consumer
	}

	return nil
}

func (n *StreamNack) decode(pd rdbDecoder) (err error) {
	if n.ID, err = pd.getStreamID(); err != nil {
		return err
	}
	if n.DeliveryTime, err = pd.getMillis(); err != nil {
		return err
	}
	n.DeliveryCount, err = getInt64Length(pd, "delivery count")
	return err
}

func (c *StreamConsumer) decode(pd rdbDecoder, g *StreamGroup, index int) (err error) {
	if c.RawName, err = pd.getString(); err != nil {
		return err
	}
	c.Name = textView(c.RawName)

	if c.SeenTime, err = pd.getMillis(); err != nil {
		return err
	}

	n, err := pd.getCount()
	if err != nil {
		return err
	}
	c.PendingEntries = NewIDMap[*StreamNack]()
	for i := 0; i < n; i++ {
		id, err := pd.getStreamID()
		if err != nil {
			return err
		}
		nack, ok := g.PendingEntries.Get(id)
		if !ok {
			return DecodingError{Info: fmt.Sprintf("consumer %q of group %q holds pending entry %s missing from the group", c.Name, g.Name, id)}
		}
		if nack.Consumer != NoConsumer {
			return DecodingError{Info: fmt.Sprintf("pending entry %s of group %q is held by more than one consumer", id, g.Name)}
		}
		nack.Consumer = index
		c.PendingEntries.Put(id, nack)
	}

	return nil
}
