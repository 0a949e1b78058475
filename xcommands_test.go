package replicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXAckAndXDel(t *testing.T) {
	cmd, err := parseXAck(tokens("XACK", "mystream", "mygroup", "1-0", "2-5"))
	require.NoError(t, err)
	ack := cmd.(*XAckCommand)
	assert.Equal(t, "mystream", ack.Key)
	assert.Equal(t, "mygroup", ack.Group)
	assert.Equal(t, []string{"1-0", "2-5"}, ack.IDs)

	cmd, err = parseXDel(tokens("XDEL", "mystream", "3-1"))
	require.NoError(t, err)
	del := cmd.(*XDelCommand)
	assert.Equal(t, "XDEL", del.Name())
	assert.Equal(t, []string{"3-1"}, del.IDs)
	assert.Equal(t, [][]byte{[]byte("3-1")}, del.RawIDs)

	_, err = parseXAck(tokens("XACK", "mystream", "mygroup"))
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = parseXAck(tokens("XACK", "mystream", "mygroup", "1-0", "later"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = parseXDel(tokens("XDEL", "mystream"))
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestParseXAdd(t *testing.T) {
	cmd, err := parseXAdd(tokens("XADD", "mystream", "*", "sensor", "t1", "temp", "21"))
	require.NoError(t, err)

	c := cmd.(*XAddCommand)
	assert.Equal(t, "*", c.ID)
	assert.False(t, c.NoMkStream)
	assert.Nil(t, c.Trim)
	assert.Equal(t, []Field{{"sensor", "t1"}, {"temp", "21"}}, c.Fields)
	assert.Equal(t, []RawField{{[]byte("sensor"), []byte("t1")}, {[]byte("temp"), []byte("21")}}, c.RawFields)

	cmd, err = parseXAdd(tokens("XADD", "mystream", "NOMKSTREAM", "MAXLEN", "~", "1000", "LIMIT", "100", "5-1", "k", "v"))
	require.NoError(t, err)

	c = cmd.(*XAddCommand)
	assert.True(t, c.NoMkStream)
	assert.Equal(t, "5-1", c.ID)
	assert.Equal(t, &TrimOptions{
		Strategy:     TrimMaxLen,
		Approximate:  true,
		Threshold:    "1000",
		RawThreshold: []byte("1000"),
		Limit:        int64Ptr(100),
	}, c.Trim)

	cmd, err = parseXAdd(tokens("XADD", "mystream", "minid", "=", "7-0", "*", "k", "v"))
	require.NoError(t, err)
	c = cmd.(*XAddCommand)
	assert.Equal(t, TrimMinID, c.Trim.Strategy)
	assert.False(t, c.Trim.Approximate)
	assert.Equal(t, "7-0", c.Trim.Threshold)
}

func TestParseXAddErrors(t *testing.T) {
	for _, tt := range []struct {
		name    string
		command [][]byte
		err     error
	}{
		{"too short", tokens("XADD", "s", "*", "k"), ErrArityMismatch},
		{"odd fields", tokens("XADD", "s", "*", "k", "v", "k2"), ErrArityMismatch},
		{"no fields after trim", tokens("XADD", "s", "MAXLEN", "10", "*"), ErrArityMismatch},
		{"bad id", tokens("XADD", "s", "next", "k", "v"), ErrTypeMismatch},
		{"fractional maxlen", tokens("XADD", "s", "MAXLEN", "1.5", "*", "k", "v"), ErrNotAnExactInteger},
		{"bad minid", tokens("XADD", "s", "MINID", "soon", "*", "k", "v"), ErrTypeMismatch},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseXAdd(tt.command)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseXTrim(t *testing.T) {
	cmd, err := parseXTrim(tokens("XTRIM", "mystream", "MAXLEN", "1000"))
	require.NoError(t, err)
	c := cmd.(*XTrimCommand)
	assert.Equal(t, TrimOptions{Strategy: TrimMaxLen, Threshold: "1000", RawThreshold: []byte("1000")}, c.Trim)

	cmd, err = parseXTrim(tokens("XTRIM", "mystream", "minid", "~", "1700000000000-0", "limit", "50"))
	require.NoError(t, err)
	c = cmd.(*XTrimCommand)
	assert.Equal(t, TrimMinID, c.Trim.Strategy)
	assert.True(t, c.Trim.Approximate)
	assert.Equal(t, int64Ptr(50), c.Trim.Limit)

	_, err = parseXTrim(tokens("XTRIM", "mystream", "KEEP", "10"))
	assert.ErrorIs(t, err, ErrUnsupportedOption)

	_, err = parseXTrim(tokens("XTRIM", "mystream", "MAXLEN", "10", "EXTRA"))
	assert.ErrorIs(t, err, ErrUnsupportedOption)

	_, err = parseXTrim(tokens("XTRIM", "mystream", "MAXLEN", "~"))
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = parseXTrim(tokens("XTRIM", "mystream", "MAXLEN", "10", "LIMIT"))
	assert.ErrorIs(t, err, ErrArityMismatch)
}

func TestParseXSetID(t *testing.T) {
	cmd, err := parseXSetID(tokens("XSETID", "mystream", "9-9"))
	require.NoError(t, err)
	c := cmd.(*XSetIDCommand)
	assert.Equal(t, "9-9", c.LastID)
	assert.Nil(t, c.EntriesAdded)
	assert.Nil(t, c.MaxDeletedID)

	cmd, err = parseXSetID(tokens("XSETID", "mystream", "9-9", "ENTRIESADDED", "12", "MAXDELETEDID", "4-0"))
	require.NoError(t, err)
	c = cmd.(*XSetIDCommand)
	assert.Equal(t, int64Ptr(12), c.EntriesAdded)
	require.NotNil(t, c.MaxDeletedID)
	assert.Equal(t, "4-0", *c.MaxDeletedID)
	assert.Equal(t, []byte("4-0"), c.RawMaxDeletedID)

	_, err = parseXSetID(tokens("XSETID", "mystream", "last"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = parseXSetID(tokens("XSETID", "mystream", "9-9", "MAXDELETEDID"))
	assert.ErrorIs(t, err, ErrArityMismatch)

	_, err = parseXSetID(tokens("XSETID", "mystream", "9-9", "BOGUS"))
	assert.ErrorIs(t, err, ErrUnsupportedOption)
}

func TestParseXGroup(t *testing.T) {
	cmd, err := parseXGroup(tokens("XGROUP", "CREATE", "mystream", "mygroup", "$", "MKSTREAM", "ENTRIESREAD", "3"))
	require.NoError(t, err)
	create := cmd.(*XGroupCreateCommand)
	assert.Equal(t, "XGROUP", create.Name())
	assert.Equal(t, "mystream", create.Key)
	assert.Equal(t, "mygroup", create.Group)
	assert.Equal(t, "$", create.ID)
	assert.True(t, create.MkStream)
	assert.Equal(t, int64Ptr(3), create.EntriesRead)

	cmd, err = parseXGroup(tokens("xgroup", "setid", "mystream", "mygroup", "0-0"))
	require.NoError(t, err)
	setID := cmd.(*XGroupSetIDCommand)
	assert.Equal(t, "0-0", setID.ID)
	assert.Nil(t, setID.EntriesRead)

	cmd, err = parseXGroup(tokens("XGROUP", "DESTROY", "mystream", "mygroup"))
	require.NoError(t, err)
	assert.IsType(t, &XGroupDestroyCommand{}, cmd)

	cmd, err = parseXGroup(tokens("XGROUP", "CREATECONSUMER", "mystream", "mygroup", "Alice"))
	require.NoError(t, err)
	assert.Equal(t, "Alice", cmd.(*XGroupCreateConsumerCommand).Consumer)

	cmd, err = parseXGroup(tokens("XGROUP", "DELCONSUMER", "mystream", "mygroup", "Bob"))
	require.NoError(t, err)
	assert.Equal(t, "Bob", cmd.(*XGroupDelConsumerCommand).Consumer)
}

func TestParseXGroupErrors(t *testing.T) {
	for _, tt := range []struct {
		name    string
		command [][]byte
		err     error
	}{
		{"too short", tokens("XGROUP", "CREATE", "s"), ErrArityMismatch},
		{"unknown subcommand", tokens("XGROUP", "RENAME", "s", "g"), ErrUnsupportedOption},
		{"create without id", tokens("XGROUP", "CREATE", "s", "g"), ErrArityMismatch},
		{"create bad id", tokens("XGROUP", "CREATE", "s", "g", "latest"), ErrTypeMismatch},
		{"create bad option", tokens("XGROUP", "CREATE", "s", "g", "$", "NOACK"), ErrUnsupportedOption},
		{"setid bad option", tokens("XGROUP", "SETID", "s", "g", "$", "MKSTREAM"), ErrUnsupportedOption},
		{"destroy extra", tokens("XGROUP", "DESTROY", "s", "g", "c"), ErrUnsupportedOption},
		{"createconsumer missing consumer", tokens("XGROUP", "CREATECONSUMER", "s", "g"), ErrArityMismatch},
		{"delconsumer extra", tokens("XGROUP", "DELCONSUMER", "s", "g", "c", "d"), ErrUnsupportedOption},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseXGroup(tt.command)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}
