package replicator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLZFDecompress(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   []byte
		size int
		want string
	}{
		{"literal", []byte{0x02, 'a', 'b', 'c'}, 3, "abc"},
		{"short reference", []byte{0x01, 'a', 'b', 0x20, 0x01}, 5, "ababa"},
		{"overlapping long reference", []byte{0x00, 'a', 0xe0, 0x00, 0x00}, 10, "aaaaaaaaaa"},
		{"empty", nil, 0, ""},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lzfDecompress(tt.in, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestLZFDecompressErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   []byte
		size int
	}{
		{"truncated literal", []byte{0x05, 'a'}, 6},
		{"literal past size", []byte{0x02, 'a', 'b', 'c'}, 2},
		{"reference before start", []byte{0x20, 0x05}, 3},
		{"truncated reference", []byte{0x00, 'a', 0x20}, 4},
		{"truncated long reference", []byte{0x00, 'a', 0xe0}, 10},
		{"short output", []byte{0x02, 'a', 'b', 'c'}, 4},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lzfDecompress(tt.in, tt.size)
			assert.ErrorIs(t, err, ErrMalformedEncoding)
		})
	}
}
