package replicator

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	snappy "github.com/eapache/go-xerial-snappy"
	mastersnappy "github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionCodec represents the codec a snapshot value was compressed with before it was handed
// to DecodeStream.
type CompressionCodec int8

const (
	// CompressionNone means the value is the plain snapshot encoding.
	CompressionNone CompressionCodec = iota
	// CompressionGZIP compression using GZIP.
	CompressionGZIP
	// CompressionSnappy compression using snappy, raw or in the xerial framing.
	CompressionSnappy
	// CompressionLZ4 compression using LZ4 frames.
	CompressionLZ4
	// CompressionZSTD compression using ZSTD.
	CompressionZSTD
)

func (cc CompressionCodec) String() string {
	if !cc.valid() {
		return fmt.Sprintf("CompressionCodec(%d)", int8(cc))
	}
	return []string{
		"none",
		"gzip",
		"snappy",
		"lz4",
		"zstd",
	}[int(cc)]
}

// UnmarshalText returns a CompressionCodec from its string representation.
func (cc *CompressionCodec) UnmarshalText(text []byte) error {
	codecs := map[string]CompressionCodec{
		"none":   CompressionNone,
		"gzip":   CompressionGZIP,
		"snappy": CompressionSnappy,
		"lz4":    CompressionLZ4,
		"zstd":   CompressionZSTD,
	}
	codec, ok := codecs[strings.ToLower(string(text))]
	if !ok {
		return fmt.Errorf("cannot parse %q as a compression codec", string(text))
	}
	*cc = codec
	return nil
}

// MarshalText transforms a CompressionCodec into its string representation.
func (cc CompressionCodec) MarshalText() ([]byte, error) {
	return []byte(cc.String()), nil
}

func (cc CompressionCodec) valid() bool {
	return cc >= CompressionNone && cc <= CompressionZSTD
}

var (
	lz4ReaderPool = sync.Pool{
		New: func() interface{} {
			return lz4.NewReader(nil)
		},
	}

	gzipReaderPool sync.Pool

	zstdDecMap sync.Map
)

// xerial framing: 8 byte magic, 8 bytes of version info, then chunks each prefixed by a big endian
// uint32 size
var xerialHeader = []byte{130, 83, 78, 65, 80, 80, 89, 0}

const xerialChunksOffset = 16

// getDecoder returns a shared zstd decoder that refuses to produce more than maxSize bytes.
func getDecoder(maxSize int) *zstd.Decoder {
	if ret, ok := zstdDecMap.Load(maxSize); ok {
		return ret.(*zstd.Decoder)
	}
	// It's possible to race and create multiple new decoders.
	// Only one will survive GC after use.
	zstdDec, _ := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(maxSize)))
	zstdDecMap.Store(maxSize, zstdDec)
	return zstdDec
}

// decompress undoes cc and fails once the output would exceed maxSize bytes.
func decompress(cc CompressionCodec, data []byte, maxSize int) ([]byte, error) {
	switch cc {
	case CompressionNone:
		if len(data) > maxSize {
			return nil, valueTooLarge(cc, maxSize)
		}
		return data, nil
	case CompressionGZIP:
		var err error
		reader, ok := gzipReaderPool.Get().(*gzip.Reader)
		if ok {
			err = reader.Reset(bytes.NewReader(data))
		} else {
			reader, err = gzip.NewReader(bytes.NewReader(data))
		}
		if err != nil {
			return nil, DecodingError{Info: fmt.Sprintf("gzip: %v", err)}
		}
		defer gzipReaderPool.Put(reader)

		return readAllCompressed(cc, reader, maxSize)
	case CompressionSnappy:
		n, err := snappyDecodedLen(data)
		if err != nil {
			return nil, DecodingError{Info: fmt.Sprintf("snappy: %v", err)}
		}
		if n > maxSize {
			return nil, valueTooLarge(cc, maxSize)
		}
		out, err := snappy.Decode(data)
		if err != nil {
			return nil, DecodingError{Info: fmt.Sprintf("snappy: %v", err)}
		}
		return out, nil
	case CompressionLZ4:
		reader := lz4ReaderPool.Get().(*lz4.Reader)
		defer lz4ReaderPool.Put(reader)

		reader.Reset(bytes.NewReader(data))
		return readAllCompressed(cc, reader, maxSize)
	case CompressionZSTD:
		out, err := getDecoder(maxSize).DecodeAll(data, nil)
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) || errors.Is(err, zstd.ErrWindowSizeExceeded) {
			return nil, valueTooLarge(cc, maxSize)
		}
		if err != nil {
			return nil, DecodingError{Info: fmt.Sprintf("zstd: %v", err)}
		}
		return out, nil
	default:
		return nil, DecodingError{Info: fmt.Sprintf("invalid compression specified (%d)", cc)}
	}
}

func readAllCompressed(cc CompressionCodec, r io.Reader, maxSize int) ([]byte, error) {
	out, err := io.ReadAll(io.LimitReader(r, int64(maxSize)+1))
	if err != nil {
		return nil, DecodingError{Info: fmt.Sprintf("%s: %v", cc, err)}
	}
	if len(out) > maxSize {
		return nil, valueTooLarge(cc, maxSize)
	}
	return out, nil
}

// snappyDecodedLen sums the lengths the snappy blocks declare, raw or in the xerial framing,
// without decoding them.
func snappyDecodedLen(data []byte) (int, error) {
	if len(data) < xerialChunksOffset || !bytes.Equal(data[:len(xerialHeader)], xerialHeader) {
		return mastersnappy.DecodedLen(data)
	}

	total := 0
	for pos := xerialChunksOffset; pos+4 <= len(data); {
		size := int(binary.BigEndian.Uint32(data[pos:]))
		pos += 4
		if size > len(data)-pos {
			return 0, snappy.ErrMalformed
		}
		n, err := mastersnappy.DecodedLen(data[pos : pos+size])
		if err != nil {
			return 0, err
		}
		total += n
		pos += size
	}
	return total, nil
}

func valueTooLarge(cc CompressionCodec, maxSize int) error {
	return DecodingError{Info: fmt.Sprintf("%s: value exceeds the %d byte limit", cc, maxSize)}
}
