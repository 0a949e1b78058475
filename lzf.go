package replicator

import "fmt"

// lzfDecompress expands an LZF block into exactly size bytes.
func lzfDecompress(in []byte, size int) ([]byte, error) {
	out := make([]byte, 0, size)
	for ip := 0; ip < len(in); {
		ctrl := int(in[ip])
		ip++

		if ctrl < 1<<5 {
			// literal run of ctrl+1 bytes
			n := ctrl + 1
			if ip+n > len(in) || len(out)+n > size {
				return nil, DecodingError{Info: "lzf literal run out of bounds"}
			}
			out = append(out, in[ip:ip+n]...)
			ip += n
			continue
		}

		n := ctrl >> 5
		if n == 7 {
			if ip >= len(in) {
				return nil, DecodingError{Info: "lzf back reference truncated"}
			}
			n += int(in[ip])
			ip++
		}
		if ip >= len(in) {
			return nil, DecodingError{Info: "lzf back reference truncated"}
		}
		ref := len(out) - (ctrl&0x1f)<<8 - int(in[ip]) - 1
		ip++
		n += 2

		if ref < 0 || len(out)+n > size {
			return nil, DecodingError{Info: "lzf back reference out of bounds"}
		}
		// the reference may overlap the bytes being written
		for i := 0; i < n; i++ {
			out = append(out, out[ref+i])
		}
	}

	if len(out) != size {
		return nil, DecodingError{Info: fmt.Sprintf("lzf expanded to %d bytes, expected %d", len(out), size)}
	}
	return out, nil
}
