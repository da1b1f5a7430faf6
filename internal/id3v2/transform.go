package id3v2

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Desync reverses unsynchronisation: the 0x00 of every 0xFF 0x00 pair is
// dropped. When no pair is present the input slice itself is returned.
func Desync(b []byte) []byte {
	first := bytes.Index(b, []byte{0xFF, 0x00})
	if first < 0 {
		return b
	}

	out := make([]byte, first+1, len(b)-1)
	copy(out, b[:first+1])
	last := byte(0x00)
	for _, c := range b[first+2:] {
		if last == 0xFF && c == 0x00 {
			last = c
			continue
		}
		out = append(out, c)
		last = c
	}
	return out
}

// Inflate decompresses a zlib payload to exactly size bytes.
func Inflate(b []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer zr.Close()

	out := make([]byte, size)
	if n, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("inflate: got %d of %d bytes: %w", n, size, err)
	}
	return out, nil
}
