package id3v2

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/rs/zerolog"

	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

// synchsafe encodes n as a 4-byte synchsafe integer.
func synchsafe(n int) []byte {
	return []byte{
		byte(n>>21) & 0x7F,
		byte(n>>14) & 0x7F,
		byte(n>>7) & 0x7F,
		byte(n) & 0x7F,
	}
}

// frameV4 builds an ID3v2.4 frame with the given flag bytes.
func frameV4(id string, status, format byte, body []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(id)
	buf.Write(synchsafe(len(body)))
	buf.Write([]byte{status, format})
	buf.Write(body)
	return buf.Bytes()
}

// frameV3 builds an ID3v2.3 frame (plain 32-bit size).
func frameV3(id string, status, format byte, body []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString(id)
	binary.Write(buf, binary.BigEndian, uint32(len(body)))
	buf.Write([]byte{status, format})
	buf.Write(body)
	return buf.Bytes()
}

// textFrame builds a plain ID3v2.4 text frame in ISO-8859-1.
func textFrame(id, text string) []byte {
	return frameV4(id, 0, 0, append([]byte{0x00}, text...))
}

// buildTag wraps frames in a tag header. padding zero bytes follow the
// frames and count towards the declared size.
func buildTag(version, flags byte, padding int, frames ...[]byte) []byte {
	body := bytes.Join(frames, nil)
	body = append(body, make([]byte, padding)...)

	buf := &bytes.Buffer{}
	buf.WriteString("ID3")
	buf.Write([]byte{version, 0x00, flags})
	buf.Write(synchsafe(len(body)))
	buf.Write(body)
	return buf.Bytes()
}

// compress zlib-compresses b.
func compress(t *testing.T, b []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zlib.NewWriter(buf)
	if _, err := zw.Write(b); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// utf16le encodes ASCII text as UTF-16LE.
func utf16le(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, s[i], 0x00)
	}
	return out
}

// utf16be encodes ASCII text as UTF-16BE.
func utf16be(s string) []byte {
	out := make([]byte, 0, 2*len(s))
	for i := 0; i < len(s); i++ {
		out = append(out, 0x00, s[i])
	}
	return out
}

// parseRecorded parses b, collecting diagnostics.
func parseRecorded(b []byte, opts ...Option) (*types.ID3v2Tag, *logging.Recorder, bool) {
	rec := &logging.Recorder{}
	tag, ok := Parse(b, append([]Option{WithSink(rec)}, opts...)...)
	return tag, rec, ok
}

func warnings(rec *logging.Recorder) []logging.Entry {
	return rec.Entries(zerolog.WarnLevel)
}
