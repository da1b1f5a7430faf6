package id3v2

import (
	"bytes"
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// textEncoding is the leading indicator byte of a text-bearing frame.
type textEncoding byte

const (
	encLatin1   textEncoding = 0 // ISO-8859-1, single zero terminator
	encUTF16BOM textEncoding = 1 // UTF-16 with byte order mark, double zero terminator
	encUTF16BE  textEncoding = 2 // UTF-16BE without BOM (ID3v2.4)
	encUTF8     textEncoding = 3 // UTF-8 (ID3v2.4)
)

func (e textEncoding) String() string {
	switch e {
	case encLatin1:
		return "ISO-8859-1"
	case encUTF16BOM:
		return "UTF-16"
	case encUTF16BE:
		return "UTF-16BE"
	case encUTF8:
		return "UTF-8"
	default:
		return fmt.Sprintf("encoding(%d)", byte(e))
	}
}

var errMissingBOM = errors.New("expected byte order mark but got end of frame")

// textState is the decoder state carried alongside the cursor.
type textState struct {
	enc        textEncoding
	needBOM    bool // a BOM precedes every string
	doubleNull bool // strings end on an aligned zero code unit
	bigEndian  bool // resolved byte order for the UTF-16 modes
}

func stateFor(enc textEncoding) textState {
	switch enc {
	case encUTF16BOM:
		return textState{enc: enc, needBOM: true, doubleNull: true}
	case encUTF16BE:
		return textState{enc: enc, doubleNull: true, bigEndian: true}
	case encUTF8:
		return textState{enc: enc}
	default:
		return textState{enc: encLatin1}
	}
}

func (s textState) decoder() *encoding.Decoder {
	switch s.enc {
	case encUTF16BOM, encUTF16BE:
		order := unicode.LittleEndian
		if s.bigEndian {
			order = unicode.BigEndian
		}
		return unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder()
	case encUTF8:
		return unicode.UTF8.NewDecoder()
	default:
		return charmap.ISO8859_1.NewDecoder()
	}
}

func (s textState) decode(raw []byte) (string, error) {
	if s.doubleNull {
		// A dangling half code unit cannot be decoded
		raw = raw[:len(raw)&^1]
	}
	if len(raw) == 0 {
		return "", nil
	}
	out, err := s.decoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s text: %w", s.enc, err)
	}
	return string(out), nil
}

// textReader reads encoded strings from a frame payload. Several strings may
// be chained in one payload; each read leaves the cursor past its terminator.
type textReader struct {
	buf   []byte
	pos   int
	state textState
}

func newTextReader(b []byte) *textReader {
	return &textReader{buf: b, state: stateFor(encLatin1)}
}

// readEncoding consumes the encoding indicator byte. A byte above 3 is not
// an indicator but the first character of Latin-1 text, so it is left in
// place.
func (r *textReader) readEncoding() {
	if r.pos >= len(r.buf) {
		r.state = stateFor(encLatin1)
		return
	}
	enc := textEncoding(r.buf[r.pos])
	if enc <= encUTF8 {
		r.pos++
	}
	r.state = stateFor(enc)
}

// readBOM consumes a byte order mark when the encoding requires one.
func (r *textReader) readBOM() error {
	if !r.state.needBOM {
		return nil
	}
	if r.pos+2 > len(r.buf) {
		return errMissingBOM
	}

	switch b0, b1 := r.buf[r.pos], r.buf[r.pos+1]; {
	case b0 == 0xFE && b1 == 0xFF:
		r.state.bigEndian = true
	case b0 == 0xFF && b1 == 0xFE:
		r.state.bigEndian = false
	default:
		return fmt.Errorf("invalid byte order mark 0x%02x%02x", b0, b1)
	}
	r.pos += 2
	return nil
}

// readText reads up to the terminator for the current encoding, or to the
// end of the payload.
func (r *textReader) readText() (string, error) {
	start := min(r.pos, len(r.buf))
	end, next := len(r.buf), len(r.buf)

	if r.state.doubleNull {
		for i := start; i+1 < len(r.buf); i += 2 {
			if r.buf[i] == 0 && r.buf[i+1] == 0 {
				end, next = i, i+2
				break
			}
		}
	} else if i := bytes.IndexByte(r.buf[start:], 0); i >= 0 {
		end, next = start+i, start+i+1
	}

	r.pos = next
	return r.state.decode(r.buf[start:end])
}

// readTextAs reads one string in enc regardless of the frame encoding, for
// fields the format fixes to one encoding (the URL of a WXXX frame).
func (r *textReader) readTextAs(enc textEncoding) (string, error) {
	saved := r.state
	r.state = stateFor(enc)
	defer func() { r.state = saved }()
	return r.readText()
}

func (r *textReader) skip(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("expected %d more bytes but got end of frame", n)
	}
	r.pos += n
	return nil
}

// normalRead reads the indicator, the BOM and one string: the layout of
// every plain text frame.
func (r *textReader) normalRead() (string, error) {
	if r.pos >= len(r.buf) {
		return "", nil
	}
	r.readEncoding()
	if err := r.readBOM(); err != nil {
		return "", err
	}
	return r.readText()
}
