// Package id3v1 reads the fixed 128-byte ID3v1 trailer.
package id3v1

import (
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/id3scan/internal/genre"
	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

// Size is the size of the trailer.
const Size = 128

// Field widths of the trailer layout:
// "TAG" title(30) artist(30) album(30) year(4) comment(30) genre(1).
const (
	textWidth = 30
	yearWidth = 4
)

// Option configures Parse.
type Option func(*options)

type options struct {
	sink logging.Sink
}

// WithSink sends diagnostics to s instead of the global logger.
func WithSink(s logging.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// Parse reads the ID3v1 trailer from the last 128 bytes of b.
//
// ok is false when b is shorter than a trailer or does not end in one.
func Parse(b []byte, opts ...Option) (tag *types.ID3v1Tag, ok bool) {
	o := options{sink: logging.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if len(b) < Size {
		return nil, false
	}
	trailer := b[len(b)-Size:]
	if !bytes.HasPrefix(trailer, []byte("TAG")) {
		return nil, false
	}

	f := &fieldReader{buf: trailer, pos: 3}
	tag = &types.ID3v1Tag{
		Title:  f.next(textWidth),
		Artist: f.next(textWidth),
		Album:  f.next(textWidth),
	}

	if year := f.next(yearWidth); strings.TrimSpace(year) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(year))
		if err != nil {
			logging.Logf(o.sink, zerolog.ErrorLevel, "invalid year encountered: %s", year)
		} else {
			tag.Year = n
		}
	}

	tag.Comment = f.next(textWidth)
	if utf8.RuneCountInString(tag.Comment) < textWidth-1 {
		// ID3v1.1 keeps the track number in the last comment byte
		tag.Track = int(trailer[f.pos-1])
	}

	tag.GenreID = int(trailer[f.pos])
	if name, found := genre.Name(tag.GenreID); found {
		tag.Genre = name
	}
	return tag, true
}

// fieldReader walks the fixed-width fields of a trailer.
type fieldReader struct {
	buf []byte
	pos int
}

// next reads a width-byte field: text ends at the first zero byte and
// trailing blanks are dropped.
func (f *fieldReader) next(width int) string {
	raw := f.buf[f.pos : f.pos+width]
	f.pos += width

	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	raw = bytes.TrimRight(raw, " ")
	if len(raw) == 0 {
		return ""
	}

	// ISO-8859-1 maps every byte; decoding cannot fail
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	return string(s)
}
