// Package mp3 scans MP3 files for their ID3v2 header tag and ID3v1 trailer.
package mp3

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	binutil "github.com/simonhull/id3scan/internal/binary"
	"github.com/simonhull/id3scan/internal/id3v1"
	"github.com/simonhull/id3scan/internal/id3v2"
	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

// Options configures Scan.
type Options struct {
	Sink         logging.Sink // Diagnostics; nil discards them
	SearchLimit  int          // ID3v2 header search window; <= 0 uses id3v2.SearchLimit
	AnyExtension bool         // Read tags regardless of the file extension
}

// HasExtension reports whether path names an MP3 file.
func HasExtension(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mp3")
}

// Scan reads the ID3 tags of one file.
//
// Missing or unreadable tags are not errors: the corresponding field of the
// result stays nil and the reason is reported as a diagnostic. Warnings are
// also collected in Metadata.Warnings. Only I/O failures return an error.
func Scan(r io.ReaderAt, size int64, path string, opts Options) (*types.Metadata, error) {
	meta := &types.Metadata{Path: path, Size: size}

	sink := opts.Sink
	if sink == nil {
		sink = logging.Nop()
	}
	if !opts.AnyExtension && !HasExtension(path) {
		logging.Logf(sink, zerolog.DebugLevel, "%s: not an mp3 file, skipping tags", path)
		return meta, nil
	}

	sr := binutil.NewSafeReader(r, size, path)
	c := &collector{sink: sink}

	tail, err := sr.Tail(id3v1.Size, "ID3v1 trailer")
	if err != nil {
		return nil, err
	}
	if tag, ok := id3v1.Parse(tail, id3v1.WithSink(c.stage("id3v1"))); ok {
		meta.ID3v1 = tag
	}

	tag, err := parseID3v2(sr, opts.SearchLimit, c.stage("id3v2"))
	if err != nil {
		return nil, err
	}
	meta.ID3v2 = tag

	meta.Warnings = c.warnings
	return meta, nil
}

// parseID3v2 reads the search window and, once the header is found, the
// whole tag.
func parseID3v2(sr *binutil.SafeReader, limit int, sink logging.Sink) (*types.ID3v2Tag, error) {
	if limit <= 0 {
		limit = id3v2.SearchLimit
	}

	buf, err := sr.Window(0, int64(limit), "ID3v2 search window")
	if err != nil {
		return nil, err
	}

	// Locate quietly; Parse reports the same problems again
	if h, ok := id3v2.Locate(buf, id3v2.WithSink(logging.Nop()), id3v2.WithSearchLimit(limit)); ok && h.End() > int64(len(buf)) {
		buf, err = sr.Window(0, h.End(), "ID3v2 tag")
		if err != nil {
			return nil, err
		}
	}

	tag, ok := id3v2.Parse(buf,
		id3v2.WithSink(sink),
		id3v2.WithPath(sr.Path()),
		id3v2.WithSearchLimit(limit),
	)
	if !ok {
		return nil, nil
	}
	return tag, nil
}

// collector forwards diagnostics and keeps the warnings of one scan.
type collector struct {
	sink     logging.Sink
	warnings []types.Warning
}

// stage returns a sink that labels collected warnings with stage.
func (c *collector) stage(stage string) logging.Sink {
	return logging.Tee(c.sink, logging.SinkFunc(func(level zerolog.Level, msg string) {
		if level >= zerolog.WarnLevel {
			c.warnings = append(c.warnings, types.Warning{Stage: stage, Message: msg})
		}
	}))
}
