// Package id3v2 locates and decodes ID3v2.3 and ID3v2.4 tags.
//
// The engine works on a caller-owned byte slice holding the start of a file:
// it searches the first SearchLimit bytes for the tag header, walks the
// frames and decodes the ones it knows into a types.ID3v2Tag. It does no
// I/O, keeps no state between calls and never retains the buffer.
//
// Problems are handled in three tiers: a broken synchsafe length aborts the
// whole tag (no tag is returned), a frame that cannot be handled is skipped,
// and a malformed value inside a frame only leaves its field unset. Every
// problem is reported through the diagnostic sink.
package id3v2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	binutil "github.com/simonhull/id3scan/internal/binary"
	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

const (
	// HeaderSize is the size of the fixed tag header.
	HeaderSize = 10

	// MaxInflatedSize caps the decompressed size of a single frame.
	MaxInflatedSize = 16 << 20
)

// ErrNoTag is returned when the buffer holds no ID3v2 tag.
var ErrNoTag = errors.New("no ID3v2 tag")

// Frame is one raw frame as stored in the tag.
type Frame struct {
	ID     string
	Body   []byte // Raw frame body; aliases the scanned buffer
	Offset int64  // Offset of the frame header
	Size   uint32 // Declared body size
	Flags  types.FrameFlags
}

// Parse locates an ID3v2 tag in b and decodes its frames.
//
// ok is false when there is no tag, the version is not supported, or the
// tag framing is broken. Per-frame and per-field problems are reported
// through the sink and never fail the parse.
func Parse(b []byte, opts ...Option) (tag *types.ID3v2Tag, ok bool) {
	s, err := newScanner(b, newOptions(opts))
	if err != nil {
		return nil, false
	}

	d := &decoder{
		tag:  &types.ID3v2Tag{Header: s.header},
		sink: s.opts.sink,
	}
	if err := s.walk(func(f Frame) error { return s.decode(d, f) }); err != nil {
		return nil, false
	}
	return d.tag, true
}

// Locate finds and validates the tag header without walking frames.
func Locate(b []byte, opts ...Option) (types.ID3v2Header, bool) {
	h, err := locate(b, newOptions(opts))
	return h, err == nil
}

// Walk calls fn for every raw frame of the tag in b until fn returns false.
//
// It returns ErrNoTag when no tag is present, and a typed error when the
// header or frame framing is broken.
func Walk(b []byte, fn func(Frame) bool, opts ...Option) (types.ID3v2Header, error) {
	s, err := newScanner(b, newOptions(opts))
	if err != nil {
		return types.ID3v2Header{}, err
	}
	errStop := errors.New("stop")
	err = s.walk(func(f Frame) error {
		if !fn(f) {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return s.header, err
	}
	return s.header, nil
}

// locate scans for the "ID3" signature. A version or revision byte with its
// high bit set cannot be a header, so the search resumes after it; a broken
// tag size ends the search.
func locate(b []byte, o options) (types.ID3v2Header, error) {
	limit := min(len(b), o.searchLimit)

	for off := 0; off+HeaderSize <= limit; off++ {
		if b[off] != 'I' || b[off+1] != 'D' || b[off+2] != '3' {
			continue
		}

		version, revision := b[off+3], b[off+4]
		if version&0x80 != 0 || revision&0x80 != 0 {
			continue
		}

		h := types.ID3v2Header{
			Offset:   int64(off),
			Version:  version,
			Revision: revision,
			Flags:    types.TagFlags(b[off+5]),
		}

		size, ok := binutil.DecodeSynchsafe(b[off+6 : off+10])
		if !ok {
			logging.Logf(o.sink, zerolog.ErrorLevel, "invalid tag size % x", b[off+6:off+10])
			return h, &types.CorruptedFileError{
				Path:   o.path,
				Reason: "tag size is not synchsafe",
				Offset: int64(off + 6),
			}
		}
		h.Size = size

		if version != 3 && version != 4 {
			logging.Logf(o.sink, zerolog.WarnLevel, "unknown id3 tag version encountered: %d", version)
			return h, &types.UnsupportedFormatError{
				Path:   o.path,
				Reason: fmt.Sprintf("unsupported ID3v2 version: 2.%d", version),
			}
		}
		return h, nil
	}

	return types.ID3v2Header{}, ErrNoTag
}

// scanner holds the frame region of one located tag.
type scanner struct {
	opts   options
	frames []byte // Frame region, desynchronised for v2.3 tags
	header types.ID3v2Header
	base   int64 // Offset of frames[0] in the source buffer
}

func newScanner(b []byte, o options) (*scanner, error) {
	h, err := locate(b, o)
	if err != nil {
		return nil, err
	}
	s := &scanner{opts: o, header: h, base: h.Offset + HeaderSize}

	if h.Flags.Experimental() {
		s.logf(zerolog.InfoLevel, "tag is flagged as experimental")
	}

	start := s.base
	end := h.End()
	if end > int64(len(b)) {
		s.logf(zerolog.WarnLevel, "tag extends beyond read-limit: declared end %d, %d bytes available", end, len(b))
		end = int64(len(b))
	}

	region := b[start:end]
	if h.Version == 3 && h.Flags.Unsynchronisation() {
		// v2.3 unsynchronises the whole tag body; v2.4 flags each frame
		s.logf(zerolog.DebugLevel, "undoing tag unsynchronisation")
		region = Desync(region)
	}

	if h.Flags.ExtendedHeader() {
		skip, err := s.extendedHeaderSize(region)
		if err != nil {
			return nil, err
		}
		s.logf(zerolog.DebugLevel, "ignoring extended header of %d bytes", skip)
		region = region[min(skip, len(region)):]
		start += int64(skip)
	}

	s.frames = region
	s.base = start
	return s, nil
}

// extendedHeaderSize returns the number of bytes to skip, counted from the
// start of the extended header. v2.4 stores a synchsafe size that includes
// the size field; v2.3 a plain size that excludes it.
func (s *scanner) extendedHeaderSize(region []byte) (int, error) {
	c := binutil.NewCursor(region, 0)

	if s.header.Version == 3 {
		raw, err := c.Bytes(4, "extended header size")
		if err != nil {
			return 0, s.corrupt(0, "truncated extended header")
		}
		return int(binary.BigEndian.Uint32(raw)) + 4, nil
	}

	size, err := c.Synchsafe("extended header size")
	if err != nil {
		s.logf(zerolog.ErrorLevel, "illegal ext header size: %v", err)
		return 0, s.corrupt(0, "extended header size is not synchsafe")
	}
	if size < 4 {
		return 0, s.corrupt(0, fmt.Sprintf("extended header size %d too small", size))
	}
	return int(size), nil
}

// walk iterates the frames until padding, the end of the tag, a truncated
// frame, or an error from fn.
func (s *scanner) walk(fn func(Frame) error) error {
	c := binutil.NewCursor(s.frames, 0)

	for c.Remaining() > 0 {
		off := c.Offset()

		id, err := c.Bytes(4, "frame id")
		if err != nil {
			s.logf(zerolog.DebugLevel, "%d stray bytes at end of tag", c.Remaining())
			return nil
		}
		if bytes.IndexByte(id, 0) >= 0 {
			// looks like we reached the padding
			return nil
		}

		size, err := s.frameSize(c)
		if err != nil {
			if errors.Is(err, binutil.ErrNotSynchsafe) {
				s.logf(zerolog.ErrorLevel, "invalid size for frame %s: %v", id, err)
				return s.corrupt(off+4, "frame size is not synchsafe")
			}
			s.logf(zerolog.WarnLevel, "frame %s truncated in header", id)
			return nil
		}

		status, err := c.Byte("frame status flags")
		if err != nil {
			s.logf(zerolog.WarnLevel, "frame %s truncated in header", id)
			return nil
		}
		format, err := c.Byte("frame format flags")
		if err != nil {
			s.logf(zerolog.WarnLevel, "frame %s truncated in header", id)
			return nil
		}

		body, err := c.Bytes(int(size), "frame body")
		if err != nil {
			s.logf(zerolog.WarnLevel, "frame %s truncated: declared %d bytes, %d available", id, size, c.Remaining())
			return nil
		}

		f := Frame{
			ID:     string(id),
			Offset: s.base + int64(off),
			Size:   size,
			Flags:  s.frameFlags(status, format),
			Body:   body,
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) frameSize(c *binutil.Cursor) (uint32, error) {
	if s.header.Version == 3 {
		raw, err := c.Bytes(4, "frame size")
		if err != nil {
			return 0, err
		}
		return binary.BigEndian.Uint32(raw), nil
	}
	return c.Synchsafe("frame size")
}

func (s *scanner) frameFlags(status, format byte) types.FrameFlags {
	if s.header.Version == 3 {
		return types.FrameFlagsV3(status, format)
	}
	return types.FrameFlagsV4(status, format)
}

// decode applies the frame transformations and the dispatch table to one
// frame. Only a broken data length indicator is fatal for the tag.
func (s *scanner) decode(d *decoder, f Frame) error {
	if Ignored(f.ID) {
		s.logf(zerolog.DebugLevel, "ignoring field %s", f.ID)
		return nil
	}
	handler, ok := handlers[f.ID]
	if !ok {
		s.logf(zerolog.InfoLevel, "ignoring unknown frame %s", f.ID)
		return nil
	}
	if f.Flags.Encryption() || f.Flags.Grouping() {
		s.logf(zerolog.WarnLevel, "can't handle flags %s for frame %s", f.Flags, f.ID)
		return nil
	}

	data := f.Body
	dataLength := len(data)
	if f.Flags.DataLengthIndicator() {
		n, err := s.dataLength(data)
		if err != nil {
			s.logf(zerolog.ErrorLevel, "illegal data length for frame %s: %v", f.ID, err)
			return s.corrupt(int(f.Offset-s.base)+HeaderSize, "invalid data length indicator")
		}
		s.logf(zerolog.DebugLevel, "read data length %d for frame %s (raw length %d)", n, f.ID, f.Size)
		data, dataLength = data[4:], n
	}

	if f.Flags.Unsynchronisation() {
		s.logf(zerolog.DebugLevel, "undoing desynchronization for frame %s", f.ID)
		data = Desync(data)
	}

	if f.Flags.Compression() {
		if dataLength > MaxInflatedSize {
			s.logf(zerolog.WarnLevel, "skipping frame %s: decompressed size %d exceeds %d", f.ID, dataLength, MaxInflatedSize)
			return nil
		}
		s.logf(zerolog.DebugLevel, "uncompressing frame %s", f.ID)
		inflated, err := Inflate(data, dataLength)
		if err != nil {
			s.logf(zerolog.WarnLevel, "skipping frame %s: %v", f.ID, err)
			return nil
		}
		data = inflated
	}

	if err := handler(d, data); err != nil {
		s.logf(zerolog.WarnLevel, "frame %s: %v", f.ID, err)
	}
	return nil
}

// dataLength reads the 4-byte decoded size that prefixes the body.
func (s *scanner) dataLength(body []byte) (int, error) {
	c := binutil.NewCursor(body, 0)
	if s.header.Version == 3 {
		raw, err := c.Bytes(4, "decompressed size")
		if err != nil {
			return 0, err
		}
		return int(binary.BigEndian.Uint32(raw)), nil
	}
	n, err := c.Synchsafe("data length indicator")
	return int(n), err
}

func (s *scanner) logf(level zerolog.Level, format string, args ...any) {
	logging.Logf(s.opts.sink, level, format, args...)
}

func (s *scanner) corrupt(off int, reason string) error {
	return &types.CorruptedFileError{
		Path:   s.opts.path,
		Reason: reason,
		Offset: s.base + int64(off),
	}
}
