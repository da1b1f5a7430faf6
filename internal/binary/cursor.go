package binary

import (
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer is returned when a read runs past the end of the buffer.
	ErrShortBuffer = errors.New("short buffer")

	// ErrNotSynchsafe is returned when a synchsafe integer has a byte with
	// its high bit set.
	ErrNotSynchsafe = errors.New("not a synchsafe integer")
)

// Cursor provides sequential reading over an in-memory buffer with
// automatic offset tracking.
//
// Cursor never copies: slices returned by Bytes alias the underlying buffer.
type Cursor struct {
	buf []byte
	off int
}

// NewCursor creates a Cursor positioned at off.
func NewCursor(buf []byte, off int) *Cursor {
	return &Cursor{buf: buf, off: off}
}

// Offset returns the current offset.
func (c *Cursor) Offset() int {
	return c.off
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.buf)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return max(len(c.buf)-c.off, 0)
}

// Skip advances the offset by n bytes.
func (c *Cursor) Skip(n int) {
	c.off += n
}

// Byte reads one byte.
func (c *Cursor) Byte(what string) (byte, error) {
	if c.off < 0 || c.off >= len(c.buf) {
		return 0, c.short(1, what)
	}
	b := c.buf[c.off]
	c.off++
	return b, nil
}

// Bytes reads the next n bytes.
func (c *Cursor) Bytes(n int, what string) ([]byte, error) {
	if n < 0 || c.off < 0 || c.off+n > len(c.buf) {
		return nil, c.short(n, what)
	}
	b := c.buf[c.off : c.off+n]
	c.off += n
	return b, nil
}

// Synchsafe reads a 4-byte synchsafe integer.
func (c *Cursor) Synchsafe(what string) (uint32, error) {
	start := c.off
	b, err := c.Bytes(4, what)
	if err != nil {
		return 0, err
	}
	v, ok := DecodeSynchsafe(b)
	if !ok {
		return 0, fmt.Errorf("%s at offset %d: %w (% x)", what, start, ErrNotSynchsafe, b)
	}
	return v, nil
}

func (c *Cursor) short(n int, what string) error {
	return fmt.Errorf("%s: read of %d bytes at offset %d exceeds buffer of %d: %w",
		what, n, c.off, len(c.buf), ErrShortBuffer)
}

// DecodeSynchsafe decodes a synchsafe integer (7 bits per byte, big-endian).
// ok is false if any byte has its high bit set.
func DecodeSynchsafe(b []byte) (v uint32, ok bool) {
	for _, x := range b {
		if x&0x80 != 0 {
			return 0, false
		}
		v = v<<7 | uint32(x)
	}
	return v, true
}
