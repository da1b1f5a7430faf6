package id3scan

import (
	"errors"
	"strings"
	"testing"

	"github.com/simonhull/id3scan/internal/id3v2"
)

func TestOutOfBoundsError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OutOfBoundsError
		contains []string
	}{
		{
			name: "offset beyond file size",
			err: &OutOfBoundsError{
				Path:   "test.mp3",
				Offset: 1000,
				Length: 128,
				Size:   500,
				What:   "ID3v1 trailer",
			},
			contains: []string{"test.mp3", "offset 1000 out of bounds", "file size: 500", "ID3v1 trailer"},
		},
		{
			name: "read would exceed file size",
			err: &OutOfBoundsError{
				Path:   "song.mp3",
				Offset: 100,
				Length: 50,
				Size:   120,
				What:   "ID3v2 tag",
			},
			contains: []string{"song.mp3", "read of 50 bytes", "offset 100", "exceed file size 120", "ID3v2 tag"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(msg, substr) {
					t.Errorf("error message %q should contain %q", msg, substr)
				}
			}
		})
	}
}

func TestUnsupportedFormatError_Error(t *testing.T) {
	err := &UnsupportedFormatError{
		Path:   "test.mp3",
		Reason: "unsupported ID3v2 version: 2.2",
	}

	msg := err.Error()
	if !strings.Contains(msg, "test.mp3") {
		t.Errorf("error should contain path, got: %s", msg)
	}
	if !strings.Contains(msg, "unsupported ID3v2 version: 2.2") {
		t.Errorf("error should contain reason, got: %s", msg)
	}
	if !strings.Contains(msg, "unsupported format") {
		t.Errorf("error should contain 'unsupported format', got: %s", msg)
	}
}

func TestCorruptedFileError_Error(t *testing.T) {
	err := &CorruptedFileError{
		Path:   "broken.mp3",
		Offset: 256,
		Reason: "frame size is not synchsafe",
	}

	msg := err.Error()
	if !strings.Contains(msg, "broken.mp3") {
		t.Errorf("error should contain path, got: %s", msg)
	}
	if !strings.Contains(msg, "offset 256") {
		t.Errorf("error should contain offset, got: %s", msg)
	}
	if !strings.Contains(msg, "frame size is not synchsafe") {
		t.Errorf("error should contain reason, got: %s", msg)
	}
	if !strings.Contains(msg, "corrupted file") {
		t.Errorf("error should contain 'corrupted file', got: %s", msg)
	}
}

func TestErrNoTag(t *testing.T) {
	_, err := id3v2.Walk([]byte("no tag"), func(id3v2.Frame) bool { return true })
	if !errors.Is(err, ErrNoTag) {
		t.Errorf("Walk() error = %v, want ErrNoTag", err)
	}
}
