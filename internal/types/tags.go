package types

import (
	"maps"
	"slices"
)

// ID3v2Header is a parsed ID3v2 tag header.
type ID3v2Header struct {
	Offset   int64    // Offset of the "ID3" signature in the scanned buffer
	Version  byte     // Major version (3 or 4)
	Revision byte     // Minor version
	Flags    TagFlags // Header flags
	Size     uint32   // Tag size (excluding header), synchsafe on disk
}

// End returns the offset just past the tag body.
func (h ID3v2Header) End() int64 {
	return h.Offset + 10 + int64(h.Size)
}

// UFID is a unique file identifier (UFID frame): an owner, usually a URL
// or e-mail address, and up to 64 bytes of opaque identifier.
type UFID struct {
	Owner string
	ID    []byte
}

// ID3v2Tag holds the metadata decoded from an ID3v2 tag.
//
// Fields without a matching, decodable frame keep their zero value.
// A tag never aliases the buffer it was parsed from.
type ID3v2Tag struct {
	UFID           *UFID
	UserText       map[string]string // TXXX frames, keyed by description
	Title          string
	Artist         string
	AlbumArtist    string
	Album          string
	Composer       string
	OriginalArtist string
	Copyright      string
	URL            string
	Genre          string
	Comment        string
	Header         ID3v2Header
	Year           int
	Millis         int // Length of the audio in milliseconds (TLEN)
	Track          int
	TracksOnDisc   int
	Disc           int
	DiscsInSet     int
}

// Clone creates a deep copy of the tag.
func (t *ID3v2Tag) Clone() *ID3v2Tag {
	if t == nil {
		return nil
	}
	clone := *t
	if t.UFID != nil {
		clone.UFID = &UFID{Owner: t.UFID.Owner, ID: slices.Clone(t.UFID.ID)}
	}
	clone.UserText = maps.Clone(t.UserText)
	return &clone
}

// Merge fills fields that are unset in t from an ID3v1 tag.
//
// ID3v2 values always win; the trailer only supplies what the frames did not.
func (t *ID3v2Tag) Merge(v1 *ID3v1Tag) {
	if v1 == nil {
		return
	}

	if t.Title == "" {
		t.Title = v1.Title
	}
	if t.Artist == "" {
		t.Artist = v1.Artist
	}
	if t.Album == "" {
		t.Album = v1.Album
	}
	if t.Comment == "" {
		t.Comment = v1.Comment
	}
	if t.Genre == "" {
		t.Genre = v1.Genre
	}
	if t.Year == 0 {
		t.Year = v1.Year
	}
	if t.Track == 0 {
		t.Track = v1.Track
	}
}

// ID3v1Tag holds the fields of a 128-byte ID3v1 trailer.
type ID3v1Tag struct {
	Title   string
	Artist  string
	Album   string
	Comment string
	Genre   string // Empty when GenreID is not in the genre table
	Year    int
	Track   int // Only set for ID3v1.1 style tags
	GenreID int
}
