// Package types provides core data structures for MP3 tag metadata.
//
// This package defines the Metadata envelope and the ID3v1/ID3v2 records
// that the tag readers populate.
package types

// Metadata is the per-file result of a scan.
//
// Either tag may be nil: a file without tags is a normal outcome, not an
// error.
type Metadata struct {
	ID3v1    *ID3v1Tag
	ID3v2    *ID3v2Tag
	Path     string
	Warnings []Warning
	Size     int64
}

// HasTags reports whether any tag was found.
func (m *Metadata) HasTags() bool {
	return m.ID3v1 != nil || m.ID3v2 != nil
}

// Tags returns a merged view of both tags: ID3v2 fields, with gaps filled
// from the ID3v1 trailer. The result is a copy and may be modified freely.
func (m *Metadata) Tags() ID3v2Tag {
	var merged ID3v2Tag
	if m.ID3v2 != nil {
		merged = *m.ID3v2.Clone()
	}
	merged.Merge(m.ID3v1)
	return merged
}
