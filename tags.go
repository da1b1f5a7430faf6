package id3scan

import (
	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

// Metadata is the result of reading one file.
type Metadata = types.Metadata

// ID3v2Tag holds the metadata decoded from an ID3v2 tag.
type ID3v2Tag = types.ID3v2Tag

// ID3v2Header is a parsed ID3v2 tag header.
type ID3v2Header = types.ID3v2Header

// ID3v1Tag holds the fields of an ID3v1 trailer.
type ID3v1Tag = types.ID3v1Tag

// UFID is a unique file identifier.
type UFID = types.UFID

// TagFlags is the ID3v2 header flag byte.
type TagFlags = types.TagFlags

// FrameFlags is a version-independent view of ID3v2 frame flags.
type FrameFlags = types.FrameFlags

// Sink receives parser diagnostics: a zerolog severity and a message.
type Sink = logging.Sink

// SinkFunc adapts a function to the Sink interface.
type SinkFunc = logging.SinkFunc
