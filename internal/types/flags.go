package types

import "strings"

// TagFlags is the ID3v2 header flag byte.
type TagFlags byte

// Header flag bits, high to low.
const (
	TagUnsynchronisation TagFlags = 1 << 7
	TagExtendedHeader    TagFlags = 1 << 6
	TagExperimental      TagFlags = 1 << 5
	TagFooter            TagFlags = 1 << 4
)

// Unsynchronisation reports whether the tag body is unsynchronised.
func (f TagFlags) Unsynchronisation() bool { return f&TagUnsynchronisation != 0 }

// ExtendedHeader reports whether an extended header follows the header.
func (f TagFlags) ExtendedHeader() bool { return f&TagExtendedHeader != 0 }

// Experimental reports whether the tag is flagged as experimental.
func (f TagFlags) Experimental() bool { return f&TagExperimental != 0 }

// Footer reports whether a footer follows the tag (ID3v2.4).
func (f TagFlags) Footer() bool { return f&TagFooter != 0 }

func (f TagFlags) String() string {
	return joinFlags([]namedFlag{
		{f.Unsynchronisation(), "unsync"},
		{f.ExtendedHeader(), "ext-header"},
		{f.Experimental(), "experimental"},
		{f.Footer(), "footer"},
	})
}

// FrameFlags is a version-independent view of the two ID3v2 frame flag
// bytes. The on-disk layout differs between v2.3 and v2.4; see
// FrameFlagsV3 and FrameFlagsV4.
type FrameFlags uint16

// Frame flags.
const (
	FrameTagAlterPreservation FrameFlags = 1 << iota
	FrameFileAlterPreservation
	FrameReadOnly
	FrameGrouping
	FrameCompression
	FrameEncryption
	FrameUnsynchronisation
	FrameDataLengthIndicator
)

// FrameFlagsV4 maps the ID3v2.4 layout: status byte %0abc0000,
// format byte %0h00kmnp.
func FrameFlagsV4(status, format byte) FrameFlags {
	var f FrameFlags
	f.set(status&0x40 != 0, FrameTagAlterPreservation)
	f.set(status&0x20 != 0, FrameFileAlterPreservation)
	f.set(status&0x10 != 0, FrameReadOnly)
	f.set(format&0x40 != 0, FrameGrouping)
	f.set(format&0x08 != 0, FrameCompression)
	f.set(format&0x04 != 0, FrameEncryption)
	f.set(format&0x02 != 0, FrameUnsynchronisation)
	f.set(format&0x01 != 0, FrameDataLengthIndicator)
	return f
}

// FrameFlagsV3 maps the ID3v2.3 layout: status byte %abc00000,
// format byte %ijk00000. A compressed v2.3 frame always carries its
// decompressed size, so compression implies FrameDataLengthIndicator.
func FrameFlagsV3(status, format byte) FrameFlags {
	var f FrameFlags
	f.set(status&0x80 != 0, FrameTagAlterPreservation)
	f.set(status&0x40 != 0, FrameFileAlterPreservation)
	f.set(status&0x20 != 0, FrameReadOnly)
	f.set(format&0x80 != 0, FrameCompression|FrameDataLengthIndicator)
	f.set(format&0x40 != 0, FrameEncryption)
	f.set(format&0x20 != 0, FrameGrouping)
	return f
}

func (f *FrameFlags) set(on bool, bits FrameFlags) {
	if on {
		*f |= bits
	}
}

// Has reports whether all bits in mask are set.
func (f FrameFlags) Has(mask FrameFlags) bool { return f&mask == mask }

// Grouping reports whether the frame carries a group identifier.
func (f FrameFlags) Grouping() bool { return f.Has(FrameGrouping) }

// Compression reports whether the frame payload is zlib-compressed.
func (f FrameFlags) Compression() bool { return f.Has(FrameCompression) }

// Encryption reports whether the frame payload is encrypted.
func (f FrameFlags) Encryption() bool { return f.Has(FrameEncryption) }

// Unsynchronisation reports whether the frame payload is unsynchronised.
func (f FrameFlags) Unsynchronisation() bool { return f.Has(FrameUnsynchronisation) }

// DataLengthIndicator reports whether the payload is prefixed with its
// decoded length.
func (f FrameFlags) DataLengthIndicator() bool { return f.Has(FrameDataLengthIndicator) }

func (f FrameFlags) String() string {
	return joinFlags([]namedFlag{
		{f.Has(FrameTagAlterPreservation), "tag-alter"},
		{f.Has(FrameFileAlterPreservation), "file-alter"},
		{f.Has(FrameReadOnly), "read-only"},
		{f.Grouping(), "grouping"},
		{f.Compression(), "compression"},
		{f.Encryption(), "encryption"},
		{f.Unsynchronisation(), "unsync"},
		{f.DataLengthIndicator(), "data-length"},
	})
}

type namedFlag struct {
	on   bool
	name string
}

func joinFlags(flags []namedFlag) string {
	var names []string
	for _, f := range flags {
		if f.on {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
