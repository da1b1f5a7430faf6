package id3v2

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/id3scan/internal/genre"
	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

// decoder accumulates frames into one tag.
type decoder struct {
	tag  *types.ID3v2Tag
	sink logging.Sink
}

func (d *decoder) logf(level zerolog.Level, format string, args ...any) {
	logging.Logf(d.sink, level, format, args...)
}

// frameHandler decodes one frame payload into the tag. An error leaves the
// field unset and is reported as a warning.
type frameHandler func(d *decoder, data []byte) error

// ignoredFrames are well-known frames whose payload is deliberately not
// modelled: pictures, popularimeter and technical details.
var ignoredFrames = map[string]bool{
	"POPM": true,
	"TSSE": true,
	"TSIZ": true,
	"TCMP": true,
	"TENC": true,
	"APIC": true,
	"TFLT": true,
	"TMED": true,
}

var handlers = map[string]frameHandler{
	"TIT2": textField(func(t *types.ID3v2Tag) *string { return &t.Title }),
	"TPE1": textField(func(t *types.ID3v2Tag) *string { return &t.Artist }),
	"TPE2": textField(func(t *types.ID3v2Tag) *string { return &t.AlbumArtist }),
	"TALB": textField(func(t *types.ID3v2Tag) *string { return &t.Album }),
	"TCOM": textField(func(t *types.ID3v2Tag) *string { return &t.Composer }),
	"TOPE": textField(func(t *types.ID3v2Tag) *string { return &t.OriginalArtist }),
	"TCOP": textField(func(t *types.ID3v2Tag) *string { return &t.Copyright }),
	"TRCK": numberPair("track", func(t *types.ID3v2Tag) (*int, *int) { return &t.Track, &t.TracksOnDisc }),
	"TPOS": numberPair("disc", func(t *types.ID3v2Tag) (*int, *int) { return &t.Disc, &t.DiscsInSet }),
	"TYER": numberField("year", func(t *types.ID3v2Tag) *int { return &t.Year }),
	"TLEN": numberField("length", func(t *types.ID3v2Tag) *int { return &t.Millis }),
	"TDRC": parseRecordingTime,
	"TCON": parseGenre,
	"COMM": parseComment,
	"TXXX": parseUserText,
	"WXXX": parseUserURL,
	"UFID": parseUFID,
}

// Known reports whether id has a decoder.
func Known(id string) bool {
	_, ok := handlers[id]
	return ok
}

// Ignored reports whether id is a frame that is deliberately skipped.
func Ignored(id string) bool {
	return ignoredFrames[id]
}

func textField(field func(*types.ID3v2Tag) *string) frameHandler {
	return func(d *decoder, data []byte) error {
		text, err := newTextReader(data).normalRead()
		if err != nil {
			return err
		}
		*field(d.tag) = text
		return nil
	}
}

// numberField handles frames holding a single integer. Blank text is zero;
// anything else that is not a number leaves the field unset.
func numberField(what string, field func(*types.ID3v2Tag) *int) frameHandler {
	return func(d *decoder, data []byte) error {
		text, err := newTextReader(data).normalRead()
		if err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*field(d.tag) = 0
			return nil
		}
		n, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("invalid %s %q", what, text)
		}
		*field(d.tag) = n
		return nil
	}
}

// numberPair handles "N" and "N/M" frames (TRCK, TPOS).
func numberPair(what string, fields func(*types.ID3v2Tag) (*int, *int)) frameHandler {
	return func(d *decoder, data []byte) error {
		text, err := newTextReader(data).normalRead()
		if err != nil {
			return err
		}
		num, total, ok := parseNumbers(text)
		if !ok {
			return fmt.Errorf("invalid %s number %q", what, text)
		}
		n, t := fields(d.tag)
		*n = num
		if total > 0 {
			*t = total
		}
		return nil
	}
}

// parseNumbers parses "N" or "N/M". total is 0 when absent.
func parseNumbers(text string) (num, total int, ok bool) {
	first, second, hasTotal := strings.Cut(text, "/")
	if num, ok = parseDigits(first); !ok {
		return 0, 0, false
	}
	if hasTotal {
		if total, ok = parseDigits(second); !ok {
			return 0, 0, false
		}
	}
	return num, total, true
}

func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// parseRecordingTime takes the year of an ID3v2.4 timestamp
// (yyyy[-MM[-dd[THH[:mm[:ss]]]]]).
func parseRecordingTime(d *decoder, data []byte) error {
	text, err := newTextReader(data).normalRead()
	if err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		d.tag.Year = 0
		return nil
	}
	year, ok := parseDigits(text[:min(4, len(text))])
	if !ok || len(text) < 4 {
		return fmt.Errorf("invalid recording time %q", text)
	}
	d.tag.Year = year
	return nil
}

// parseGenre resolves "(N)" against the ID3v1 genre table. An unknown ID
// keeps the literal text.
func parseGenre(d *decoder, data []byte) error {
	text, err := newTextReader(data).normalRead()
	if err != nil {
		return err
	}
	d.tag.Genre = text

	inner, ok := strings.CutPrefix(text, "(")
	if !ok {
		return nil
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil
	}
	id, ok := parseDigits(inner)
	if !ok {
		return nil
	}
	if name, found := genre.Name(id); found {
		d.tag.Genre = name
	} else {
		d.logf(zerolog.WarnLevel, "genre %s not found", inner)
	}
	return nil
}

// parseComment reads a COMM frame:
// [encoding][language(3)][description\0][text].
//
// A comment without description wins over described ones, which are
// usually player bookkeeping such as iTunNORM.
func parseComment(d *decoder, data []byte) error {
	r := newTextReader(data)
	r.readEncoding()
	if err := r.skip(3); err != nil {
		return err
	}
	if err := r.readBOM(); err != nil {
		return err
	}
	description, err := r.readText()
	if err != nil {
		return err
	}
	if err := r.readBOM(); err != nil {
		return err
	}
	text, err := r.readText()
	if err != nil {
		return err
	}

	if description == "" || d.tag.Comment == "" {
		d.tag.Comment = text
	}
	return nil
}

// parseUserText reads a TXXX frame: [encoding][description\0][value].
func parseUserText(d *decoder, data []byte) error {
	r := newTextReader(data)
	description, err := r.normalRead()
	if err != nil {
		return err
	}
	if err := r.readBOM(); err != nil {
		return err
	}
	value, err := r.readText()
	if err != nil {
		return err
	}

	if d.tag.UserText == nil {
		d.tag.UserText = make(map[string]string)
	}
	d.tag.UserText[description] = value
	return nil
}

// parseUserURL reads a WXXX frame: [encoding][description\0][URL]. The URL
// is always ISO-8859-1.
func parseUserURL(d *decoder, data []byte) error {
	r := newTextReader(data)
	if _, err := r.normalRead(); err != nil {
		return err
	}
	url, err := r.readTextAs(encLatin1)
	if err != nil {
		return err
	}
	d.tag.URL = url
	return nil
}

// parseUFID splits a UFID frame at the first zero byte into owner and id.
// Without a zero byte the owner is empty and the whole payload is the id.
func parseUFID(d *decoder, data []byte) error {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		d.tag.UFID = &types.UFID{ID: slices.Clone(data)}
		return nil
	}

	owner, err := charmap.ISO8859_1.NewDecoder().Bytes(data[:i])
	if err != nil {
		return fmt.Errorf("decode owner: %w", err)
	}
	d.tag.UFID = &types.UFID{
		Owner: string(owner),
		ID:    slices.Clone(data[i+1:]),
	}
	return nil
}
