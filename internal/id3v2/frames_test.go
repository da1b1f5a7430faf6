package id3v2

import (
	"bytes"
	"testing"

	"github.com/simonhull/id3scan/internal/logging"
	"github.com/simonhull/id3scan/internal/types"
)

func newTestDecoder() (*decoder, *logging.Recorder) {
	rec := &logging.Recorder{}
	return &decoder{tag: &types.ID3v2Tag{}, sink: rec}, rec
}

func latin1(text string) []byte {
	return append([]byte{0x00}, text...)
}

func TestNumberPair(t *testing.T) {
	tests := []struct {
		text      string
		wantTrack int
		wantTotal int
		wantErr   bool
	}{
		{"7/9", 7, 9, false},
		{"7", 7, 0, false},
		{"07/12", 7, 12, false},
		{"3/0", 3, 0, false},
		{"x", 0, 0, true},
		{"7/x", 0, 0, true},
		{"", 0, 0, true},
		{"-1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, _ := newTestDecoder()
			err := handlers["TRCK"](d, latin1(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if d.tag.Track != tt.wantTrack || d.tag.TracksOnDisc != tt.wantTotal {
				t.Errorf("got %d/%d, want %d/%d", d.tag.Track, d.tag.TracksOnDisc, tt.wantTrack, tt.wantTotal)
			}
		})
	}
}

func TestNumberPair_KeepsTotalWhenAbsent(t *testing.T) {
	d, _ := newTestDecoder()
	d.tag.DiscsInSet = 2

	if err := handlers["TPOS"](d, latin1("1")); err != nil {
		t.Fatal(err)
	}
	if d.tag.Disc != 1 || d.tag.DiscsInSet != 2 {
		t.Errorf("got %d/%d, want 1/2", d.tag.Disc, d.tag.DiscsInSet)
	}
}

func TestNumberField(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		text    string
		want    func(*types.ID3v2Tag) int
		value   int
		wantErr bool
	}{
		{"year", "TYER", "1999", func(t *types.ID3v2Tag) int { return t.Year }, 1999, false},
		{"blank year", "TYER", "  ", func(t *types.ID3v2Tag) int { return t.Year }, 0, false},
		{"bad year", "TYER", "19x9", func(t *types.ID3v2Tag) int { return t.Year }, 0, true},
		{"length", "TLEN", "215000", func(t *types.ID3v2Tag) int { return t.Millis }, 215000, false},
		{"bad length", "TLEN", "long", func(t *types.ID3v2Tag) int { return t.Millis }, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDecoder()
			err := handlers[tt.id](d, latin1(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := tt.want(d.tag); got != tt.value {
				t.Errorf("got %d, want %d", got, tt.value)
			}
		})
	}
}

func TestParseRecordingTime(t *testing.T) {
	tests := []struct {
		text    string
		want    int
		wantErr bool
	}{
		{"2004", 2004, false},
		{"2004-05-17T10:00", 2004, false},
		{"", 0, false},
		{"04", 0, true},
		{"year", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, _ := newTestDecoder()
			err := parseRecordingTime(d, latin1(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if d.tag.Year != tt.want {
				t.Errorf("Year = %d, want %d", d.tag.Year, tt.want)
			}
		})
	}
}

func TestParseGenre(t *testing.T) {
	tests := []struct {
		text      string
		want      string
		wantWarns int
	}{
		{"(2)", "Country", 0},
		{"(79)", "Hard Rock", 0},
		{"(9999)", "(9999)", 1},
		{"Jazz", "Jazz", 0},
		{"(2", "(2", 0},
		{"(x)", "(x)", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, rec := newTestDecoder()
			if err := parseGenre(d, latin1(tt.text)); err != nil {
				t.Fatal(err)
			}
			if d.tag.Genre != tt.want {
				t.Errorf("Genre = %q, want %q", d.tag.Genre, tt.want)
			}
			if got := len(warnings(rec)); got != tt.wantWarns {
				t.Errorf("warnings = %d, want %d", got, tt.wantWarns)
			}
		})
	}
}

func TestParseComment(t *testing.T) {
	utf16 := bytes.Join([][]byte{
		{0x01}, []byte("eng"),
		{0xFF, 0xFE}, {0x00, 0x00},
		{0xFF, 0xFE}, utf16le("great song"), {0x00, 0x00},
	}, nil)

	d, _ := newTestDecoder()
	if err := parseComment(d, utf16); err != nil {
		t.Fatalf("parseComment() error = %v", err)
	}
	if d.tag.Comment != "great song" {
		t.Errorf("Comment = %q, want %q", d.tag.Comment, "great song")
	}
}

func TestParseComment_Preference(t *testing.T) {
	comm := func(desc, text string) []byte {
		return bytes.Join([][]byte{{0x00}, []byte("eng"), []byte(desc), {0x00}, []byte(text)}, nil)
	}

	tests := []struct {
		name   string
		frames [][]byte
		want   string
	}{
		{"described only", [][]byte{comm("iTunNORM", "0000")}, "0000"},
		{"plain beats earlier described", [][]byte{comm("iTunNORM", "0000"), comm("", "plain")}, "plain"},
		{"described never replaces plain", [][]byte{comm("", "plain"), comm("iTunNORM", "0000")}, "plain"},
		{"last plain wins", [][]byte{comm("", "one"), comm("", "two")}, "two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDecoder()
			for _, f := range tt.frames {
				if err := parseComment(d, f); err != nil {
					t.Fatal(err)
				}
			}
			if d.tag.Comment != tt.want {
				t.Errorf("Comment = %q, want %q", d.tag.Comment, tt.want)
			}
		})
	}
}

func TestParseComment_Truncated(t *testing.T) {
	d, _ := newTestDecoder()
	if err := parseComment(d, []byte{0x00, 'e'}); err == nil {
		t.Error("expected error for a frame shorter than the language code")
	}
	if d.tag.Comment != "" {
		t.Errorf("Comment = %q, want empty", d.tag.Comment)
	}
}

func TestParseUserText(t *testing.T) {
	d, _ := newTestDecoder()
	data := bytes.Join([][]byte{{0x03}, []byte("MusicBrainz Album Id"), {0x00}, []byte("f00d")}, nil)

	if err := parseUserText(d, data); err != nil {
		t.Fatal(err)
	}
	if got := d.tag.UserText["MusicBrainz Album Id"]; got != "f00d" {
		t.Errorf("UserText = %q, want %q", got, "f00d")
	}
	if d.tag.Comment != "" {
		t.Errorf("TXXX leaked into Comment: %q", d.tag.Comment)
	}
}

func TestParseUserURL(t *testing.T) {
	data := bytes.Join([][]byte{
		{0x01}, {0xFF, 0xFE}, utf16le("home"), {0x00, 0x00},
		[]byte("http://example.test/band"),
	}, nil)

	d, _ := newTestDecoder()
	if err := parseUserURL(d, data); err != nil {
		t.Fatal(err)
	}
	if d.tag.URL != "http://example.test/band" {
		t.Errorf("URL = %q", d.tag.URL)
	}
}

func TestParseUFID(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		wantOwner string
		wantID    []byte
	}{
		{"owner and id", []byte("http://musicbrainz.org\x00abc-123"), "http://musicbrainz.org", []byte("abc-123")},
		{"no zero byte", []byte("opaque"), "", []byte("opaque")},
		{"empty id", []byte("owner\x00"), "owner", []byte{}},
		{"binary id", []byte{'o', 0x00, 0x00, 0xFF, 0x01}, "o", []byte{0x00, 0xFF, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDecoder()
			if err := parseUFID(d, tt.data); err != nil {
				t.Fatal(err)
			}
			if d.tag.UFID == nil {
				t.Fatal("UFID not set")
			}
			if d.tag.UFID.Owner != tt.wantOwner {
				t.Errorf("Owner = %q, want %q", d.tag.UFID.Owner, tt.wantOwner)
			}
			if !bytes.Equal(d.tag.UFID.ID, tt.wantID) {
				t.Errorf("ID = % x, want % x", d.tag.UFID.ID, tt.wantID)
			}
		})
	}
}

func TestParseUFID_DoesNotAlias(t *testing.T) {
	data := []byte("o\x00id")
	d, _ := newTestDecoder()
	if err := parseUFID(d, data); err != nil {
		t.Fatal(err)
	}
	data[2] = 'X'
	if string(d.tag.UFID.ID) != "id" {
		t.Errorf("UFID aliases the frame buffer: %q", d.tag.UFID.ID)
	}
}

func TestKnownAndIgnored(t *testing.T) {
	for _, id := range []string{"TIT2", "TRCK", "COMM", "UFID", "WXXX"} {
		if !Known(id) {
			t.Errorf("Known(%q) = false", id)
		}
	}
	for _, id := range []string{"APIC", "POPM", "TENC"} {
		if !Ignored(id) || Known(id) {
			t.Errorf("%q should be ignored and unknown", id)
		}
	}
	if Known("XYZW") || Ignored("XYZW") {
		t.Error("XYZW should be neither known nor ignored")
	}
}
