package main

import (
	"errors"
	"fmt"
	"os"

	binutil "github.com/simonhull/id3scan/internal/binary"
	"github.com/simonhull/id3scan/internal/id3v2"
	"github.com/simonhull/id3scan/internal/logging"
)

// Useful to see which frames a file actually carries and how they are flagged.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: id3-dump <file.mp3>")
		os.Exit(1)
	}

	logging.ConfigureRuntime()

	if err := dump(os.Args[1]); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func dump(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	sr := binutil.NewSafeReader(f, stat.Size(), path)

	buf, err := sr.Window(0, id3v2.SearchLimit, "search window")
	if err != nil {
		return err
	}
	if h, ok := id3v2.Locate(buf, id3v2.WithSink(logging.Nop())); ok && h.End() > int64(len(buf)) {
		if buf, err = sr.Window(0, h.End(), "tag"); err != nil {
			return err
		}
	}

	var frames []id3v2.Frame
	h, err := id3v2.Walk(buf, func(fr id3v2.Frame) bool {
		frames = append(frames, fr)
		return true
	}, id3v2.WithPath(path))
	if errors.Is(err, id3v2.ErrNoTag) {
		fmt.Println("no ID3v2 tag")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("ID3v2.%d.%d (size: %d, offset: %d, flags: %s)\n", h.Version, h.Revision, h.Size, h.Offset, h.Flags)

	end := h.Offset + id3v2.HeaderSize
	for _, fr := range frames {
		note := ""
		switch {
		case id3v2.Known(fr.ID):
		case id3v2.Ignored(fr.ID):
			note = " [ignored]"
		default:
			note = " [unknown]"
		}
		fmt.Printf("  %s (size: %d, offset: %d, flags: %s)%s\n", fr.ID, fr.Size, fr.Offset, fr.Flags, note)
		end = fr.Offset + 10 + int64(fr.Size)
	}
	fmt.Printf("%d frame(s), %d byte(s) of padding\n", len(frames), max(h.End()-end, 0))
	return nil
}
