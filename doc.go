// Package id3scan reads ID3 metadata from MP3 files.
//
// It decodes ID3v2.3 and ID3v2.4 tags at the start of a file and the
// 128-byte ID3v1 trailer at its end, for indexing pipelines that need
// artist, title, album and friends without an audio decoding stack.
//
// # Quick Start
//
//	meta, err := id3scan.ReadFile("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	tags := meta.Tags() // ID3v2 values, gaps filled from ID3v1
//	fmt.Printf("%s - %s (%d)\n", tags.Artist, tags.Title, tags.Year)
//
// Both tags are also available on their own in meta.ID3v2 and meta.ID3v1;
// either may be nil.
//
// # What is decoded
//
// ID3v2 text frames TIT2, TPE1, TPE2, TALB, TCOM, TOPE, TCOP, the numeric
// frames TRCK, TPOS, TYER, TLEN, TDRC (year only), TCON with "(N)" genre
// references, COMM, TXXX, WXXX and UFID. The header is searched for in the
// first 10000 bytes of the file (WithSearchLimit). Extended headers are
// skipped; unsynchronised, compressed and length-prefixed frames are
// restored before decoding. Encrypted and grouped frames are skipped.
//
// # Error Handling
//
// id3scan distinguishes between fatal errors and warnings:
//
//   - Fatal errors prevent reading entirely (file not found, read failure)
//   - Warnings indicate damaged tags, frames or values
//
// A damaged tag never fails a read. A tag whose framing cannot be trusted
// (a broken synchsafe length) is dropped, a frame that cannot be decoded is
// skipped, and a value that does not parse leaves only its field unset.
// Each of these is reported:
//
//	for _, w := range meta.Warnings {
//		log.Printf("warning: %s", w)
//	}
//
// WithStrictParsing turns the first warning into an error.
//
// # Logging
//
// Diagnostics (including debug and info messages such as skipped unknown
// frames) are sent to the global zerolog logger by default. Use WithLogger
// or WithSink to redirect them.
//
// # Concurrency
//
// Reads share no state and may run concurrently. ReadMany reads a batch of
// files in parallel:
//
//	metas, err := id3scan.ReadMany(ctx, paths, id3scan.WithConcurrency(8))
package id3scan
