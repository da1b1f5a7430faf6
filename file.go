package id3scan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/id3scan/internal/mp3"
)

// ErrStrictParsing is returned by WithStrictParsing reads that produced a
// warning.
var ErrStrictParsing = errors.New("strict parsing failed")

// ReadFile reads the ID3 tags of the file at path.
//
// A file without tags is not an error: the returned Metadata has nil
// ID3v1 and ID3v2 fields. Damaged tags yield whatever could be decoded,
// with the problems listed in Metadata.Warnings.
//
// By default only files with an .mp3 extension are inspected; see
// WithAnyExtension.
//
// Example:
//
//	meta, err := id3scan.ReadFile("song.mp3")
//	if err != nil {
//		return err
//	}
//	tags := meta.Tags()
//	fmt.Printf("%s - %s\n", tags.Artist, tags.Title)
func ReadFile(path string, opts ...Option) (*Metadata, error) {
	return readFile(path, applyOptions(opts))
}

// ReadBytes reads the ID3 tags of an in-memory file. path is only used for
// the extension check and in diagnostics.
func ReadBytes(b []byte, path string, opts ...Option) (*Metadata, error) {
	return Read(bytes.NewReader(b), int64(len(b)), path, opts...)
}

// Read reads the ID3 tags of a file of the given size through r.
//
// Only the search window at the start of the file, the tag itself and the
// 128-byte trailer are read; audio data is never touched.
func Read(r io.ReaderAt, size int64, path string, opts ...Option) (*Metadata, error) {
	return read(r, size, path, applyOptions(opts))
}

func read(r io.ReaderAt, size int64, path string, options *readOptions) (*Metadata, error) {
	meta, err := mp3.Scan(r, size, path, mp3.Options{
		Sink:         options.sink,
		SearchLimit:  options.searchLimit,
		AnyExtension: options.anyExtension,
	})
	if err != nil {
		return nil, fmt.Errorf("read tags: %w", err)
	}

	if options.strictParsing && len(meta.Warnings) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrStrictParsing, meta.Warnings[0])
	}
	if options.ignoreWarnings {
		meta.Warnings = nil
	}
	return meta, nil
}

// ReadContext reads one file with context support for cancellation.
//
// The context is checked before the file is opened; a single read is short
// and is not interrupted.
func ReadContext(ctx context.Context, path string, opts ...Option) (*Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadFile(path, opts...)
}

// ReadMany reads multiple files concurrently.
//
// Files are read in parallel using up to WithConcurrency goroutines
// (runtime.NumCPU() by default). Results are returned in the same order as
// the input paths.
//
// If any file fails to read, or ctx is cancelled, no results are returned.
//
// Example:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//
//	metas, err := id3scan.ReadMany(ctx, paths)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, m := range metas {
//		fmt.Printf("%s: %s\n", m.Path, m.Tags().Title)
//	}
func ReadMany(ctx context.Context, paths []string, opts ...Option) ([]*Metadata, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	options := applyOptions(opts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(options.concurrency)

	results := make([]*Metadata, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			// Check for cancellation
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			meta, err := readFile(path, options)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = meta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readFile(path string, options *readOptions) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return read(f, stat.Size(), path, options)
}
