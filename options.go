package id3scan

import (
	"runtime"

	"github.com/rs/zerolog"

	"github.com/simonhull/id3scan/internal/id3v2"
	"github.com/simonhull/id3scan/internal/logging"
)

// Option configures how files are read.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	meta, err := id3scan.ReadFile("song.mp3",
//	    id3scan.WithStrictParsing(),
//	    id3scan.WithSearchLimit(64*1024),
//	)
type Option func(*readOptions)

// readOptions holds configuration for reading files.
type readOptions struct {
	sink           logging.Sink // Diagnostics destination
	searchLimit    int          // Bytes searched for the ID3v2 header
	concurrency    int          // ReadMany worker limit
	strictParsing  bool         // Fail on any warning
	ignoreWarnings bool         // Suppress all warnings
	anyExtension   bool         // Read tags regardless of file extension
}

// defaultOptions returns the default configuration.
func defaultOptions() *readOptions {
	return &readOptions{
		sink:        logging.Default(),
		searchLimit: id3v2.SearchLimit,
		concurrency: runtime.NumCPU(),
	}
}

func applyOptions(opts []Option) *readOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithSink sends parser diagnostics to s.
//
// By default diagnostics go to the global zerolog logger
// (github.com/rs/zerolog/log). Pass nil to discard them; warnings are still
// collected in Metadata.Warnings.
func WithSink(s Sink) Option {
	return func(o *readOptions) {
		o.sink = s
	}
}

// WithLogger sends parser diagnostics to logger, tagged with a
// component=id3scan field.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *readOptions) {
		o.sink = logging.With(logger, "id3scan")
	}
}

// WithSearchLimit sets how many leading bytes are searched for the ID3v2
// header. The default is 10000. Values <= 0 keep the default.
//
// Some taggers put junk or a second tag before the real one; a larger limit
// finds those at the cost of reading more of every file.
func WithSearchLimit(n int) Option {
	return func(o *readOptions) {
		if n > 0 {
			o.searchLimit = n
		}
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, reading continues past damaged frames and fields, returning
// warnings alongside the decoded data. With strict parsing enabled, the
// first warning is returned as an error wrapping ErrStrictParsing.
//
// Example:
//
//	meta, err := id3scan.ReadFile("song.mp3", id3scan.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *readOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues are collected in
// Metadata.Warnings. This option discards them. Diagnostics still reach the
// sink.
func WithIgnoreWarnings() Option {
	return func(o *readOptions) {
		o.ignoreWarnings = true
	}
}

// WithAnyExtension reads tags from files whatever their name.
//
// By default only paths ending in .mp3 (any case) are inspected; other
// files yield an empty Metadata.
func WithAnyExtension() Option {
	return func(o *readOptions) {
		o.anyExtension = true
	}
}

// WithConcurrency limits the number of files ReadMany reads at once.
// The default is runtime.NumCPU(). Values <= 0 keep the default.
func WithConcurrency(n int) Option {
	return func(o *readOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
