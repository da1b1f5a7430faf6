package id3v2

import "github.com/simonhull/id3scan/internal/logging"

// SearchLimit is the default number of leading bytes searched for the tag
// header. It bounds the scan cost independent of file size.
const SearchLimit = 10000

// Option configures a scan.
type Option func(*options)

type options struct {
	sink        logging.Sink
	path        string
	searchLimit int
}

func newOptions(opts []Option) options {
	o := options{
		sink:        logging.Default(),
		searchLimit: SearchLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sink == nil {
		o.sink = logging.Nop()
	}
	return o
}

// WithSink sends diagnostics to s instead of the global logger.
func WithSink(s logging.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithPath names the source in diagnostics and errors.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithSearchLimit bounds the header search to the first n bytes.
// Values <= 0 keep the default.
func WithSearchLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.searchLimit = n
		}
	}
}
