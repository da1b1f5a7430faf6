// Command id3scan prints the ID3 tags of MP3 files.
//
// Usage:
//
//	id3scan [flags] <file.mp3>...
//
// Settings come from an optional TOML file (-config) and are overridden by
// flags given on the command line.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/simonhull/id3scan"
	"github.com/simonhull/id3scan/internal/config"
	"github.com/simonhull/id3scan/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		log.Error().Err(err).Msg("id3scan failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("id3scan", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a TOML config file")
	format := fs.String("format", config.FormatText, "output format: text|json")
	strict := fs.Bool("strict", false, "fail on the first warning")
	anyExt := fs.Bool("any-ext", false, "read tags from files without an .mp3 extension")
	searchLimit := fs.Int("search-limit", 0, "bytes searched for the ID3v2 header")
	concurrency := fs.Int("concurrency", 0, "files read in parallel")
	logLevel := fs.String("log-level", "", "log level: debug|info|warn|error|off")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintln(stdout, id3scan.GetVersionInfo())
		return nil
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Format = strings.ToLower(*format)
		case "strict":
			cfg.Strict = *strict
		case "any-ext":
			cfg.AnyExtension = *anyExt
		case "search-limit":
			cfg.SearchLimit = *searchLimit
		case "concurrency":
			cfg.Concurrency = *concurrency
		case "log-level":
			level, ok := logging.ParseLevel(*logLevel)
			if !ok {
				flagErr = fmt.Errorf("unknown log level %q", *logLevel)
			}
			cfg.LogLevel = level
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Configure(logging.ProfileRuntime, func(c *logging.Config) {
		c.Level = cfg.LogLevel
	})

	paths := fs.Args()
	if len(paths) == 0 {
		return fmt.Errorf("no files given")
	}

	opts := []id3scan.Option{
		id3scan.WithLogger(log.Logger),
		id3scan.WithSearchLimit(cfg.SearchLimit),
		id3scan.WithConcurrency(cfg.Concurrency),
	}
	if cfg.Strict {
		opts = append(opts, id3scan.WithStrictParsing())
	}
	if cfg.AnyExtension {
		opts = append(opts, id3scan.WithAnyExtension())
	}

	log.Debug().Int("files", len(paths)).Str("format", cfg.Format).Msg("scanning")
	metas, err := id3scan.ReadMany(ctx, paths, opts...)
	if err != nil {
		return err
	}

	if cfg.Format == config.FormatJSON {
		return writeJSON(stdout, metas)
	}
	writeText(stdout, metas)
	return nil
}

// record is the JSON shape of one scanned file.
type record struct {
	Path     string            `json:"path"`
	Size     int64             `json:"size"`
	Tags     *id3scan.ID3v2Tag `json:"tags,omitempty"`
	Version  string            `json:"id3v2_version,omitempty"`
	ID3v1    bool              `json:"id3v1"`
	Warnings []string          `json:"warnings,omitempty"`
}

func writeJSON(w io.Writer, metas []*id3scan.Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	records := make([]record, 0, len(metas))
	for _, m := range metas {
		r := record{Path: m.Path, Size: m.Size, ID3v1: m.ID3v1 != nil}
		if m.HasTags() {
			tags := m.Tags()
			r.Tags = &tags
		}
		if m.ID3v2 != nil {
			r.Version = fmt.Sprintf("2.%d.%d", m.ID3v2.Header.Version, m.ID3v2.Header.Revision)
		}
		for _, warn := range m.Warnings {
			r.Warnings = append(r.Warnings, warn.String())
		}
		records = append(records, r)
	}
	return enc.Encode(records)
}

func writeText(w io.Writer, metas []*id3scan.Metadata) {
	for i, m := range metas {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (%d bytes)\n", m.Path, m.Size)
		if !m.HasTags() {
			fmt.Fprintln(w, "  no tags")
			continue
		}

		tags := m.Tags()
		field := func(name, value string) {
			if value != "" {
				fmt.Fprintf(w, "  %-8s %s\n", name+":", value)
			}
		}
		number := func(name string, n, total int) {
			switch {
			case n == 0:
			case total == 0:
				field(name, fmt.Sprint(n))
			default:
				field(name, fmt.Sprintf("%d/%d", n, total))
			}
		}

		field("title", tags.Title)
		field("artist", tags.Artist)
		field("album", tags.Album)
		number("year", tags.Year, 0)
		number("track", tags.Track, tags.TracksOnDisc)
		number("disc", tags.Disc, tags.DiscsInSet)
		field("genre", tags.Genre)
		field("comment", tags.Comment)
		for _, warn := range m.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warn)
		}
	}
}
