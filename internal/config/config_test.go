package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "id3scan.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.SearchLimit != 10000 || cfg.Concurrency != runtime.NumCPU() || cfg.Format != FormatText {
		t.Errorf("Default() = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() is invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
search_limit = 65536
concurrency = 2
any_extension = true
strict = true
format = " JSON "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Config{
		LogLevel:     zerolog.DebugLevel,
		SearchLimit:  65536,
		Concurrency:  2,
		AnyExtension: true,
		Strict:       true,
		Format:       FormatJSON,
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `strict = true`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	want.Strict = true
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad level", `log_level = "loud"`, "log_level"},
		{"zero search limit", `search_limit = 0`, "search_limit"},
		{"negative concurrency", `concurrency = -1`, "concurrency"},
		{"bad format", `format = "xml"`, "format"},
		{"unknown key", `colour = "red"`, "colour"},
		{"not toml", `search_limit = `, "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
