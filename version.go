package id3scan

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the id3scan library.
const Version = "0.1.0"

// VersionInfo contains detailed version information.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// GetVersionInfo returns detailed version information.
//
// GitCommit and BuildTime come from -ldflags when set, otherwise from the
// VCS stamp the go command embeds in binaries built inside a checkout:
//
//	go build -ldflags="-X github.com/simonhull/id3scan.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/id3scan.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/id3scan
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.GitCommit == unknown:
			info.GitCommit = s.Value
		case s.Key == "vcs.time" && info.BuildTime == unknown:
			info.BuildTime = s.Value
		}
	}
	return info
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("id3scan %s (commit %s, built %s, %s)", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)
}

const unknown = "unknown"

// Variables populated at build time via -ldflags.
var (
	gitCommit = unknown
	buildTime = unknown
)
