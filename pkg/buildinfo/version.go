// Package buildinfo reports the plasmidmap version.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/plasmidmap/plasmidmap/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/plasmidmap/plasmidmap/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/plasmidmap/plasmidmap/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with "go install" leave them unset; the module version and
// VCS stamp recorded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill copies what ldflags did not set from the embedded build info.
func fill(info *debug.BuildInfo) {
	if v := info.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value[:min(len(s.Value), 12)]
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}

// String is the multi-line form printed by "plasmidmap --version".
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
