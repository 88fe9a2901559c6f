// Package version reports the build version used in --version and the User-Agent.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

// Set with -ldflags "-X github.com/ctv-clearlink/smartnews-feed/version.Version=..."
var (
	Version   = "dev"
	GitCommit = unknown
	BuildDate = unknown
)

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
}

// String renders the info on one line for --version.
func (i Info) String() string {
	return fmt.Sprintf("smartnews-feed %s (commit %s, built %s, %s)", i.Version, i.GitCommit, i.BuildDate, i.GoVersion)
}

// Get returns the linker-supplied values, falling back to VCS build settings
// for a plain `go build`.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}

	if info.Version == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			fromBuildInfo(&info, bi)
		}
	}

	info.Version = strings.TrimPrefix(info.Version, "v")
	return info
}

func fromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == unknown {
				info.GitCommit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.BuildDate == unknown {
				info.BuildDate = s.Value
			}
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// GetVersion returns just the version string
func GetVersion() string {
	return Get().Version
}

// GetFullVersion returns the version with the short commit hash appended when known
func GetFullVersion() string {
	info := Get()
	if info.GitCommit != unknown {
		return info.Version + "-" + info.GitCommit
	}
	return info.Version
}
