// Package version reports the build of deepwiki-export.
//
// Release builds stamp Version, Commit and BuildDate with -ldflags. Builds
// made with "go install" are not stamped, so Resolve falls back to the
// module and VCS metadata the toolchain embeds.
package version

import (
	"fmt"
	"runtime/debug"
)

const unset = "dev"

var (
	Version   = unset
	Commit    = ""
	BuildDate = ""
)

// Info is the resolved build identity.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	Modified  bool
}

// Resolve returns the stamped build identity, filling unstamped fields
// from the embedded build info when it is available.
func Resolve() Info {
	return resolve(Version, Commit, BuildDate, debug.ReadBuildInfo)
}

func resolve(v, commit, date string, read func() (*debug.BuildInfo, bool)) Info {
	info := Info{Version: v, Commit: commit, BuildDate: date}

	bi, ok := read()
	if !ok {
		return info
	}
	if info.Version == unset && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// Short returns just the version, suitable for the MCP client info.
func (i Info) Short() string {
	return i.Version
}

// String renders the version with whatever commit and date are known.
func (i Info) String() string {
	commit := i.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if i.Modified {
		commit += "-dirty"
	}
	date := i.BuildDate
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", i.Version, commit, date)
}
