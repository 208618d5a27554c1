// Package version reports how the nacara binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/nacara/nacara/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version"`
	Commit    string    `json:"commit,omitempty"`
	BuildTime time.Time `json:"build_time,omitempty"`
	Modified  bool      `json:"modified,omitempty"`
	GoVersion string    `json:"go_version"`
	Platform  string    `json:"platform"`
}

// Get collects the version information, falling back to the VCS stamps
// recorded by the Go toolchain when ldflags were not set.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildTime = t
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if info.BuildTime.IsZero() {
					info.BuildTime, _ = time.Parse(time.RFC3339, setting.Value)
				}
			case "vcs.modified":
				info.Modified = setting.Value == "true"
			}
		}
	}

	return info
}

// Short is the version with the abbreviated commit, e.g. "v1.2.0 (3f2a9c1)".
func (i Info) Short() string {
	if len(i.Commit) < 7 {
		return i.Version
	}
	commit := i.Commit[:7]
	if i.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s)", i.Version, commit)
}

// String is the multi line description printed by the version command.
func (i Info) String() string {
	lines := []string{"nacara " + i.Version}
	if i.Commit != "" {
		lines = append(lines, "commit:   "+i.Commit)
	}
	if !i.BuildTime.IsZero() {
		lines = append(lines, "built:    "+i.BuildTime.UTC().Format(time.RFC3339))
	}
	lines = append(lines, "go:       "+i.GoVersion, "platform: "+i.Platform)
	return strings.Join(lines, "\n")
}

// IsRelease reports whether the binary carries a release version.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !strings.HasPrefix(i.Version, "dev-")
}
