// Package version reports the lutronctl build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/lutronctl/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/lutronctl/internal/version.Commit=abc123"
//
// Otherwise they are filled from VCS build info, falling back to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v, c := fromSettings(info.Settings)
			if Version == "" {
				Version = v
			}
			if Commit == "" {
				Commit = c
			}
		}
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromSettings derives a dev version and short commit from VCS build settings.
// Either result may be empty.
func fromSettings(settings []debug.BuildSetting) (version, commit string) {
	var revision, modified, vcsTime string
	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}

	// Build info carries no tags, so date the dev build by commit time
	if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
		version = fmt.Sprintf("dev-%s", t.Format("20060102"))
	}
	return version, commit
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Details returns the build details shown by the version command.
func Details() map[string]string {
	return map[string]string{
		"Version":  Version,
		"Commit":   Commit,
		"Go":       runtime.Version(),
		"Platform": runtime.GOOS + "/" + runtime.GOARCH,
	}
}
