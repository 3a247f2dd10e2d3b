package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// shortCommitLength is how many characters of a VCS revision are shown.
const shortCommitLength = 7

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit, build time and Go version.
// Without ldflags the commit and build time come from the VCS stamp of the binary, when present.
func Full() string {
	commit, builtAt := Commit, BuildTime
	if info, ok := debug.ReadBuildInfo(); ok {
		commit, builtAt = fromBuildInfo(info.Settings, commit, builtAt)
	}

	return fmt.Sprintf("alarm-reminder %s, commit: %s, built at: %s, %s", Version, commit, builtAt, runtime.Version())
}

// fromBuildInfo fills commit and build time that were not injected through ldflags.
func fromBuildInfo(settings []debug.BuildSetting, commit, builtAt string) (string, string) {
	for _, setting := range settings {
		switch {
		case setting.Key == "vcs.revision" && commit == "none":
			commit = setting.Value
			if len(commit) > shortCommitLength {
				commit = commit[:shortCommitLength]
			}
		case setting.Key == "vcs.time" && builtAt == "unknown":
			builtAt = setting.Value
		}
	}

	return commit, builtAt
}
