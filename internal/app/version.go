package app

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X github.com/tejashwikalptaru/shuffleplay/internal/app.Version=v1.0.0" ./cmd
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = ""
	BuildTime = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// GetVersionInfo returns the current version information. A git tag, when set,
// takes precedence over Version.
func GetVersionInfo() VersionInfo {
	version := Version
	if GitTag != "" {
		version = GitTag
	}
	return VersionInfo{
		Version:   version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns the one-line form printed by the version command.
func (v VersionInfo) String() string {
	return fmt.Sprintf("shuffleplay %s (commit: %s, built: %s, %s)", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)
}
