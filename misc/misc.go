// Package misc keeps program identification, values are set at build time.
package misc

import (
	"runtime/debug"
)

const appName = "hmlt"

var (
	version = "dev"
	gitHash = ""
)

// GetAppName returns the program name used for logs, reports and panic files.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version.
func GetVersion() string {
	return version
}

// GetGitHash returns the VCS revision the program was built from.
func GetGitHash() string {
	if len(gitHash) > 0 {
		return gitHash
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
