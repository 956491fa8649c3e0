// Package version holds build metadata injected at link time.
package version

import "runtime"

// Populated via -ldflags at release build time.
var (
	// GitRelease is the release tag (e.g. v0.3.0).
	GitRelease = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"
	// GitCommitDate is the commit date of GitCommit.
	GitCommitDate = "unknown"
)

// GoInfo reports the Go toolchain version used for the build.
var GoInfo = runtime.Version()
