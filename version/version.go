// Package version holds build information injected at link time.
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag, set via ldflags.
	GitRelease = "dev"

	// GitCommit is the commit hash, set via ldflags.
	GitCommit = "unknown"

	// GitCommitDate is the commit timestamp, set via ldflags.
	GitCommitDate = "unknown"

	// GoInfo describes the Go toolchain and platform.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

// Version returns the release tag, the form used in API responses.
var Version = GitRelease
