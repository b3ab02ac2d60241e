package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build information for -version output and file metadata.
func String() string {
	return fmt.Sprintf("rct2gpx %s (%s, built %s)", Version, GitSHA, BuildTime)
}
