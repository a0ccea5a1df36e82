// Package version holds build metadata injected with -ldflags.
package version

var (
	// Version is the release version, e.g. v0.3.1.
	Version = "dev"
	// Commit is the git commit the binary was built from.
	Commit = ""
	// BuildDate is the UTC build timestamp.
	BuildDate = ""
)
