// Package buildinfo holds build-time metadata injected via -ldflags, e.g.
// -X github.com/garyellow/line-menu-bot-go/internal/buildinfo.Version=v1.2.0
package buildinfo

var (
	// Version is the semantic version or tag for this build.
	Version = ""
	// Commit is the git commit SHA for this build.
	Commit = ""
	// BuildDate is the RFC3339 build timestamp.
	BuildDate = ""
)

// Release returns the release name reported to Sentry and /readyz.
// Falls back to the commit, then "dev".
func Release() string {
	switch {
	case Version != "":
		return Version
	case Commit != "":
		return Commit
	default:
		return "dev"
	}
}
