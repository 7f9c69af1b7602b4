package version

// Set at build time, e.g.
// go build -ldflags "-X github.com/pysugar/channel-onboard/internal/version.Version=v0.2.0"
var (
	// Version is the release tag of the onboarder binary
	Version = "dev"

	// Commit is the git commit hash
	Commit = "none"

	// BuildTime is the timestamp of the build
	BuildTime = "unknown"
)

// String renders the build metadata for logs and the health endpoint.
func String() string {
	return Version + " (" + Commit + ", built " + BuildTime + ")"
}
