// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the full build identifier, e.g. "quizdex 1.4.0 (ab12cd3)".
func String() string {
	return "quizdex " + Version + " (" + Commit + ")"
}
