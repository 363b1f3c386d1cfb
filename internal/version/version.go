// Package version provides build information.
// The values can be set at build time using ldflags:
//
//	go build -ldflags "-X github.com/ramonehamilton/mtg-deckforge/internal/version.Version=v1.2.3"
package version

import "fmt"

// Set at build time; the defaults describe a local build.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// String returns a one-line description of the build.
func String() string {
	return fmt.Sprintf("deckforge %s (commit %s, built %s)", Version, Commit, BuildDate)
}
