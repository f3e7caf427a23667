// Package version holds build metadata set with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/itsmostafa/userdocs/internal/version.Version=v1.2.0"
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
