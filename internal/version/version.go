// Package version holds build metadata, set at link time:
//
//	go build -ldflags "-X github.com/MrSnakeDoc/nexus/internal/version.Version=v0.3.0 \
//	  -X github.com/MrSnakeDoc/nexus/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import (
	"fmt"
	"runtime"
	"time"
)

var (
	Version   = "dev"                           // ex: v0.3.0
	Commit    = "none"                          // ex: abcd123
	BuildDate = time.Now().Format(time.RFC3339) // ex: 2026-08-11T18:42:00Z
	GoVersion = runtime.Version()
)

// String is the one-line build summary printed by `nexus version` and
// logged when the gate starts.
func String() string {
	return fmt.Sprintf("nexus %s (commit %s, built %s, %s)", Version, Commit, BuildDate, GoVersion)
}
