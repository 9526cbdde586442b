// Package buildinfo identifies the citation build: the version shown by
// "citation --version" and /healthz, the creator recorded in PDF metadata,
// and the User-Agent sent when fetching remote fonts and logos.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/citation/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/citation/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/citation/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/citation
package buildinfo

import "fmt"

// Stamped at link time; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent names this build in outgoing requests and document metadata,
// e.g. "citation/v0.3.0".
func UserAgent() string {
	return "citation/" + Version
}

// Template is the cobra version template: the version line followed by the
// commit and build date.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
