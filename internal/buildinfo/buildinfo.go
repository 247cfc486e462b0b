// Package buildinfo exposes version metadata injected at link time via
// -ldflags, e.g.:
//
//	go build -ldflags "-X 'github.com/pokeshop/storefront/internal/buildinfo.Version=1.2.0'"
package buildinfo

import (
	"fmt"
	"io"
)

// Set by the linker; "N/A" when built without ldflags.
var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

// PrintBuildData writes the build metadata to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}
