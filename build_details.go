package oas2validate

import "fmt"

var (
	// version is set via ldflags during build by GoReleaser.
	// For development builds, this will show "dev".
	version = "dev"
)

// Version returns the compiled version or "dev" if run from source.
func Version() string {
	return version
}

// UserAgent returns the User-Agent string this module's HTTP-facing
// convenience code (core.FromHTTPRequest callers) may use when identifying
// itself to a server under test.
func UserAgent() string {
	return fmt.Sprintf("oas2validate/%s", version)
}
