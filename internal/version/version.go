// Package version holds the build version string.
package version

// Version is the scribe release version. Overridden at build time via
// -ldflags "-X github.com/hashicorp-forge/scribe/internal/version.Version=...".
var Version = "0.1.0"
