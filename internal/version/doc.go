// Package version exposes build metadata for the bridge binary.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. Short and
// Full render the version string for the CLI and logs, Full additionally
// reports the Go runtime the binary was built with.
package version
