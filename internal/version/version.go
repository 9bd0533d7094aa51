// Package version exposes build metadata. Version is overridden at build
// time with -ldflags "-X github.com/ujjain127/better-wealth/internal/version.Version=...".
package version

// Version is the application version.
var Version = "dev"

// Commit is the source revision the binary was built from.
var Commit = "unknown"
