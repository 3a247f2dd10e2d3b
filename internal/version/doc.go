// Package version exposes build metadata for the project.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags. Without ldflags, Full falls back to the VCS stamp recorded by
// the Go toolchain.
package version
