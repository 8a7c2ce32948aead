// Package version holds the build version, set with
// -ldflags "-X github.com/alexcabrera/thinkplay/internal/version.Version=...".
package version

var Version = "dev"
