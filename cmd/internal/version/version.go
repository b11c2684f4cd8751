// Package version holds the CLI version, overridden at release time via
// -ldflags "-X github.com/tidewaterhq/twapp/cmd/internal/version.Version=...".
package version

var Version = "dev"
