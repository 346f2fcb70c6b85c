// Package version holds the build version, overridden at link time with
// -ldflags "-X pipr/internal/version.AppVersion=...".
package version

var AppVersion = "0.4.0-dev"
