// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Reeler is the canonical application identifier used for filesystem paths and CLI branding.
	Reeler = "reeler"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent identifies reeler to the media server on every HTTP request.
	UserAgent = "reeler/" + Version
)

// Build metadata injected at link time via -ldflags.
var (
	Revision = "unknown"
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
)
