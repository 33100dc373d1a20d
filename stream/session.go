// Package stream provides the client for the remote transcoding/streaming service
// and the session handle contract it exposes.
package stream

import "encoding/json"

// Status represents the remote lifecycle state of a transcoding session.
// While a session is not Completed its rendition playlists keep growing as
// the encoder delivers segments.
type Status int

const (
	// StatusLoading indicates the encoder has accepted the session but not yet produced a playable manifest window.
	StatusLoading Status = iota

	// StatusActive indicates segments are being produced and the manifest is playable.
	StatusActive

	// StatusCompleted indicates the encoder has finished; the manifest is final.
	StatusCompleted

	// StatusError indicates the remote encoder failed the session.
	StatusError
)

// String returns a human-readable label for the session status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "Loading"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// UnmarshalJSON maps the wire status labels onto the Status enum.
func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	switch label {
	case "active":
		*s = StatusActive
	case "completed":
		*s = StatusCompleted
	case "error":
		*s = StatusError
	default:
		*s = StatusLoading
	}
	return nil
}

// Session is a remote playback handle. For transcoded playback it carries a
// session identifier and a manifest locator; for direct playback only a static
// resource locator. Sessions are replaced, never merged: each play or seek
// request yields a fresh value.
type Session struct {
	ID          string `json:"sessionId"`
	ManifestURL string `json:"manifestUrl"`
	DirectURL   string `json:"directUrl"`
	Status      Status `json:"status"`
}

// Direct reports whether the session points at the original file rather than a segmented stream.
func (s *Session) Direct() bool {
	return s.DirectURL != ""
}

// SourceURL returns the locator the player handle should load.
func (s *Session) SourceURL() string {
	if s.Direct() {
		return s.DirectURL
	}
	return s.ManifestURL
}
