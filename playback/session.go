package playback

import (
	"fmt"

	"github.com/reeler-cli/reeler/log"
	"github.com/reeler-cli/reeler/stream"
)

// StreamService is the contract the coordinator needs from the remote
// transcoding/streaming service.
type StreamService interface {
	RequestPlay(mediaID string, direct bool) (*stream.Session, error)
	RestartAt(sessionID string, startTime float64) (*stream.Session, error)
	FetchManifest(manifestURL string) (*stream.Manifest, error)
}

// SessionManager requests and holds the remote playback handle. It owns the
// active session exclusively; other components refer to it by value only.
//
// Fetching and committing are separate steps: Request and Restart perform the
// remote call and return the resulting session without touching the active
// one, and the caller commits it with Adopt once it has verified the player
// handle is still the one the request was issued for. A response that arrives
// after the handle moved on is simply never adopted. Sessions are replaced,
// never merged, and a failed request leaves the prior session untouched.
//
// The manager performs no retries and no deduplication of in-flight requests;
// the controller's single-slot operation guard prevents redundant concurrent
// requests for the same handle.
type SessionManager struct {
	svc    StreamService
	active *stream.Session
}

// NewSessionManager creates a session manager backed by the given service.
func NewSessionManager(svc StreamService) *SessionManager {
	return &SessionManager{svc: svc}
}

// Request asks the service for a playback handle. With direct=true the
// session carries a static resource locator for the original file; otherwise
// a transcoding session identifier and a manifest locator for a progressively
// extended segmented stream.
func (m *SessionManager) Request(mediaID string, direct bool) (*stream.Session, error) {
	session, err := m.svc.RequestPlay(mediaID, direct)
	if err != nil {
		return nil, fmt.Errorf("session request failed: %w", err)
	}
	return session, nil
}

// Restart asks the encoder to restart the given transcoding session so that
// produced segments begin at startTime. The result is a fresh session; the
// old one is superseded server-side.
func (m *SessionManager) Restart(sessionID string, startTime float64) (*stream.Session, error) {
	session, err := m.svc.RestartAt(sessionID, startTime)
	if err != nil {
		return nil, fmt.Errorf("seek restart failed: %w", err)
	}
	return session, nil
}

// Adopt commits a fetched session as the active one, replacing any prior session.
func (m *SessionManager) Adopt(session *stream.Session) {
	m.active = session
	log.Debugf("session replaced: direct=%v id=%q", session.Direct(), session.ID)
}

// Active returns the current session, or nil when none is held.
func (m *SessionManager) Active() *stream.Session {
	return m.active
}

// Clear drops the active session reference. The remote encoder reclaims
// abandoned sessions on its own.
func (m *SessionManager) Clear() {
	m.active = nil
}
