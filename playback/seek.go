package playback

import "math"

// SeekCoordinator decides when a seek can be served by the already delivered
// segments and when it requires the remote encoder to restart from a new
// offset. It applies only to transcoded playback; direct play uses native
// byte-range seeking and needs no coordination.
//
// Positions are in media time. After a restart the encoder produces segments
// whose timestamps begin at zero again, so the controller keeps a timeline
// offset and feeds the coordinator offset-corrected positions.
type SeekCoordinator struct {
	threshold float64
	lastKnown float64
	started   bool
	inFlight  bool
}

// NewSeekCoordinator creates a coordinator with the given restart threshold
// in seconds. Seeks below the threshold are assumed to land inside already
// buffered segments and are left to native seeking.
func NewSeekCoordinator(threshold float64) *SeekCoordinator {
	return &SeekCoordinator{threshold: threshold}
}

// Reset clears position tracking for a freshly swapped source.
func (s *SeekCoordinator) Reset() {
	s.lastKnown = 0
	s.started = false
	s.inFlight = false
}

// NoteProgress records the last known playhead position. Progress also marks
// playback as genuinely started, which arms notification-driven seek
// detection: player seek notifications that fire before any progress are
// spurious auto-resume artifacts, not user intent, and callers consult
// Started before acting on them. Explicit seeks carry user intent by
// definition and are evaluated regardless.
func (s *SeekCoordinator) NoteProgress(position float64) {
	s.lastKnown = position
	s.started = true
}

// Started reports whether any playback progress has been recorded for the
// current source.
func (s *SeekCoordinator) Started() bool {
	return s.started
}

// ShouldRestart reports whether a seek to target requires a remote restart.
// Returns false while a restart is already in flight and for distances below
// the threshold. Before any progress the distance measures from zero, so a
// resume seek into a fresh manifest restarts the encoder.
func (s *SeekCoordinator) ShouldRestart(target float64) bool {
	if s.inFlight {
		return false
	}
	return math.Abs(target-s.lastKnown) >= s.threshold
}

// BeginRestart marks a restart request as in flight, causing re-entrant seek
// notifications to be ignored until EndRestart.
func (s *SeekCoordinator) BeginRestart() {
	s.inFlight = true
}

// EndRestart clears the in-flight mark after the restart resolved either way.
func (s *SeekCoordinator) EndRestart() {
	s.inFlight = false
}

// InFlight reports whether a restart request is outstanding.
func (s *SeekCoordinator) InFlight() bool {
	return s.inFlight
}

// LastKnown returns the last recorded playhead position.
func (s *SeekCoordinator) LastKnown() float64 {
	return s.lastKnown
}
