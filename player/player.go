// Package player defines the contract for a long-lived media player handle and
// its mpv JSON-IPC implementation.
//
// The handle outlives individual sources: playback coordination swaps sources
// in place rather than disposing the handle, so observers registered on it
// survive direct-play fallbacks, mode switches, and seek restarts.
package player

import "github.com/samber/mo"

// TimeRange is a continuous span of already-buffered media, in seconds.
type TimeRange struct {
	Start float64
	End   float64
}

// EventKind discriminates the notifications a player handle emits.
type EventKind int

const (
	// EventFileLoaded fires when a source finishes loading and is ready to render.
	EventFileLoaded EventKind = iota

	// EventTimePos fires when the playhead advances; Float carries the position.
	EventTimePos

	// EventPause fires when the suspension state changes; Bool carries the new state.
	EventPause

	// EventSeeking fires when the handle enters or leaves a seek; Bool carries the state.
	EventSeeking

	// EventBuffered fires when the span of delivered data changes; Float carries the buffered end.
	EventBuffered

	// EventEnd fires when playback reaches the end of the current source.
	EventEnd

	// EventError fires when the current source fails; Err describes the failure.
	EventError
)

// Event is a single notification from the player handle.
type Event struct {
	Kind  EventKind
	Float float64
	Bool  bool
	Err   *Error
}

// ErrorCode classifies playback failures for recovery policy decisions.
type ErrorCode string

const (
	// CodeDecode indicates the handle could not decode the stream's codecs.
	CodeDecode ErrorCode = "decode"

	// CodeUnsupported indicates the source container or protocol is not playable.
	CodeUnsupported ErrorCode = "unsupported-source"

	// CodeNetwork indicates the source could not be fetched.
	CodeNetwork ErrorCode = "network"

	// CodeGeneric covers failures outside the recognized set.
	CodeGeneric ErrorCode = "generic"
)

// Error is a playback failure reported by the handle.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Recoverable reports whether the failure belongs to the fixed, small set of
// error codes eligible for an automatic direct-play fallback.
func (e *Error) Recoverable() bool {
	return e.Code == CodeDecode || e.Code == CodeUnsupported
}

// Player encapsulates the required capabilities of a media playback handle.
type Player interface {
	// Start launches the playback engine in idle state. The engine stays alive
	// across source swaps until Close is called.
	Start(title string) error

	// SetSource swaps the active media source in place, optionally starting at
	// an absolute offset in seconds. The handle itself is never recreated.
	SetSource(url string, startAt float64) error

	// Play resumes rendering of the active source.
	Play() error

	// Pause suspends rendering without releasing the source.
	Pause() error

	// Seek transitions the playback position to an absolute timestamp in seconds.
	Seek(seconds float64) error

	// CurrentTime retrieves the current absolute playback position in seconds.
	CurrentTime() (float64, error)

	// Duration retrieves the total temporal length of the active source in seconds.
	Duration() (float64, error)

	// Paused retrieves the current suspension state of the playback engine.
	Paused() (bool, error)

	// BufferedRanges reports the spans of media already delivered and playable.
	BufferedRanges() ([]TimeRange, error)

	// ForceBitrate pins adaptive stream selection to the rendition with the
	// given bandwidth; None restores automatic adaptation.
	ForceBitrate(bandwidth mo.Option[int]) error

	// Subscribe registers an observer for player events and returns a
	// deregistration closure.
	Subscribe(fn func(Event)) (func(), error)

	// Running validates the liveness of the underlying playback engine.
	Running() bool

	// Close terminates the playback engine and releases all associated resources.
	Close() error
}
