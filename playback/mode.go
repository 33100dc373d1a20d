// Package playback implements the adaptive playback coordinator: the decision
// and recovery logic between the remote transcoding service and the local
// player handle. It decides whether a file plays directly or through the
// server-side encoder, keeps a progressively produced stream gapless, falls
// back from direct playback to transcoding on decode failure, and restarts
// remote encoding when the user seeks outside delivered data.
package playback

import (
	"fmt"
	"strings"
)

// Mode selects how a source reaches the player handle.
type Mode int

const (
	// ModeAuto defers the direct-versus-transcode choice to the compatibility verdict.
	ModeAuto Mode = iota

	// ModeDirect serves the original file byte-for-byte, relying on native decode.
	ModeDirect

	// ModeTranscode streams through the server-side encoder regardless of compatibility.
	ModeTranscode
)

// String returns the canonical label of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeDirect:
		return "direct"
	case ModeTranscode:
		return "transcode"
	default:
		return "unknown"
	}
}

// ParseMode converts a configuration label into a Mode.
func ParseMode(label string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "auto", "":
		return ModeAuto, nil
	case "direct":
		return ModeDirect, nil
	case "transcode":
		return ModeTranscode, nil
	default:
		return ModeAuto, fmt.Errorf("unknown playback mode %q (want auto, direct or transcode)", label)
	}
}

// Phase is the coarse lifecycle position of the coordinator.
type Phase int

const (
	// PhaseNoSession means no playback handle has been requested yet, or it was torn down.
	PhaseNoSession Phase = iota

	// PhaseLoading means a handle was requested and the initial buffer is filling.
	PhaseLoading

	// PhasePlaying means the source loaded and the buffer gate released playback at least once.
	PhasePlaying

	// PhaseSwitching means a mode switch is replacing the active source.
	PhaseSwitching
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseNoSession:
		return "no session"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseSwitching:
		return "switching"
	default:
		return "unknown"
	}
}

// operation is the single-slot in-flight guard for session-producing work.
// At most one operation is active per player handle; a second request of the
// same kind is rejected, never queued.
type operation int

const (
	opNone operation = iota
	opModeSwitch
	opSeekRestart
	opFallback
)

func (o operation) String() string {
	switch o {
	case opModeSwitch:
		return "mode switch"
	case opSeekRestart:
		return "seek restart"
	case opFallback:
		return "fallback"
	default:
		return "none"
	}
}
