package playback

// GateAction is the decision a buffer check yields. The controller applies it
// to the player handle; the gate itself never touches the player, which keeps
// its policy testable from plain value sequences.
type GateAction int

const (
	// GateNone means no intervention is needed.
	GateNone GateAction = iota

	// GateHold means playback is about to outrun delivered data and must pause.
	GateHold

	// GateResume means enough data arrived and a gate-initiated pause may lift.
	GateResume
)

// BufferGate keeps playback from outrunning delivered segments without ever
// stalling forever. On every playhead or buffered-range notification it
// compares the buffer ahead of the playhead against a threshold, holding
// playback when it runs low and releasing it once it recovers.
//
// The gate starts in the held state so that an initial buffer fills before the
// first frame renders; the initial threshold is typically larger than the
// mid-stream resume threshold. Auto-resume fires only for gate-initiated
// pauses, never for a user-initiated one; the user-pause flag clears when the
// user explicitly presses play.
type BufferGate struct {
	initialThreshold float64
	resumeThreshold  float64

	position    float64
	bufferedEnd float64

	waiting    bool
	started    bool
	playing    bool
	userPaused bool
}

// NewBufferGate creates a gate in the held state with the given initial
// buffer threshold; resumeThreshold applies to mid-stream holds after
// playback has started once.
func NewBufferGate(initialThreshold, resumeThreshold float64) *BufferGate {
	return &BufferGate{
		initialThreshold: initialThreshold,
		resumeThreshold:  resumeThreshold,
		waiting:          true,
	}
}

// Reset returns the gate to the held state for a freshly swapped source.
// The next release waits for initialThreshold seconds of buffer.
func (g *BufferGate) Reset(initialThreshold float64) {
	g.initialThreshold = initialThreshold
	g.position = 0
	g.bufferedEnd = 0
	g.waiting = true
	g.started = false
	g.playing = false
	g.userPaused = false
}

// OnProgress records a playhead advance and re-evaluates the gate.
func (g *BufferGate) OnProgress(position float64) GateAction {
	g.position = position
	return g.evaluate()
}

// OnBuffered records growth of the delivered span and re-evaluates the gate.
// This runs even while paused, so the initial-buffer condition can resolve
// without a spurious play attempt.
func (g *BufferGate) OnBuffered(end float64) GateAction {
	if end > g.bufferedEnd {
		g.bufferedEnd = end
	}
	return g.evaluate()
}

// OnPause records a pause-state change reported by the player and
// re-evaluates. A pause while the gate is not holding is user-initiated and
// suppresses auto-resume until the user explicitly presses play. A user play
// while the gate is still waiting for data re-issues the hold: rendering must
// not run against an under-threshold buffer.
func (g *BufferGate) OnPause(paused bool) GateAction {
	g.playing = !paused
	if paused {
		if !g.waiting {
			g.userPaused = true
		}
		return GateNone
	}
	g.userPaused = false
	return g.evaluate()
}

// Waiting reports whether the gate is currently holding playback for data.
func (g *BufferGate) Waiting() bool {
	return g.waiting
}

// Started reports whether the gate has released playback at least once for
// the current source.
func (g *BufferGate) Started() bool {
	return g.started
}

// BufferAhead returns the span of delivered media beyond the playhead.
func (g *BufferGate) BufferAhead() float64 {
	ahead := g.bufferedEnd - g.position
	if ahead < 0 {
		return 0
	}
	return ahead
}

func (g *BufferGate) threshold() float64 {
	if !g.started {
		return g.initialThreshold
	}
	return g.resumeThreshold
}

func (g *BufferGate) evaluate() GateAction {
	ahead := g.BufferAhead()

	if g.waiting {
		if ahead < g.threshold() {
			if g.playing {
				// The player is rendering against a short buffer anyway;
				// re-issue the hold.
				return GateHold
			}
			return GateNone
		}
		g.waiting = false
		g.started = true
		if g.userPaused {
			// Buffer recovered but the pause was the user's; leave it alone.
			return GateNone
		}
		return GateResume
	}

	if g.userPaused {
		// Playback is not advancing, no risk of overrun.
		return GateNone
	}

	if ahead < g.resumeThreshold {
		g.waiting = true
		return GateHold
	}

	return GateNone
}
