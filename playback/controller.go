package playback

import (
	"fmt"
	"sync"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/log"
	"github.com/reeler-cli/reeler/player"
	"github.com/reeler-cli/reeler/stream"
	"github.com/spf13/viper"
)

// Params are the policy tunables of the coordinator.
type Params struct {
	// MinBufferStart is the buffer required before the first frame renders,
	// also used after a fallback swap. Larger than the resume threshold to
	// give the encoder a head start.
	MinBufferStart float64

	// MinBufferResume is the buffer required to lift a mid-stream hold and
	// after a mode-switch or seek-restart swap.
	MinBufferResume float64

	// SeekRestartThreshold is the seek distance in seconds beyond which the
	// remote encoder restarts from the new offset.
	SeekRestartThreshold float64
}

// ParamsFromConfig reads the tunables from the application configuration.
func ParamsFromConfig() Params {
	return Params{
		MinBufferStart:       viper.GetFloat64(key.PlaybackMinBufferStart),
		MinBufferResume:      viper.GetFloat64(key.PlaybackMinBufferResume),
		SeekRestartThreshold: viper.GetFloat64(key.PlaybackSeekRestartThreshold),
	}
}

// ProgressUpdate is the playback-progress notification consumed by
// collaborators for watch-history and play-count tracking.
type ProgressUpdate struct {
	MediaID  string
	Position float64
	Duration float64
	Ended    bool
}

// Snapshot is a point-in-time copy of the coordinator state for rendering.
type Snapshot struct {
	Title           string
	Mode            Mode
	EffectiveDirect bool
	Phase           Phase
	Compat          Compatibility
	HasSession      bool
	SessionStatus   stream.Status
	Position        float64
	Duration        float64
	BufferAhead     float64
	Waiting         bool
	Paused          bool
	Ended           bool
	Err             error
}

// Controller is the top-level state machine orchestrating mode transitions,
// buffering, seeking, quality overrides and failure recovery across one
// persistent player handle. The handle is never disposed during a transition;
// sources are swapped in place so registered observers survive.
//
// All state lives behind one mutex, so a read-modify-write like toggling the
// gate's waiting flag completes atomically within one event handler. Remote
// operations run asynchronously under a single-slot in-flight guard: a second
// operation while one is outstanding is rejected, never queued. Every async
// completion re-checks a generation counter before mutating state, so a
// response that arrives after the handle moved on to another load is dropped.
type Controller struct {
	mu sync.Mutex

	player   player.Player
	sessions *SessionManager
	gate     *BufferGate
	seeks    *SeekCoordinator
	quality  *QualitySelector
	fallback *FallbackDetector
	params   Params

	mode   Mode
	phase  Phase
	op     operation
	compat Compatibility

	mediaID  string
	title    string
	duration float64

	// timelineOffset maps player time to media time after a seek restart:
	// the encoder produces segments timestamped from zero again, so
	// mediaTime = timelineOffset + playerTime.
	timelineOffset float64
	position       float64

	// pendingSeek marks that the player reported a seek; the next playhead
	// position is checked against the restart threshold.
	pendingSeek bool

	paused    bool
	ended     bool
	lastError error

	generation  uint64
	closed      bool
	unsubscribe func()
	onProgress  func(ProgressUpdate)
}

// NewController creates a coordinator around a player handle and a streaming
// service. The handle must already be started; the controller subscribes to
// it on the first Load.
func NewController(p player.Player, svc StreamService, params Params) *Controller {
	return &Controller{
		player:   p,
		sessions: NewSessionManager(svc),
		gate:     NewBufferGate(params.MinBufferStart, params.MinBufferResume),
		seeks:    NewSeekCoordinator(params.SeekRestartThreshold),
		quality:  NewQualitySelector(),
		fallback: NewFallbackDetector(),
		params:   params,
		mode:     ModeAuto,
		phase:    PhaseNoSession,
	}
}

// SetProgressFunc registers the collaborator notified of playback progress.
// The callback is invoked outside the controller's lock.
func (c *Controller) SetProgressFunc(fn func(ProgressUpdate)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgress = fn
}

// Load classifies the item, requests a playback handle for the given mode and
// attaches the source to the player in the held state; the buffer gate
// releases playback once the initial buffer fills.
func (c *Controller) Load(item *catalog.Item, mode Mode) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("controller is closed")
	}
	if c.op != opNone {
		c.mu.Unlock()
		return fmt.Errorf("cannot load: %s in flight", c.op)
	}

	c.generation++
	gen := c.generation

	c.mode = mode
	c.compat = Classify(item.File)
	c.mediaID = item.ID
	c.title = item.Name
	c.duration = item.File.Duration
	c.timelineOffset = 0
	c.position = 0
	c.pendingSeek = false
	c.paused = true
	c.ended = false
	c.lastError = nil
	c.phase = PhaseLoading

	c.sessions.Clear()
	c.gate.Reset(c.params.MinBufferStart)
	c.seeks.Reset()
	c.quality.Reset()
	c.fallback.Reset()

	if c.unsubscribe == nil {
		unsubscribe, err := c.player.Subscribe(c.handleEvent)
		if err != nil {
			c.phase = PhaseNoSession
			c.mu.Unlock()
			return fmt.Errorf("subscribe to player: %w", err)
		}
		c.unsubscribe = unsubscribe
	}

	direct := c.effectiveDirect()
	mediaID := c.mediaID
	reason := c.compat.Reason
	c.mu.Unlock()

	log.Infof("loading %q: mode=%s direct=%v (%s)", item.Name, mode, direct, reason)

	session, err := c.sessions.Request(mediaID, direct)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen || c.closed {
		return nil
	}

	if err != nil {
		c.phase = PhaseNoSession
		c.lastError = err
		return err
	}

	c.sessions.Adopt(session)

	if err := c.player.SetSource(session.SourceURL(), 0); err != nil {
		c.phase = PhaseNoSession
		c.lastError = err
		return err
	}

	// Hold in the paused state until the gate's initial-buffer condition resolves.
	_ = c.player.Pause()

	if direct {
		c.fallback.Arm()
	}
	return nil
}

// SetMode performs a user-driven mode switch: pause, request a new session
// for the target mode, swap the source on the existing player handle, and let
// the gate resume. A transcode target resets the playhead to zero; a direct
// target keeps the current position. On failure the prior mode stays active
// and the error is surfaced.
func (c *Controller) SetMode(target Mode) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("controller is closed")
	}
	if c.phase == PhaseNoSession {
		c.mode = target
		c.mu.Unlock()
		return nil
	}
	if target == c.mode {
		c.mu.Unlock()
		return nil
	}
	if c.op != opNone {
		c.mu.Unlock()
		return fmt.Errorf("cannot switch mode: %s in flight", c.op)
	}

	c.op = opModeSwitch
	prevPhase := c.phase
	c.phase = PhaseSwitching
	gen := c.generation
	mediaID := c.mediaID
	resumeAt := c.position

	wasDirect := c.effectiveDirect()
	targetDirect := target == ModeDirect || (target == ModeAuto && c.compat.CanDirectPlay && !c.fallback.Used())

	_ = c.player.Pause()
	c.mu.Unlock()

	go func() {
		session, err := c.sessions.Request(mediaID, targetDirect)

		c.mu.Lock()
		if c.generation != gen || c.closed {
			c.mu.Unlock()
			return
		}
		c.op = opNone

		if err != nil {
			// Remain in the prior mode on the last good source.
			c.phase = prevPhase
			c.lastError = err
			log.Warnf("mode switch to %s failed: %v", target, err)
			c.mu.Unlock()
			return
		}

		c.sessions.Adopt(session)
		c.mode = target

		startAt := 0.0
		c.timelineOffset = 0
		c.position = 0
		if targetDirect {
			// Direct play seeks natively; keep the user's place.
			startAt = resumeAt
			c.position = resumeAt
		}

		if err := c.player.SetSource(session.SourceURL(), startAt); err != nil {
			c.phase = prevPhase
			c.lastError = err
			c.mu.Unlock()
			return
		}

		c.phase = PhaseLoading
		c.pendingSeek = false
		c.gate.Reset(c.params.MinBufferResume)
		c.seeks.Reset()
		c.quality.Reset()

		if targetDirect && !wasDirect {
			c.fallback.Arm()
		}
		if !targetDirect {
			c.fallback.Disarm()
		}

		c.lastError = nil
		log.Infof("mode switched to %s (direct=%v)", target, targetDirect)
		c.mu.Unlock()
	}()

	return nil
}

// Seek moves playback to an absolute media-time position. Direct play seeks
// natively. Transcoded play seeks natively inside delivered segments and asks
// the encoder to restart for distances at or beyond the threshold.
func (c *Controller) Seek(target float64) error {
	c.mu.Lock()
	if c.closed || c.sessions.Active() == nil {
		c.mu.Unlock()
		return fmt.Errorf("nothing is playing")
	}
	if target < 0 {
		target = 0
	}

	if c.effectiveDirect() {
		defer c.mu.Unlock()
		return c.player.Seek(target)
	}

	if !c.seeks.ShouldRestart(target) {
		defer c.mu.Unlock()
		if c.seeks.InFlight() {
			return nil
		}
		return c.player.Seek(target - c.timelineOffset)
	}

	err := c.beginSeekRestartLocked(target)
	c.mu.Unlock()
	return err
}

// beginSeekRestartLocked launches the asynchronous encoder restart for a
// large seek. Caller holds the lock.
func (c *Controller) beginSeekRestartLocked(target float64) error {
	if c.op != opNone {
		return fmt.Errorf("cannot restart seek: %s in flight", c.op)
	}

	session := c.sessions.Active()
	if session == nil || session.Direct() {
		return fmt.Errorf("no transcoding session to restart")
	}

	c.op = opSeekRestart
	c.seeks.BeginRestart()
	gen := c.generation
	sessionID := session.ID

	go func() {
		fresh, err := c.sessions.Restart(sessionID, target)

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.generation != gen || c.closed {
			return
		}
		c.op = opNone
		c.seeks.EndRestart()

		if err != nil {
			// Playback stays on the last good source.
			c.lastError = err
			log.Warnf("seek restart to %.1fs failed: %v", target, err)
			return
		}

		c.sessions.Adopt(fresh)
		c.timelineOffset = target
		c.position = target
		c.pendingSeek = false

		if err := c.player.SetSource(fresh.SourceURL(), 0); err != nil {
			c.lastError = err
			return
		}

		c.phase = PhaseLoading
		c.gate.Reset(c.params.MinBufferResume)
		c.seeks.Reset()
		c.lastError = nil
		log.Infof("seek restart: encoder producing from %.1fs", target)
	}()

	return nil
}

// TogglePause flips the suspension state. The resulting player notification
// updates the gate's pause-origin bookkeeping.
func (c *Controller) TogglePause() error {
	c.mu.Lock()
	paused := c.paused
	c.mu.Unlock()

	if paused {
		return c.player.Play()
	}
	return c.player.Pause()
}

// QualityOptions returns the quality menu, Auto first. Empty until the
// rendition ladder of a transcoding session has been seen.
func (c *Controller) QualityOptions() []QualityOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quality.Options()
}

// SelectedQuality returns the index of the active quality entry.
func (c *Controller) SelectedQuality() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quality.Selected()
}

// SelectQuality activates the menu entry at index, pinning the adaptive
// engine to that rendition; index 0 restores automatic adaptation.
func (c *Controller) SelectQuality(index int) error {
	c.mu.Lock()
	bandwidth, err := c.quality.Select(index)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.player.ForceBitrate(bandwidth)
}

// Snapshot returns a copy of the coordinator state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Title:           c.title,
		Mode:            c.mode,
		EffectiveDirect: c.effectiveDirect(),
		Phase:           c.phase,
		Compat:          c.compat,
		Position:        c.position,
		Duration:        c.duration,
		BufferAhead:     c.gate.BufferAhead(),
		Waiting:         c.gate.Waiting(),
		Paused:          c.paused,
		Ended:           c.ended,
		Err:             c.lastError,
	}
	if session := c.sessions.Active(); session != nil {
		snap.HasSession = true
		snap.SessionStatus = session.Status
	}
	return snap
}

// Reset tears playback down to the pre-playback state: the session is
// dropped, component state clears, and any in-flight response is orphaned.
// The player handle itself stays alive for the next Load.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.generation++
	c.op = opNone
	c.phase = PhaseNoSession
	c.mode = ModeAuto
	c.compat = Compatibility{}
	c.mediaID = ""
	c.title = ""
	c.duration = 0
	c.timelineOffset = 0
	c.position = 0
	c.pendingSeek = false
	c.ended = false
	c.lastError = nil

	c.sessions.Clear()
	c.gate.Reset(c.params.MinBufferStart)
	c.seeks.Reset()
	c.quality.Reset()
	c.fallback.Reset()

	return c.player.Pause()
}

// Close invalidates the controller and shuts down the player handle.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.generation++
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	return c.player.Close()
}

// effectiveDirect resolves the actual delivery path. Caller holds the lock.
// With a live session the path is whatever that session delivers, so a
// consumed fallback reports transcoding even under an explicit Direct
// selection and seeks stay coordinated on the swapped source. With no session
// the mode's intent decides: Auto defers to the compatibility verdict unless
// the one fallback already fired.
func (c *Controller) effectiveDirect() bool {
	if session := c.sessions.Active(); session != nil {
		return session.Direct()
	}
	switch c.mode {
	case ModeDirect:
		return true
	case ModeTranscode:
		return false
	default:
		return c.compat.CanDirectPlay && !c.fallback.Used()
	}
}

// handleEvent dispatches a player notification into the coordinator. It runs
// on the player's listener goroutine; progress callbacks are invoked after
// the lock is released.
func (c *Controller) handleEvent(e player.Event) {
	var progress *ProgressUpdate
	var notify func(ProgressUpdate)

	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	switch e.Kind {
	case player.EventFileLoaded:
		c.onFileLoadedLocked()

	case player.EventTimePos:
		progress = c.onTimePosLocked(e.Float)

	case player.EventBuffered:
		c.applyGateLocked(c.gate.OnBuffered(e.Float))

	case player.EventPause:
		c.paused = e.Bool
		c.applyGateLocked(c.gate.OnPause(e.Bool))

	case player.EventSeeking:
		if e.Bool && !c.effectiveDirect() {
			c.pendingSeek = true
		}

	case player.EventEnd:
		c.ended = true
		c.paused = true
		progress = &ProgressUpdate{
			MediaID:  c.mediaID,
			Position: c.duration,
			Duration: c.duration,
			Ended:    true,
		}

	case player.EventError:
		c.onErrorLocked(e.Err)
	}

	notify = c.onProgress
	c.mu.Unlock()

	if progress != nil && notify != nil {
		notify(*progress)
	}
}

// onFileLoadedLocked handles a source becoming ready: records its duration
// and, for transcoded playback, builds the quality menu from the manifest
// exactly once per load.
func (c *Controller) onFileLoadedLocked() {
	if c.duration <= 0 {
		if d, err := c.player.Duration(); err == nil && d > 0 {
			c.duration = d
		}
	}

	session := c.sessions.Active()
	if session == nil || session.Direct() || c.quality.Built() {
		return
	}

	gen := c.generation
	manifestURL := session.ManifestURL
	go func() {
		manifest, err := c.sessions.svc.FetchManifest(manifestURL)

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.generation != gen || c.closed {
			return
		}
		if err != nil {
			log.Warnf("fetch rendition ladder: %v", err)
			return
		}
		c.quality.Build(manifest)
	}()
}

// onTimePosLocked handles a playhead advance: seek-restart detection, gate
// re-evaluation and the progress notification.
func (c *Controller) onTimePosLocked(raw float64) *ProgressUpdate {
	mediaPos := c.timelineOffset + raw

	if c.pendingSeek {
		c.pendingSeek = false
		// Seek notifications are acted on only after playback produced
		// progress; earlier ones are player startup artifacts.
		if !c.effectiveDirect() && c.seeks.Started() && c.seeks.ShouldRestart(mediaPos) {
			if err := c.beginSeekRestartLocked(mediaPos); err != nil {
				log.Debugf("seek restart skipped: %v", err)
			}
		}
	}

	c.seeks.NoteProgress(mediaPos)
	c.position = mediaPos
	c.applyGateLocked(c.gate.OnProgress(raw))

	return &ProgressUpdate{
		MediaID:  c.mediaID,
		Position: mediaPos,
		Duration: c.duration,
	}
}

// onErrorLocked applies the failure policy: exactly one automatic
// direct-to-transcode fallback per load; everything else is terminal and
// surfaced.
func (c *Controller) onErrorLocked(perr *player.Error) {
	if perr == nil {
		return
	}

	if c.effectiveDirect() && c.op == opNone && c.fallback.ShouldFallback(perr) {
		log.Warnf("direct playback failed (%s), falling back to transcoding", perr.Code)
		c.beginFallbackLocked()
		return
	}

	c.lastError = perr
	log.Errorf("playback error: %v", perr)
}

// beginFallbackLocked launches the one-shot switch to transcoding on the
// still-live player handle. Caller holds the lock; the detector's shot is
// already consumed.
func (c *Controller) beginFallbackLocked() {
	c.op = opFallback
	c.phase = PhaseSwitching
	gen := c.generation
	mediaID := c.mediaID

	go func() {
		session, err := c.sessions.Request(mediaID, false)

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.generation != gen || c.closed {
			return
		}
		c.op = opNone

		if err != nil {
			// The one shot is spent; this failure is terminal.
			c.lastError = err
			c.phase = PhasePlaying
			return
		}

		c.sessions.Adopt(session)
		c.timelineOffset = 0
		c.position = 0
		c.pendingSeek = false

		if err := c.player.SetSource(session.SourceURL(), 0); err != nil {
			c.lastError = err
			c.phase = PhasePlaying
			return
		}

		c.phase = PhaseLoading
		c.gate.Reset(c.params.MinBufferStart)
		c.seeks.Reset()
		c.quality.Reset()
		c.lastError = nil
		log.Infof("fallback complete: transcoding session %q live", session.ID)
	}()
}

// applyGateLocked enacts a gate decision on the player handle. Caller holds
// the lock.
func (c *Controller) applyGateLocked(action GateAction) {
	switch action {
	case GateHold:
		log.Debugf("buffer low (%.1fs ahead), holding playback", c.gate.BufferAhead())
		_ = c.player.Pause()
	case GateResume:
		_ = c.player.Play()
		if c.phase == PhaseLoading {
			c.phase = PhasePlaying
		}
	}
}
