package playback

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/player"
	"github.com/reeler-cli/reeler/stream"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

// fakePlayer scripts the player handle contract. It never emits events on its
// own; tests feed notifications through emit.
type fakePlayer struct {
	mu         sync.Mutex
	subscriber func(player.Event)

	sources  []string
	startAts []float64
	seeks    []float64
	bitrates []mo.Option[int]
	paused   bool
	closed   bool
}

func (p *fakePlayer) Start(string) error { return nil }

func (p *fakePlayer) SetSource(url string, startAt float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources = append(p.sources, url)
	p.startAts = append(p.startAts, startAt)
	return nil
}

func (p *fakePlayer) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = false
	return nil
}

func (p *fakePlayer) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	return nil
}

func (p *fakePlayer) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, seconds)
	return nil
}

func (p *fakePlayer) CurrentTime() (float64, error)              { return 0, nil }
func (p *fakePlayer) Duration() (float64, error)                 { return 0, nil }
func (p *fakePlayer) Paused() (bool, error)                      { return p.paused, nil }
func (p *fakePlayer) BufferedRanges() ([]player.TimeRange, error) { return nil, nil }

func (p *fakePlayer) ForceBitrate(bandwidth mo.Option[int]) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bitrates = append(p.bitrates, bandwidth)
	return nil
}

func (p *fakePlayer) Subscribe(fn func(player.Event)) (func(), error) {
	p.subscriber = fn
	return func() {}, nil
}

func (p *fakePlayer) Running() bool { return !p.closed }

func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

func (p *fakePlayer) emit(e player.Event) {
	p.subscriber(e)
}

func (p *fakePlayer) lastSource() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sources) == 0 {
		return ""
	}
	return p.sources[len(p.sources)-1]
}

func (p *fakePlayer) lastStartAt() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.startAts) == 0 {
		return -1
	}
	return p.startAts[len(p.startAts)-1]
}

func (p *fakePlayer) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

type playCall struct {
	mediaID string
	direct  bool
}

// fakeService scripts the remote streaming service.
type fakeService struct {
	mu           sync.Mutex
	playCalls    []playCall
	restartCalls []float64
	failPlay     error
	failRestart  error
	next         int
}

func (s *fakeService) RequestPlay(mediaID string, direct bool) (*stream.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playCalls = append(s.playCalls, playCall{mediaID, direct})
	if s.failPlay != nil {
		return nil, s.failPlay
	}
	s.next++
	if direct {
		return &stream.Session{DirectURL: "http://srv/library/file/" + mediaID, Status: stream.StatusCompleted}, nil
	}
	return &stream.Session{
		ID:          fmt.Sprintf("sess-%d", s.next),
		ManifestURL: fmt.Sprintf("http://srv/video/session/sess-%d/master.m3u8", s.next),
		Status:      stream.StatusActive,
	}, nil
}

func (s *fakeService) RestartAt(sessionID string, startTime float64) (*stream.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restartCalls = append(s.restartCalls, startTime)
	if s.failRestart != nil {
		return nil, s.failRestart
	}
	s.next++
	return &stream.Session{
		ID:          fmt.Sprintf("sess-%d", s.next),
		ManifestURL: fmt.Sprintf("http://srv/video/session/sess-%d/master.m3u8", s.next),
		Status:      stream.StatusActive,
	}, nil
}

func (s *fakeService) FetchManifest(string) (*stream.Manifest, error) {
	return ladder(), nil
}

func (s *fakeService) plays() []playCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]playCall(nil), s.playCalls...)
}

func (s *fakeService) restarts() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.restartCalls...)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func testParams() Params {
	return Params{MinBufferStart: 8, MinBufferResume: 5, SeekRestartThreshold: 10}
}

func directItem() *catalog.Item {
	return &catalog.Item{
		ID:   "m-1",
		Name: "Directly Playable Movie",
		File: catalog.MediaFile{Container: "mp4", VideoCodec: "h264", AudioCodec: "aac", Duration: 3600, Height: 1080},
	}
}

func transcodeItem() *catalog.Item {
	return &catalog.Item{
		ID:   "m-2",
		Name: "HEVC Movie",
		File: catalog.MediaFile{Container: "mp4", VideoCodec: "h265", AudioCodec: "aac", Duration: 3600, Height: 2160},
	}
}

func TestControllerAutoMode(t *testing.T) {
	Convey("Given a coordinator in auto mode", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())

		Convey("an h265 file goes straight to transcoding, never attempting direct", func() {
			So(c.Load(transcodeItem(), ModeAuto), ShouldBeNil)
			calls := svc.plays()
			So(calls, ShouldHaveLength, 1)
			So(calls[0].direct, ShouldBeFalse)
			So(p.lastSource(), ShouldContainSubstring, "master.m3u8")

			snap := c.Snapshot()
			So(snap.Compat.CanDirectPlay, ShouldBeFalse)
			So(snap.Compat.Reason, ShouldContainSubstring, "h265")
			So(snap.EffectiveDirect, ShouldBeFalse)
			So(snap.Phase, ShouldEqual, PhaseLoading)
		})

		Convey("an h264/aac file attempts direct play", func() {
			So(c.Load(directItem(), ModeAuto), ShouldBeNil)
			calls := svc.plays()
			So(calls, ShouldHaveLength, 1)
			So(calls[0].direct, ShouldBeTrue)
			So(c.Snapshot().EffectiveDirect, ShouldBeTrue)
		})

		Convey("a failed session request surfaces and leaves no session", func() {
			svc.failPlay = fmt.Errorf("service unavailable")
			So(c.Load(directItem(), ModeAuto), ShouldNotBeNil)
			snap := c.Snapshot()
			So(snap.Phase, ShouldEqual, PhaseNoSession)
			So(snap.HasSession, ShouldBeFalse)
			So(snap.Err, ShouldNotBeNil)
		})
	})
}

func TestControllerBufferGating(t *testing.T) {
	Convey("Given a loaded transcoding session", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(transcodeItem(), ModeAuto), ShouldBeNil)

		Convey("the source attaches paused", func() {
			So(p.isPaused(), ShouldBeTrue)
			So(c.Snapshot().Waiting, ShouldBeTrue)
		})

		Convey("playback is released once the initial buffer fills", func() {
			p.emit(player.Event{Kind: player.EventBuffered, Float: 4})
			So(p.isPaused(), ShouldBeTrue)

			p.emit(player.Event{Kind: player.EventBuffered, Float: 9})
			So(p.isPaused(), ShouldBeFalse)
			So(c.Snapshot().Phase, ShouldEqual, PhasePlaying)

			Convey("and held again when the playhead closes on delivered data", func() {
				p.emit(player.Event{Kind: player.EventTimePos, Float: 6})
				So(p.isPaused(), ShouldBeTrue)
				So(c.Snapshot().Waiting, ShouldBeTrue)

				p.emit(player.Event{Kind: player.EventBuffered, Float: 12})
				So(p.isPaused(), ShouldBeFalse)
			})

			Convey("but a user pause is never auto-resumed", func() {
				p.emit(player.Event{Kind: player.EventPause, Bool: true})
				p.paused = true
				p.emit(player.Event{Kind: player.EventTimePos, Float: 6})
				p.emit(player.Event{Kind: player.EventBuffered, Float: 60})
				So(p.isPaused(), ShouldBeTrue)
			})
		})

		Convey("a user play during the initial hold is re-held immediately", func() {
			p.emit(player.Event{Kind: player.EventBuffered, Float: 2})
			So(c.TogglePause(), ShouldBeNil)
			p.emit(player.Event{Kind: player.EventPause, Bool: false})

			So(p.isPaused(), ShouldBeTrue)
			So(c.Snapshot().Waiting, ShouldBeTrue)

			Convey("and progress against the short buffer keeps it held", func() {
				p.emit(player.Event{Kind: player.EventTimePos, Float: 1.5})
				So(p.isPaused(), ShouldBeTrue)
			})

			Convey("and playback releases once the initial buffer fills", func() {
				p.emit(player.Event{Kind: player.EventBuffered, Float: 12})
				So(p.isPaused(), ShouldBeFalse)
				So(c.Snapshot().Phase, ShouldEqual, PhasePlaying)
			})
		})
	})
}

func TestControllerFallback(t *testing.T) {
	Convey("Given direct playback of a compatible file", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(directItem(), ModeAuto), ShouldBeNil)
		So(c.Snapshot().EffectiveDirect, ShouldBeTrue)

		Convey("a decode error triggers exactly one fallback to transcoding", func() {
			p.emit(player.Event{Kind: player.EventError, Err: &player.Error{Code: player.CodeDecode, Message: "no decoder"}})

			So(eventually(func() bool {
				calls := svc.plays()
				return len(calls) == 2 && !calls[1].direct
			}), ShouldBeTrue)

			So(eventually(func() bool {
				snap := c.Snapshot()
				return !snap.EffectiveDirect && snap.Phase == PhaseLoading
			}), ShouldBeTrue)

			Convey("the player handle identity is preserved across the swap", func() {
				So(p.closed, ShouldBeFalse)
				So(p.lastSource(), ShouldContainSubstring, "master.m3u8")
				So(p.lastStartAt(), ShouldEqual, 0)
			})

			Convey("a second error on the transcoded stream is terminal", func() {
				p.emit(player.Event{Kind: player.EventError, Err: &player.Error{Code: player.CodeDecode, Message: "still broken"}})
				So(c.Snapshot().Err, ShouldNotBeNil)
				So(svc.plays(), ShouldHaveLength, 2)
			})
		})

		Convey("a network error never triggers a fallback", func() {
			p.emit(player.Event{Kind: player.EventError, Err: &player.Error{Code: player.CodeNetwork, Message: "timeout"}})
			So(svc.plays(), ShouldHaveLength, 1)
			So(c.Snapshot().Err, ShouldNotBeNil)
		})
	})

	Convey("Given an explicit direct-mode selection", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(directItem(), ModeDirect), ShouldBeNil)

		Convey("the swapped session governs the delivery path after a fallback", func() {
			p.emit(player.Event{Kind: player.EventError, Err: &player.Error{Code: player.CodeDecode, Message: "no decoder"}})

			So(eventually(func() bool { return !c.Snapshot().EffectiveDirect }), ShouldBeTrue)

			snap := c.Snapshot()
			So(snap.Mode, ShouldEqual, ModeDirect)
			So(snap.HasSession, ShouldBeTrue)
			So(p.lastSource(), ShouldContainSubstring, "master.m3u8")

			Convey("and large seeks on the swapped session restart the encoder", func() {
				p.emit(player.Event{Kind: player.EventBuffered, Float: 12})
				p.emit(player.Event{Kind: player.EventTimePos, Float: 60})

				So(c.Seek(500), ShouldBeNil)
				So(eventually(func() bool { return len(svc.restarts()) == 1 }), ShouldBeTrue)
				So(svc.restarts()[0], ShouldEqual, 500)
			})
		})
	})
}

func TestControllerModeSwitch(t *testing.T) {
	Convey("Given direct playback", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(directItem(), ModeAuto), ShouldBeNil)

		Convey("switching to transcode resets the playhead to zero", func() {
			p.emit(player.Event{Kind: player.EventBuffered, Float: 9})
			p.emit(player.Event{Kind: player.EventTimePos, Float: 120})

			So(c.SetMode(ModeTranscode), ShouldBeNil)

			So(eventually(func() bool { return c.Snapshot().Mode == ModeTranscode }), ShouldBeTrue)
			So(svc.plays(), ShouldHaveLength, 2)
			So(p.lastSource(), ShouldContainSubstring, "master.m3u8")
			So(p.lastStartAt(), ShouldEqual, 0)
			So(c.Snapshot().Position, ShouldEqual, 0)

			Convey("and switching back to direct drops the prior session id", func() {
				So(c.SetMode(ModeDirect), ShouldBeNil)
				So(eventually(func() bool { return c.Snapshot().Mode == ModeDirect }), ShouldBeTrue)
				So(c.Snapshot().EffectiveDirect, ShouldBeTrue)
				So(p.lastSource(), ShouldContainSubstring, "/library/file/")
			})
		})

		Convey("a failed switch stays in the prior mode on the last good source", func() {
			svc.failPlay = fmt.Errorf("encoder refused")
			before := p.lastSource()

			So(c.SetMode(ModeTranscode), ShouldBeNil)
			So(eventually(func() bool { return c.Snapshot().Err != nil }), ShouldBeTrue)

			snap := c.Snapshot()
			So(snap.Mode, ShouldEqual, ModeAuto)
			So(snap.EffectiveDirect, ShouldBeTrue)
			So(p.lastSource(), ShouldEqual, before)
		})

		Convey("a second switch while one is pending is rejected, not queued", func() {
			So(c.SetMode(ModeTranscode), ShouldBeNil)
			err := c.SetMode(ModeDirect)
			if err == nil {
				// The first switch may already have settled; only an
				// unsettled switch must reject the overlap.
				So(eventually(func() bool { return c.Snapshot().Mode == ModeDirect }), ShouldBeTrue)
			} else {
				So(err.Error(), ShouldContainSubstring, "in flight")
			}
		})
	})
}

func TestControllerSeekRestart(t *testing.T) {
	Convey("Given transcoded playback in progress", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(transcodeItem(), ModeAuto), ShouldBeNil)
		p.emit(player.Event{Kind: player.EventBuffered, Float: 12})
		p.emit(player.Event{Kind: player.EventTimePos, Float: 60})

		Convey("a seek below the threshold stays on native seeking", func() {
			So(c.Seek(65), ShouldBeNil)
			So(svc.restarts(), ShouldBeEmpty)
			So(p.seeks, ShouldResemble, []float64{65})
		})

		Convey("a seek at or beyond the threshold restarts the encoder once", func() {
			So(c.Seek(300), ShouldBeNil)

			So(eventually(func() bool { return len(svc.restarts()) == 1 }), ShouldBeTrue)
			So(svc.restarts()[0], ShouldEqual, 300)
			So(eventually(func() bool { return p.lastStartAt() == 0 && c.Snapshot().Position == 300 }), ShouldBeTrue)

			Convey("positions map back into media time after the restart", func() {
				p.emit(player.Event{Kind: player.EventTimePos, Float: 2})
				So(c.Snapshot().Position, ShouldEqual, 302)
			})
		})

		Convey("a failed restart leaves playback on the last good source", func() {
			svc.failRestart = fmt.Errorf("encoder busy")
			before := p.lastSource()

			So(c.Seek(300), ShouldBeNil)
			So(eventually(func() bool { return c.Snapshot().Err != nil }), ShouldBeTrue)
			So(p.lastSource(), ShouldEqual, before)
		})

		Convey("player-reported seeks are coordinated too", func() {
			p.emit(player.Event{Kind: player.EventSeeking, Bool: true})
			p.emit(player.Event{Kind: player.EventTimePos, Float: 200})

			So(eventually(func() bool { return len(svc.restarts()) == 1 }), ShouldBeTrue)
			So(svc.restarts()[0], ShouldEqual, 200)
		})
	})

	Convey("A resume seek issued right after load restarts the encoder", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(transcodeItem(), ModeTranscode), ShouldBeNil)

		So(c.Seek(1800), ShouldBeNil)

		So(eventually(func() bool { return len(svc.restarts()) == 1 }), ShouldBeTrue)
		So(svc.restarts()[0], ShouldEqual, 1800)
		So(eventually(func() bool { return p.lastStartAt() == 0 && c.Snapshot().Position == 1800 }), ShouldBeTrue)
		So(p.seeks, ShouldBeEmpty)
	})

	Convey("Seek notifications before playback ever started are ignored", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(transcodeItem(), ModeAuto), ShouldBeNil)

		p.emit(player.Event{Kind: player.EventSeeking, Bool: true})
		p.emit(player.Event{Kind: player.EventTimePos, Float: 50})

		time.Sleep(50 * time.Millisecond)
		So(svc.restarts(), ShouldBeEmpty)
	})

	Convey("Direct playback never issues seek restarts", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(directItem(), ModeAuto), ShouldBeNil)
		p.emit(player.Event{Kind: player.EventBuffered, Float: 9})
		p.emit(player.Event{Kind: player.EventTimePos, Float: 60})

		So(c.Seek(600), ShouldBeNil)
		So(svc.restarts(), ShouldBeEmpty)
		So(p.seeks, ShouldResemble, []float64{600})
	})
}

func TestControllerQuality(t *testing.T) {
	Convey("Given transcoded playback", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())
		So(c.Load(transcodeItem(), ModeAuto), ShouldBeNil)

		Convey("the menu builds once the source loads", func() {
			p.emit(player.Event{Kind: player.EventFileLoaded})
			So(eventually(func() bool { return len(c.QualityOptions()) == 4 }), ShouldBeTrue)
			So(c.QualityOptions()[0].Label, ShouldEqual, "Auto")

			Convey("repeated load notifications do not rebuild it", func() {
				p.emit(player.Event{Kind: player.EventFileLoaded})
				time.Sleep(50 * time.Millisecond)
				So(c.QualityOptions(), ShouldHaveLength, 4)
			})

			Convey("selecting a rendition pins the player to its bandwidth", func() {
				So(c.SelectQuality(1), ShouldBeNil)
				So(p.bitrates, ShouldHaveLength, 1)
				So(p.bitrates[0].MustGet(), ShouldEqual, 5_000_000)

				Convey("and Auto releases the pin", func() {
					So(c.SelectQuality(0), ShouldBeNil)
					So(p.bitrates[1].IsAbsent(), ShouldBeTrue)
				})
			})
		})
	})
}

func TestControllerProgressAndLifecycle(t *testing.T) {
	Convey("Given a coordinator with a progress collaborator", t, func() {
		p := &fakePlayer{}
		svc := &fakeService{}
		c := NewController(p, svc, testParams())

		var mu sync.Mutex
		var updates []ProgressUpdate
		c.SetProgressFunc(func(u ProgressUpdate) {
			mu.Lock()
			updates = append(updates, u)
			mu.Unlock()
		})

		So(c.Load(directItem(), ModeAuto), ShouldBeNil)

		Convey("playhead advances notify the collaborator", func() {
			p.emit(player.Event{Kind: player.EventBuffered, Float: 9})
			p.emit(player.Event{Kind: player.EventTimePos, Float: 42})

			mu.Lock()
			defer mu.Unlock()
			So(updates, ShouldHaveLength, 1)
			So(updates[0].MediaID, ShouldEqual, "m-1")
			So(updates[0].Position, ShouldEqual, 42)
			So(updates[0].Duration, ShouldEqual, 3600)
		})

		Convey("end of playback reports completion", func() {
			p.emit(player.Event{Kind: player.EventEnd})

			mu.Lock()
			defer mu.Unlock()
			So(updates, ShouldHaveLength, 1)
			So(updates[0].Ended, ShouldBeTrue)
			So(c.Snapshot().Ended, ShouldBeTrue)
		})

		Convey("reset returns to the pre-playback state without closing the handle", func() {
			So(c.Reset(), ShouldBeNil)
			snap := c.Snapshot()
			So(snap.Phase, ShouldEqual, PhaseNoSession)
			So(snap.HasSession, ShouldBeFalse)
			So(p.closed, ShouldBeFalse)

			Convey("and the handle accepts a fresh load", func() {
				So(c.Load(transcodeItem(), ModeAuto), ShouldBeNil)
				So(c.Snapshot().Phase, ShouldEqual, PhaseLoading)
			})
		})

		Convey("close shuts the handle down and rejects further loads", func() {
			So(c.Close(), ShouldBeNil)
			So(p.closed, ShouldBeTrue)
			So(c.Load(directItem(), ModeAuto), ShouldNotBeNil)
		})
	})
}
