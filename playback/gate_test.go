package playback

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBufferGate(t *testing.T) {
	Convey("Given a buffer gate with an 8s initial and 5s resume threshold", t, func() {
		gate := NewBufferGate(8, 5)

		Convey("it starts held", func() {
			So(gate.Waiting(), ShouldBeTrue)
			So(gate.Started(), ShouldBeFalse)
		})

		Convey("data arrival below the initial threshold keeps it held", func() {
			So(gate.OnBuffered(4), ShouldEqual, GateNone)
			So(gate.Waiting(), ShouldBeTrue)
		})

		Convey("the initial-buffer condition resolves on data arrival while paused", func() {
			So(gate.OnBuffered(4), ShouldEqual, GateNone)
			So(gate.OnBuffered(9), ShouldEqual, GateResume)
			So(gate.Waiting(), ShouldBeFalse)
			So(gate.Started(), ShouldBeTrue)

			Convey("and leaves waiting exactly once per recovery", func() {
				So(gate.OnBuffered(10), ShouldEqual, GateNone)
				So(gate.OnBuffered(11), ShouldEqual, GateNone)
			})
		})

		Convey("after starting, running low mid-stream holds playback", func() {
			gate.OnBuffered(9)
			So(gate.OnProgress(5), ShouldEqual, GateHold)
			So(gate.Waiting(), ShouldBeTrue)

			Convey("and recovery uses the smaller resume threshold", func() {
				So(gate.OnBuffered(9.5), ShouldEqual, GateNone)
				So(gate.OnBuffered(10.5), ShouldEqual, GateResume)
			})
		})

		Convey("auto-resume never fires for a user-initiated pause", func() {
			gate.OnBuffered(9)
			So(gate.OnPause(true), ShouldEqual, GateNone)
			gate.OnProgress(5)
			So(gate.OnBuffered(30), ShouldEqual, GateNone)

			Convey("until the user explicitly presses play", func() {
				So(gate.OnPause(false), ShouldEqual, GateNone)
				So(gate.OnProgress(5.1), ShouldEqual, GateNone)
			})
		})

		Convey("a user pause suppresses mid-stream holds", func() {
			gate.OnBuffered(9)
			gate.OnPause(true)
			So(gate.OnProgress(8.9), ShouldEqual, GateNone)
		})

		Convey("a user play while the gate is holding re-issues the hold", func() {
			So(gate.OnBuffered(2), ShouldEqual, GateNone)
			So(gate.OnPause(false), ShouldEqual, GateHold)
			So(gate.Waiting(), ShouldBeTrue)

			Convey("and progress against the short buffer keeps holding", func() {
				So(gate.OnProgress(1.5), ShouldEqual, GateHold)
			})

			Convey("until the data catches up", func() {
				So(gate.OnBuffered(9.6), ShouldEqual, GateResume)
				So(gate.Waiting(), ShouldBeFalse)
			})
		})

		Convey("reset returns it to the held state with a fresh threshold", func() {
			gate.OnBuffered(9)
			gate.OnPause(true)
			gate.Reset(5)
			So(gate.Waiting(), ShouldBeTrue)
			So(gate.Started(), ShouldBeFalse)
			So(gate.OnBuffered(6), ShouldEqual, GateResume)
		})

		Convey("buffer ahead is clamped at zero", func() {
			gate.OnBuffered(3)
			gate.OnProgress(5)
			So(gate.BufferAhead(), ShouldEqual, 0)
		})
	})
}
