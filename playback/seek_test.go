package playback

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSeekCoordinator(t *testing.T) {
	Convey("Given a seek coordinator with a 10s threshold", t, func() {
		coord := NewSeekCoordinator(10)

		Convey("before any progress the distance measures from zero", func() {
			So(coord.Started(), ShouldBeFalse)
			So(coord.ShouldRestart(120), ShouldBeTrue)
			So(coord.ShouldRestart(5), ShouldBeFalse)
		})

		Convey("with playback at 60s", func() {
			coord.NoteProgress(60)
			So(coord.Started(), ShouldBeTrue)

			Convey("a 9s hop stays on native seeking", func() {
				So(coord.ShouldRestart(69), ShouldBeFalse)
				So(coord.ShouldRestart(51), ShouldBeFalse)
			})

			Convey("an 11s hop requires an encoder restart", func() {
				So(coord.ShouldRestart(71), ShouldBeTrue)
				So(coord.ShouldRestart(49), ShouldBeTrue)
			})

			Convey("the threshold itself is inclusive", func() {
				So(coord.ShouldRestart(70), ShouldBeTrue)
			})

			Convey("re-entrant notifications are ignored while a restart is in flight", func() {
				coord.BeginRestart()
				So(coord.ShouldRestart(200), ShouldBeFalse)
				coord.EndRestart()
				So(coord.ShouldRestart(200), ShouldBeTrue)
			})

			Convey("reset clears position tracking and disarms notifications", func() {
				coord.Reset()
				So(coord.Started(), ShouldBeFalse)
				So(coord.LastKnown(), ShouldEqual, 0)
			})
		})
	})
}
