package playback

import (
	"testing"

	"github.com/reeler-cli/reeler/player"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFallbackDetector(t *testing.T) {
	Convey("Given a fallback detector", t, func() {
		det := NewFallbackDetector()
		decodeErr := &player.Error{Code: player.CodeDecode, Message: "no decoder"}

		Convey("it never fires while disarmed", func() {
			So(det.ShouldFallback(decodeErr), ShouldBeFalse)
		})

		Convey("when armed", func() {
			det.Arm()

			Convey("a decode error fires exactly once", func() {
				So(det.ShouldFallback(decodeErr), ShouldBeTrue)
				So(det.Used(), ShouldBeTrue)

				Convey("and a later error is terminal, not a second fallback", func() {
					det.Arm()
					So(det.ShouldFallback(decodeErr), ShouldBeFalse)
				})
			})

			Convey("an unsupported-source error also qualifies", func() {
				So(det.ShouldFallback(&player.Error{Code: player.CodeUnsupported}), ShouldBeTrue)
			})

			Convey("network and generic errors never trigger a fallback", func() {
				So(det.ShouldFallback(&player.Error{Code: player.CodeNetwork}), ShouldBeFalse)
				So(det.ShouldFallback(&player.Error{Code: player.CodeGeneric}), ShouldBeFalse)
				So(det.Used(), ShouldBeFalse)
			})

			Convey("disarming stops detection without spending the shot", func() {
				det.Disarm()
				So(det.ShouldFallback(decodeErr), ShouldBeFalse)
				So(det.Used(), ShouldBeFalse)
			})
		})

		Convey("reset restores the one shot for a new load", func() {
			det.Arm()
			det.ShouldFallback(decodeErr)
			det.Reset()
			det.Arm()
			So(det.ShouldFallback(decodeErr), ShouldBeTrue)
		})
	})
}
