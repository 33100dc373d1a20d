package playback

import (
	"testing"

	"github.com/reeler-cli/reeler/stream"
	. "github.com/smartystreets/goconvey/convey"
)

func ladder() *stream.Manifest {
	return &stream.Manifest{Renditions: []stream.Rendition{
		{URI: "v0.m3u8", Width: 1920, Height: 1080, Bandwidth: 5_000_000},
		{URI: "v1.m3u8", Width: 1280, Height: 720, Bandwidth: 2_500_000},
		{URI: "v2.m3u8", Width: 1280, Height: 720, Bandwidth: 1_800_000},
		{URI: "v3.m3u8", Width: 640, Height: 360, Bandwidth: 800_000},
	}}
}

func TestQualitySelector(t *testing.T) {
	Convey("Given a quality selector", t, func() {
		sel := NewQualitySelector()

		Convey("selecting before the menu exists fails", func() {
			_, err := sel.Select(0)
			So(err, ShouldNotBeNil)
		})

		Convey("the menu is Auto plus one entry per distinct height", func() {
			sel.Build(ladder())
			opts := sel.Options()
			So(opts, ShouldHaveLength, 4)
			So(opts[0].Label, ShouldEqual, "Auto")
			So(opts[0].Bandwidth.IsAbsent(), ShouldBeTrue)
			So(opts[1].Label, ShouldEqual, "1080p")
			So(opts[2].Label, ShouldEqual, "720p")
			So(opts[3].Label, ShouldEqual, "360p")

			Convey("duplicate heights collapse to the highest bandwidth variant", func() {
				So(opts[2].Bandwidth.MustGet(), ShouldEqual, 2_500_000)
			})

			Convey("repeated rendition notifications do not rebuild the menu", func() {
				sel.Build(&stream.Manifest{Renditions: []stream.Rendition{{Height: 480, Bandwidth: 1}}})
				So(sel.Options(), ShouldHaveLength, 4)
			})

			Convey("selecting a rendition pins its bandwidth", func() {
				bw, err := sel.Select(1)
				So(err, ShouldBeNil)
				So(bw.MustGet(), ShouldEqual, 5_000_000)
				So(sel.Selected(), ShouldEqual, 1)

				Convey("and reselecting Auto restores adaptation", func() {
					bw, err := sel.Select(0)
					So(err, ShouldBeNil)
					So(bw.IsAbsent(), ShouldBeTrue)
				})
			})

			Convey("out-of-range selection fails", func() {
				_, err := sel.Select(9)
				So(err, ShouldNotBeNil)
			})

			Convey("reset allows a fresh menu for the next load", func() {
				sel.Reset()
				So(sel.Built(), ShouldBeFalse)
				sel.Build(&stream.Manifest{Renditions: []stream.Rendition{{Height: 480, Bandwidth: 1_000_000}}})
				So(sel.Options(), ShouldHaveLength, 2)
			})
		})
	})
}
