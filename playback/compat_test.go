package playback

import (
	"testing"

	"github.com/reeler-cli/reeler/catalog"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassify(t *testing.T) {
	Convey("Given media files to classify", t, func() {
		Convey("h264/aac in mp4 plays directly", func() {
			verdict := Classify(catalog.MediaFile{Container: "mp4", VideoCodec: "h264", AudioCodec: "aac"})
			So(verdict.CanDirectPlay, ShouldBeTrue)
		})

		Convey("h265 video forces transcoding and the reason names the codec", func() {
			verdict := Classify(catalog.MediaFile{Container: "mp4", VideoCodec: "h265", AudioCodec: "aac"})
			So(verdict.CanDirectPlay, ShouldBeFalse)
			So(verdict.Reason, ShouldContainSubstring, "h265")
		})

		Convey("unsupported audio forces transcoding", func() {
			verdict := Classify(catalog.MediaFile{Container: "mkv", VideoCodec: "h264", AudioCodec: "dts"})
			So(verdict.CanDirectPlay, ShouldBeFalse)
			So(verdict.Reason, ShouldContainSubstring, "dts")
		})

		Convey("unsupported container forces transcoding", func() {
			verdict := Classify(catalog.MediaFile{Container: "avi", VideoCodec: "h264", AudioCodec: "aac"})
			So(verdict.CanDirectPlay, ShouldBeFalse)
			So(verdict.Reason, ShouldContainSubstring, "avi")
		})

		Convey("missing metadata yields a conservative verdict, not an error", func() {
			verdict := Classify(catalog.MediaFile{})
			So(verdict.CanDirectPlay, ShouldBeFalse)
			So(verdict.Reason, ShouldNotBeEmpty)
		})

		Convey("codec labels are case-insensitive", func() {
			verdict := Classify(catalog.MediaFile{Container: "MP4", VideoCodec: "H264", AudioCodec: "AAC"})
			So(verdict.CanDirectPlay, ShouldBeTrue)
		})

		Convey("classification is a pure function of the input", func() {
			f := catalog.MediaFile{Container: "webm", VideoCodec: "vp9", AudioCodec: "opus", Width: 1920, Height: 1080}
			So(Classify(f), ShouldResemble, Classify(f))
		})
	})
}
