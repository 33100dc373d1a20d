package player

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Given media targets to validate", t, func() {
		Convey("http and https URLs pass through", func() {
			for _, link := range []string{
				"http://media.local:8080/video/session/abc/master.m3u8",
				"https://media.local/video/stream?mediaId=42",
			} {
				got, err := sanitizeMediaTarget(link)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, link)
			}
		})

		Convey("empty input is rejected", func() {
			_, err := sanitizeMediaTarget("   ")
			So(err, ShouldNotBeNil)
		})

		Convey("control characters are rejected", func() {
			_, err := sanitizeMediaTarget("http://x/a\nb")
			So(err, ShouldNotBeNil)
		})

		Convey("flag-looking input is rejected", func() {
			_, err := sanitizeMediaTarget("--vo=null")
			So(err, ShouldNotBeNil)
		})

		Convey("non-http schemes are rejected", func() {
			_, err := sanitizeMediaTarget("file:///etc/passwd")
			So(err, ShouldNotBeNil)
		})

		Convey("local paths are cleaned", func() {
			got, err := sanitizeMediaTarget("/media/./library/movie.mkv")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, "/media/library/movie.mkv")
		})
	})
}

func TestSanitizeTitle(t *testing.T) {
	Convey("Titles are flattened to a single line", t, func() {
		So(sanitizeTitle("A Movie\nSecond Line"), ShouldEqual, "A Movie Second Line")
		So(sanitizeTitle("\tpadded\r\n"), ShouldEqual, "padded")
		So(sanitizeTitle("nul\x00byte"), ShouldEqual, "nulbyte")
	})
}

func TestErrorRecoverable(t *testing.T) {
	Convey("Given playback errors", t, func() {
		Convey("decode and unsupported-source are recoverable", func() {
			So((&Error{Code: CodeDecode}).Recoverable(), ShouldBeTrue)
			So((&Error{Code: CodeUnsupported}).Recoverable(), ShouldBeTrue)
		})

		Convey("network and generic are not", func() {
			So((&Error{Code: CodeNetwork}).Recoverable(), ShouldBeFalse)
			So((&Error{Code: CodeGeneric}).Recoverable(), ShouldBeFalse)
		})
	})
}

func TestClassifyMpvError(t *testing.T) {
	Convey("Given end-file error strings from the engine", t, func() {
		Convey("decoder failures map to decode", func() {
			So(classifyMpvError("error decoding video"), ShouldEqual, CodeDecode)
			So(classifyMpvError("no video or audio streams"), ShouldEqual, CodeDecode)
		})

		Convey("format failures map to unsupported-source", func() {
			So(classifyMpvError("unrecognized file format"), ShouldEqual, CodeUnsupported)
		})

		Convey("fetch failures map to network", func() {
			So(classifyMpvError("loading failed"), ShouldEqual, CodeNetwork)
		})

		Convey("anything else maps to generic", func() {
			So(classifyMpvError("something odd"), ShouldEqual, CodeGeneric)
		})
	})
}
