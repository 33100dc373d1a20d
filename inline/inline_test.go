package inline

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeLibrary []*catalog.Item

func (l fakeLibrary) Items() ([]*catalog.Item, error) {
	return l, nil
}

func library() fakeLibrary {
	return fakeLibrary{
		{ID: "1", Name: "Blade Runner", File: catalog.MediaFile{Container: "mp4", VideoCodec: "h264", AudioCodec: "aac"}},
		{ID: "2", Name: "Blade Runner 2049", File: catalog.MediaFile{Container: "mkv", VideoCodec: "h265", AudioCodec: "dts"}},
	}
}

func TestWriteJson(t *testing.T) {
	Convey("writeJson", t, func() {
		Convey("Should produce valid JSON for an empty result", func() {
			var buf bytes.Buffer
			opts := &Options{Query: "test", Json: true}
			err := writeJson(&buf, nil, opts)
			So(err, ShouldBeNil)

			var output Output
			err = json.Unmarshal(buf.Bytes(), &output)
			So(err, ShouldBeNil)
			So(output.Query, ShouldEqual, "test")
			So(output.Result, ShouldHaveLength, 0)
		})

		Convey("Should attach compatibility verdicts when requested", func() {
			var buf bytes.Buffer
			opts := &Options{Query: "blade", Json: true, IncludeCompatibility: true}
			err := writeJson(&buf, library(), opts)
			So(err, ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Result, ShouldHaveLength, 2)
			So(output.Result[0].Compatibility, ShouldNotBeNil)
			So(output.Result[0].Compatibility.CanDirectPlay, ShouldBeTrue)
			So(output.Result[1].Compatibility.CanDirectPlay, ShouldBeFalse)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Run", t, func() {
		Convey("searches the library and writes one line per item", func() {
			var buf bytes.Buffer
			err := Run(&Options{Out: &buf, Library: library(), Query: "blade runner"})
			So(err, ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Blade Runner")
			So(buf.String(), ShouldContainSubstring, "2049")
		})

		Convey("a picker narrows the result to one item", func() {
			picker, err := ParseItemPicker("first", "")
			So(err, ShouldBeNil)

			var buf bytes.Buffer
			err = Run(&Options{
				Out:        &buf,
				Library:    library(),
				Query:      "blade runner",
				ItemPicker: mo.Some(picker),
			})
			So(err, ShouldBeNil)
			So(buf.String(), ShouldNotContainSubstring, "2049")
		})

		Convey("unknown picker kinds fail to parse", func() {
			_, err := ParseItemPicker("median", "")
			So(err, ShouldNotBeNil)
		})
	})
}
