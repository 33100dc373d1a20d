package version

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given version strings", t, func() {
		Convey("equal versions compare as 0", func() {
			c, err := Compare("1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("a v prefix is tolerated", func() {
			c, err := Compare("v1.2.3", "1.2.3")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("newer versions compare as 1", func() {
			for _, pair := range [][2]string{
				{"2.0.0", "1.9.9"},
				{"1.3.0", "1.2.9"},
				{"1.2.4", "1.2.3"},
			} {
				c, err := Compare(pair[0], pair[1])
				So(err, ShouldBeNil)
				So(c, ShouldEqual, 1)
			}
		})

		Convey("older versions compare as -1", func() {
			c, err := Compare("0.1.0", "0.2.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, -1)
		})

		Convey("garbage fails", func() {
			_, err := Compare("abc", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}
