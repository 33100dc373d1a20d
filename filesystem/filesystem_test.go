package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestBackendSwitch(t *testing.T) {
	Convey("Filesystem backend", t, func() {
		Convey("SetMemMapFs should activate an in-memory backend", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")

			err := API().WriteFile("/probe", []byte("x"), 0644)
			So(err, ShouldBeNil)

			exists, err := API().Exists("/probe")
			So(err, ShouldBeNil)
			So(exists, ShouldBeTrue)
		})

		Convey("SetOsFs should restore the native backend", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
			SetMemMapFs()
		})
	})
}
