package history

import (
	"testing"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/filesystem"
	"github.com/reeler-cli/reeler/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.PlaybackCompletionPercentage, 90)
}

func TestHistory(t *testing.T) {
	Convey("Given a library item", t, func() {
		item := catalog.Item{
			ID:   "m-100",
			Name: "Some Movie",
			Type: "movie",
			File: catalog.MediaFile{Duration: 5400},
		}

		Convey("When saving playback progress", func() {
			err := Save(&item, 40.0)
			So(err, ShouldBeNil)

			Convey("Then the item should be saved", func() {
				items, err := Get()
				So(err, ShouldBeNil)
				So(items[item.ID], ShouldNotBeNil)
				So(items[item.ID].Name, ShouldEqual, item.Name)
				So(items[item.ID].WatchedPercentage, ShouldEqual, 40.0)
			})

			Convey("And progress never regresses", func() {
				So(Save(&item, 10.0), ShouldBeNil)
				items, _ := Get()
				So(items[item.ID].WatchedPercentage, ShouldEqual, 40.0)
			})

			Convey("And crossing the completion threshold counts a play", func() {
				So(Save(&item, 95.0), ShouldBeNil)
				items, _ := Get()
				So(items[item.ID].PlayCount, ShouldEqual, 1)

				Convey("but only once per completion", func() {
					So(Save(&item, 99.0), ShouldBeNil)
					items, _ := Get()
					So(items[item.ID].PlayCount, ShouldEqual, 1)
				})
			})

			Convey("And removing deletes the record", func() {
				items, _ := Get()
				So(Remove(items[item.ID]), ShouldBeNil)
				items, _ = Get()
				So(items[item.ID], ShouldBeNil)
			})
		})
	})
}
