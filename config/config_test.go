package config

import (
	"testing"

	"github.com/reeler-cli/reeler/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Config Setup", t, func() {
		Convey("Should initialize without error", func() {
			err := Setup()
			So(err, ShouldBeNil)
		})

		Convey("Should have default values populated", func() {
			_ = Setup()
			for name := range Default {
				So(viper.Get(name), ShouldNotBeNil)
			}
		})

		Convey("EnvKeyReplacer should convert dots to underscores", func() {
			result := EnvKeyReplacer.Replace("playback.min_buffer_start")
			So(result, ShouldEqual, "playback_min_buffer_start")
		})

		Convey("Env names should carry the application prefix", func() {
			f := Default["playback.mode"]
			So(f.Env(), ShouldEqual, "REELER_PLAYBACK_MODE")
		})
	})
}
