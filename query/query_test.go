package query

import (
	"testing"

	"github.com/reeler-cli/reeler/filesystem"
	"github.com/reeler-cli/reeler/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestQuery(t *testing.T) {
	Convey("Given remembered library searches", t, func() {
		So(Remember("blade runner", 1), ShouldBeNil)
		So(Remember("blade runner 2049", 3), ShouldBeNil)

		Convey("a partial input suggests the most popular match first", func() {
			suggestions := SuggestMany("blade")
			So(len(suggestions), ShouldBeGreaterThanOrEqualTo, 2)
			So(suggestions[0], ShouldEqual, "blade runner 2049")
		})

		Convey("Suggest returns the top match", func() {
			s := Suggest("blade")
			So(s.IsPresent(), ShouldBeTrue)
			So(s.MustGet(), ShouldEqual, "blade runner 2049")
		})

		Convey("queries are case-insensitive", func() {
			So(Remember("  The Matrix  ", 1), ShouldBeNil)
			s := Suggest("the matrix")
			So(s.IsPresent(), ShouldBeTrue)
			So(s.MustGet(), ShouldEqual, "the matrix")
		})

		Convey("no match yields no suggestion", func() {
			So(Suggest("zzzzzz").IsAbsent(), ShouldBeTrue)
		})
	})
}
