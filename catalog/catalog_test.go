package catalog

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestClient(t *testing.T) {
	Convey("Given a catalog server", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/library/items", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":"m1","name":"The Long Voyage","type":"Movie","file":{"height":1080,"container":"mkv","video_codec":"h265","audio_codec":"dts"}},
				{"id":"m2","name":"Short Stories","type":"Movie","file":{"height":720,"container":"mp4","video_codec":"h264","audio_codec":"aac"}}
			]`))
		})
		mux.HandleFunc("/library/items/m2", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"m2","name":"Short Stories","file":{"height":720,"video_codec":"h264"}}`))
		})
		mux.HandleFunc("/library/items/m2/rating", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewClient(srv.URL).WithHTTPClient(srv.Client())

		Convey("Items returns the library listing", func() {
			items, err := client.Items()
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 2)
			So(items[0].Name, ShouldEqual, "The Long Voyage")
			So(items[0].File.VideoCodec, ShouldEqual, "h265")
		})

		Convey("Item returns a single entity", func() {
			item, err := client.Item("m2")
			So(err, ShouldBeNil)
			So(item.File.Height, ShouldEqual, 720)
		})

		Convey("Rate posts without error", func() {
			So(client.Rate("m2", 8), ShouldBeNil)
		})

		Convey("Unknown items surface the server status", func() {
			_, err := client.Item("missing")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Given a set of library items", t, func() {
		items := []*Item{
			{ID: "1", Name: "Interstellar"},
			{ID: "2", Name: "Inter Milan: A Season"},
			{ID: "3", Name: "The Lighthouse"},
		}

		Convey("Empty query returns everything", func() {
			So(len(Search(items, "")), ShouldEqual, 3)
		})

		Convey("Fuzzy query filters and ranks by distance", func() {
			found := Search(items, "interstel")
			So(len(found), ShouldBeGreaterThanOrEqualTo, 1)
			So(found[0].Name, ShouldEqual, "Interstellar")
		})

		Convey("Non-matching query returns nothing", func() {
			So(len(Search(items, "zzzzzz")), ShouldEqual, 0)
		})
	})
}

func TestMediaFileResolution(t *testing.T) {
	Convey("Resolution labels", t, func() {
		So(MediaFile{Height: 1080}.Resolution(), ShouldEqual, "1080p")
		So(MediaFile{}.Resolution(), ShouldEqual, "unknown")
	})
}
