package stream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const masterPlaylist = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-STREAM-INF:BANDWIDTH=6000000,RESOLUTION=1920x1080,CODECS="avc1.640028,mp4a.40.2"
1080p/stream.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=3000000,RESOLUTION=1280x720
720p/stream.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1500000,RESOLUTION=854x480
480p/stream.m3u8
`

func TestParseMaster(t *testing.T) {
	Convey("ParseMaster", t, func() {
		Convey("Should extract the rendition ladder", func() {
			manifest, err := ParseMaster(masterPlaylist)
			So(err, ShouldBeNil)
			So(len(manifest.Renditions), ShouldEqual, 3)

			So(manifest.Renditions[0].Height, ShouldEqual, 1080)
			So(manifest.Renditions[0].Bandwidth, ShouldEqual, 6000000)
			So(manifest.Renditions[0].URI, ShouldEqual, "1080p/stream.m3u8")
			So(manifest.Renditions[1].Label(), ShouldEqual, "720p")
		})

		Convey("Should reject a document without the #EXTM3U header", func() {
			_, err := ParseMaster("#EXT-X-STREAM-INF:BANDWIDTH=1\nx.m3u8\n")
			So(err, ShouldNotBeNil)
		})

		Convey("Should respect quoted commas inside attribute values", func() {
			manifest, err := ParseMaster("#EXTM3U\n#EXT-X-STREAM-INF:CODECS=\"a,b\",BANDWIDTH=900000\nlow/stream.m3u8\n")
			So(err, ShouldBeNil)
			So(len(manifest.Renditions), ShouldEqual, 1)
			So(manifest.Renditions[0].Bandwidth, ShouldEqual, 900000)
			So(manifest.Renditions[0].Label(), ShouldEqual, "900 kbps")
		})
	})
}

func TestStatus(t *testing.T) {
	Convey("Status", t, func() {
		Convey("String labels", func() {
			So(StatusLoading.String(), ShouldEqual, "Loading")
			So(StatusActive.String(), ShouldEqual, "Active")
			So(StatusCompleted.String(), ShouldEqual, "Completed")
			So(StatusError.String(), ShouldEqual, "Error")
		})

		Convey("Wire labels decode onto the enum", func() {
			var s Status
			So(json.Unmarshal([]byte(`"active"`), &s), ShouldBeNil)
			So(s, ShouldEqual, StatusActive)
			So(json.Unmarshal([]byte(`"anything-else"`), &s), ShouldBeNil)
			So(s, ShouldEqual, StatusLoading)
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a streaming server", t, func() {
		var lastSeekBody map[string]any

		mux := http.NewServeMux()
		mux.HandleFunc("/video/play", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			w.Header().Set("Content-Type", "application/json")
			if q.Get("direct") == "true" {
				_, _ = w.Write([]byte(`{"directUrl":"http://media/file.mkv"}`))
				return
			}
			_, _ = w.Write([]byte(`{"sessionId":"s1","manifestUrl":"http://media/s1/master.m3u8","status":"active"}`))
		})
		mux.HandleFunc("/video/seek", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&lastSeekBody)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"sessionId":"s2","manifestUrl":"http://media/s2/master.m3u8","status":"loading"}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		client := NewClient(srv.URL, "u1").WithHTTPClient(srv.Client())

		Convey("RequestPlay direct returns a static locator", func() {
			session, err := client.RequestPlay("m1", true)
			So(err, ShouldBeNil)
			So(session.Direct(), ShouldBeTrue)
			So(session.SourceURL(), ShouldEqual, "http://media/file.mkv")
		})

		Convey("RequestPlay transcode returns a session handle", func() {
			session, err := client.RequestPlay("m1", false)
			So(err, ShouldBeNil)
			So(session.ID, ShouldEqual, "s1")
			So(session.Direct(), ShouldBeFalse)
			So(session.Status, ShouldEqual, StatusActive)
			So(session.SourceURL(), ShouldEqual, "http://media/s1/master.m3u8")
		})

		Convey("RestartAt posts the session and offset and yields a new session", func() {
			session, err := client.RestartAt("s1", 120.5)
			So(err, ShouldBeNil)
			So(session.ID, ShouldEqual, "s2")
			So(lastSeekBody["sessionId"], ShouldEqual, "s1")
			So(lastSeekBody["startTime"], ShouldEqual, 120.5)
		})
	})
}
