package playback

import (
	"fmt"
	"strings"

	"github.com/reeler-cli/reeler/catalog"
)

// Compatibility is the verdict on whether a file can be played without
// server-side transcoding. It is derived once per file and never mutated;
// a mode override changes its effect, not its value.
type Compatibility struct {
	CanDirectPlay bool   `json:"canDirectPlay" jsonschema:"description=Whether the file can be served byte-for-byte and decoded natively."`
	Reason        string `json:"reason" jsonschema:"description=Human-readable explanation of the verdict."`
}

// Support tables for direct playback. Anything absent from a table forces
// transcoding. Keys are lowercase.
var (
	directContainers = map[string]bool{
		"mp4":  true,
		"m4v":  true,
		"mov":  true,
		"webm": true,
		"mkv":  true,
	}

	directVideoCodecs = map[string]bool{
		"h264": true,
		"avc":  true,
		"avc1": true,
		"vp8":  true,
		"vp9":  true,
		"av1":  true,
	}

	directAudioCodecs = map[string]bool{
		"aac":    true,
		"mp3":    true,
		"opus":   true,
		"vorbis": true,
		"flac":   true,
	}
)

// Classify decides whether a file is directly playable. It is a pure function
// of the file's container and codec fields: two calls on the same input yield
// the same verdict. Missing or partial metadata produces a conservative
// "transcode" verdict rather than an error.
func Classify(f catalog.MediaFile) Compatibility {
	container := strings.ToLower(strings.TrimSpace(f.Container))
	video := strings.ToLower(strings.TrimSpace(f.VideoCodec))
	audio := strings.ToLower(strings.TrimSpace(f.AudioCodec))

	if container == "" || video == "" || audio == "" {
		return Compatibility{
			CanDirectPlay: false,
			Reason:        "incomplete media metadata, transcoding to be safe",
		}
	}

	if !directContainers[container] {
		return Compatibility{
			CanDirectPlay: false,
			Reason:        fmt.Sprintf("container %q is not directly playable", container),
		}
	}

	if !directVideoCodecs[video] {
		return Compatibility{
			CanDirectPlay: false,
			Reason:        fmt.Sprintf("video codec %q is not directly playable", video),
		}
	}

	if !directAudioCodecs[audio] {
		return Compatibility{
			CanDirectPlay: false,
			Reason:        fmt.Sprintf("audio codec %q is not directly playable", audio),
		}
	}

	return Compatibility{
		CanDirectPlay: true,
		Reason:        fmt.Sprintf("%s/%s in %s plays natively", video, audio, container),
	}
}
