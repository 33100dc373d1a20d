// Package catalog defines the domain models and the client for the remote media cataloging service.
package catalog

import (
	"fmt"
	"strings"
)

// MediaFile carries the technical characteristics of a library file as probed by the server.
// It is immutable client-side; the compatibility verdict derived from it is computed once and never revised.
type MediaFile struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Duration   float64 `json:"duration"`
	Container  string  `json:"container"`
	VideoCodec string  `json:"video_codec"`
	AudioCodec string  `json:"audio_codec"`
	Bitrate    int64   `json:"bitrate"`
	FrameRate  float64 `json:"frame_rate"`
	Size       int64   `json:"size"`
}

// Resolution renders the conventional vertical-resolution label for the file, e.g. "1080p".
func (f MediaFile) Resolution() string {
	if f.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dp", f.Height)
}

// Item represents a playable entity in the remote library.
type Item struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Overview string    `json:"overview,omitempty"`
	Genres   []string  `json:"genres,omitempty"`
	File     MediaFile `json:"file"`

	UserRating float64 `json:"user_rating,omitempty"`
	IsFavorite bool    `json:"is_favorite,omitempty"`
	PlayCount  int     `json:"play_count,omitempty"`
}

// String implements fmt.Stringer for menu rendering.
func (i *Item) String() string {
	var b strings.Builder
	b.WriteString(i.Name)
	if res := i.File.Resolution(); res != "unknown" {
		b.WriteString(" [")
		b.WriteString(res)
		b.WriteString("]")
	}
	return b.String()
}
