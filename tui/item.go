// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/color"
	"github.com/reeler-cli/reeler/history"
	"github.com/reeler-cli/reeler/icon"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/style"
	"github.com/reeler-cli/reeler/util"
	"github.com/spf13/viper"
)

// listItem implements the list.Item interface, wrapping various domain models for terminal display.
type listItem struct {
	internal interface{}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *catalog.Item:
		verdict := playback.Classify(e.File)
		tag := icon.Get(icon.Transcode)
		if verdict.CanDirectPlay {
			tag = icon.Get(icon.Direct)
		}
		title = fmt.Sprintf("%s %s", tag, e.Name)
	case *history.SavedItem:
		title = e.Name
	case playback.QualityOption:
		title = e.Label
	case string:
		title = e
	default:
		title = t.FilterValue()
	}
	return
}

// Description retrieves the secondary metadata line for the list item.
func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *catalog.Item:
		var parts []string

		if res := e.File.Resolution(); res != "unknown" {
			parts = append(parts, res)
		}
		if e.File.VideoCodec != "" {
			parts = append(parts, fmt.Sprintf("%s/%s", e.File.VideoCodec, e.File.AudioCodec))
		}
		if e.File.Duration > 0 {
			parts = append(parts, util.FormatDuration(e.File.Duration))
		}
		if viper.GetBool(key.TUIShowCompatReason) {
			if reason := playback.Classify(e.File).Reason; reason != "" {
				parts = append(parts, style.Faint(reason))
			}
		}

		description = strings.Join(parts, " • ")
	case *history.SavedItem:
		completion := viper.GetFloat64(key.PlaybackCompletionPercentage)
		switch {
		case e.WatchedPercentage >= completion:
			description = style.Fg(color.Green)("watched") + plays(e.PlayCount)
		case e.WatchedPercentage > 0:
			description = fmt.Sprintf("%.0f%% watched", e.WatchedPercentage)
		default:
			description = "unwatched"
		}
	case playback.QualityOption:
		if bw, ok := e.Bandwidth.Get(); ok {
			description = fmt.Sprintf("%d kbps", bw/1000)
		} else {
			description = "adaptive bitrate selection"
		}
	}
	return
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *catalog.Item:
		return e.Name
	case *history.SavedItem:
		return e.Name
	case playback.QualityOption:
		return e.Label
	case string:
		return e
	default:
		return ""
	}
}

func plays(count int) string {
	if count <= 1 {
		return ""
	}
	return style.Faint(fmt.Sprintf(" • %s", util.Quantify(count, "play", "plays")))
}
