// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/reeler-cli/reeler/color"
	"github.com/reeler-cli/reeler/icon"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/style"
	"github.com/reeler-cli/reeler/util"
	"github.com/spf13/viper"

	"github.com/reeler-cli/reeler/key"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	switch b.state {
	case loadingState:
		return b.viewLoading()
	case historyState:
		return b.viewHistory()
	case searchState:
		return b.viewSearch()
	case itemsState:
		return b.viewItems()
	case playState:
		return b.viewPlay()
	case qualityState:
		return b.viewQuality()
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewHistory() string {
	return listExtraPaddingStyle.Render(b.historyC.View())
}

func (b *statefulBubble) viewItems() string {
	return listExtraPaddingStyle.Render(b.itemsC.View())
}

func (b *statefulBubble) viewQuality() string {
	return listExtraPaddingStyle.Render(b.qualityC.View())
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Library"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("tab to search for %s", suggestion)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlay() string {
	snap := b.snapshot

	state := icon.Get(icon.Play)
	switch {
	case snap.Ended:
		state = icon.Get(icon.Success)
	case snap.Waiting:
		state = icon.Get(icon.Buffering)
	case snap.Paused:
		state = icon.Get(icon.Pause)
	}

	delivery := icon.Get(icon.Transcode) + " transcode"
	if snap.EffectiveDirect {
		delivery = icon.Get(icon.Direct) + " direct"
	}

	var percent float64
	if snap.Duration > 0 {
		percent = snap.Position / snap.Duration
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", state, style.Fg(color.Purple)(snap.Title))),
		"",
		b.progressC.ViewAs(percent),
		fmt.Sprintf("%s / %s", util.FormatDuration(snap.Position), util.FormatDuration(snap.Duration)),
		"",
		fmt.Sprintf("%s mode, %s", snap.Mode, delivery),
	}

	if snap.Waiting {
		lines = append(lines, style.Faint(fmt.Sprintf("buffering: %.1fs ahead", snap.BufferAhead)))
	}
	if snap.HasSession && !snap.EffectiveDirect {
		lines = append(lines, style.Faint("session "+snap.SessionStatus.String()))
	}
	if !snap.Compat.CanDirectPlay && snap.Compat.Reason != "" && viper.GetBool(key.TUIShowCompatReason) {
		lines = append(lines, style.Faint(snap.Compat.Reason))
	}
	if snap.Ended {
		lines = append(lines, "", icon.Get(icon.Success)+" Playback finished")
	}
	if snap.Err != nil {
		lines = append(lines, "", icon.Get(icon.Fail)+" "+style.Faint(snap.Err.Error()))
	}
	if snap.Phase == playback.PhaseSwitching {
		lines = append(lines, "", b.spinnerC.View()+" switching delivery...")
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorBody := errorStyle.Render(fmt.Sprintf("Critical Failure: %v", b.lastError))
	errorMsg := wrap.String(errorBody, b.width)
	return b.renderLines(
		true,
		append([]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
		},
			errorMsg,
		),
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
