// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/history"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/query"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.forceQuit):
			return b, tea.Quit
		}

		// Input Guard: Ignore non-priority keys during asynchronous operations.
		if b.loading && b.state != errorState {
			return b, nil
		}
	}

	switch b.state {
	case loadingState:
		return b.updateLoading(msg)
	case historyState:
		return b.updateHistory(msg)
	case searchState:
		return b.updateSearch(msg)
	case itemsState:
		return b.updateItems(msg)
	case playState:
		return b.updatePlay(msg)
	case qualityState:
		return b.updateQuality(msg)
	case errorState:
		return b.updateError(msg)
	}

	return b, cmd
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.statesHistory.Len() > 0 {
				b.previousState()
				b.stopLoading()
			} else {
				return b, tea.Quit
			}
		}
	case []*catalog.Item:
		items := make([]list.Item, len(msg))
		for i, m := range msg {
			items[i] = &listItem{internal: m}
		}

		cmd = b.itemsC.SetItems(items)
		b.newState(itemsState)
		b.stopLoading()
		return b, cmd
	case historyResumeMsg:
		b.selectedItem = msg.item
		b.resumeAt = msg.resumeAt
		b.progressStatus = fmt.Sprintf("Requesting playback of %s", msg.item.Name)
		return b, tea.Batch(b.playItem(msg.item, msg.resumeAt), b.waitForPlaybackStarted())
	case playbackStartedMsg:
		b.newState(playState)
		b.stopLoading()
		return b, b.tickPlayback()
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.remove):
			if b.historyC.SelectedItem() != nil {
				record := b.historyC.SelectedItem().(*listItem).internal.(*history.SavedItem)
				_ = history.Remove(record)
				if err := b.populateHistory(); err != nil {
					b.raiseError(err)
				}
				return b, nil
			}
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.historyC.SelectedItem() != nil {
				record := b.historyC.SelectedItem().(*listItem).internal.(*history.SavedItem)
				b.progressStatus = fmt.Sprintf("Fetching %s", record.Name)
				b.newState(loadingState)
				return b, tea.Batch(b.startLoading(), b.loadHistoryItem(record), b.waitForHistoryItem(), b.spinnerC.Tick)
			}
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.historyC.FilterState() != list.Unfiltered {
				b.historyC, cmd = b.historyC.Update(msg)
				return b, cmd
			}
			b.setState(searchState)
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			if b.historyC.FilterState() == list.Unfiltered {
				return b, tea.Quit
			}
		}
	}

	b.historyC, cmd = b.historyC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && b.inputC.Value() != "":
			b.progressStatus = fmt.Sprintf("Searching for %s", b.inputC.Value())
			b.newState(loadingState)
			return b, tea.Batch(b.startLoading(), b.searchLibrary(b.inputC.Value()), b.waitForItems(), b.spinnerC.Tick)
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.searchSuggestion = mo.None[string]()
			b.inputC.SetCursor(len(b.inputC.Value()))
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.back):
			b.previousState()
			return b, nil
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" {
		if suggestion, ok := query.Suggest(b.inputC.Value()).Get(); ok && suggestion != b.inputC.Value() {
			b.searchSuggestion = mo.Some(suggestion)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
	} else if b.searchSuggestion.IsPresent() {
		b.searchSuggestion = mo.None[string]()
	}

	return b, cmd
}

func (b *statefulBubble) updateItems(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.itemsC.SelectedItem() == nil {
				break
			}
			item := b.itemsC.SelectedItem().(*listItem).internal.(*catalog.Item)
			b.selectedItem = item
			b.resumeAt = 0
			go query.Remember(item.Name, 2)
			b.progressStatus = fmt.Sprintf("Requesting playback of %s", item.Name)
			b.newState(loadingState)
			return b, tea.Batch(b.startLoading(), b.playItem(item, 0), b.waitForPlaybackStarted(), b.spinnerC.Tick)
		case bubblesKey.Matches(msg, b.keymap.back):
			if b.itemsC.FilterState() != list.Unfiltered {
				b.itemsC, cmd = b.itemsC.Update(msg)
				return b, cmd
			}
			b.itemsC.ResetSelected()
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			if b.itemsC.FilterState() == list.Unfiltered {
				return b, tea.Quit
			}
		}
	}

	b.itemsC, cmd = b.itemsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case playTickMsg:
		if b.state != playState || b.controller == nil {
			return b, nil
		}
		b.snapshot = b.controller.Snapshot()
		return b, b.tickPlayback()
	case tea.KeyMsg:
		if b.controller == nil {
			return b, nil
		}

		switch {
		case bubblesKey.Matches(msg, b.keymap.playPause):
			_ = b.controller.TogglePause()
		case bubblesKey.Matches(msg, b.keymap.seekForward):
			_ = b.controller.Seek(b.snapshot.Position + 10)
		case bubblesKey.Matches(msg, b.keymap.seekBack):
			_ = b.controller.Seek(b.snapshot.Position - 10)
		case bubblesKey.Matches(msg, b.keymap.bigSeekForward):
			_ = b.controller.Seek(b.snapshot.Position + 90)
		case bubblesKey.Matches(msg, b.keymap.bigSeekBack):
			_ = b.controller.Seek(b.snapshot.Position - 90)
		case bubblesKey.Matches(msg, b.keymap.cycleMode):
			_ = b.controller.SetMode(nextMode(b.snapshot.Mode))
		case bubblesKey.Matches(msg, b.keymap.quality):
			cmd := b.loadQualityOptions()
			b.newState(qualityState)
			return b, cmd
		case bubblesKey.Matches(msg, b.keymap.back):
			_ = b.controller.Reset()
			b.snapshot = playback.Snapshot{}
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, nil
}

func (b *statefulBubble) updateQuality(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm):
			if b.qualityC.SelectedItem() == nil || b.controller == nil {
				break
			}
			if err := b.controller.SelectQuality(b.qualityC.Index()); err != nil {
				b.raiseError(err)
				return b, nil
			}
			b.setState(playState)
			return b, b.tickPlayback()
		case bubblesKey.Matches(msg, b.keymap.back):
			b.setState(playState)
			return b, b.tickPlayback()
		}
	}

	b.qualityC, cmd = b.qualityC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.back):
			b.lastError = nil
			b.previousState()
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		}
	}

	return b, nil
}

// nextMode cycles auto -> direct -> transcode -> auto.
func nextMode(m playback.Mode) playback.Mode {
	order := []playback.Mode{playback.ModeAuto, playback.ModeDirect, playback.ModeTranscode}
	return order[(lo.IndexOf(order, m)+1)%len(order)]
}
