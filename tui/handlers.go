// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/color"
	"github.com/reeler-cli/reeler/history"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/log"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/query"
	"github.com/reeler-cli/reeler/style"
	"github.com/reeler-cli/reeler/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

const playbackTickInterval = 300 * time.Millisecond

type playTickMsg time.Time

type playbackStartedMsg struct{}

type historyResumeMsg struct {
	item     *catalog.Item
	resumeAt float64
}

// tickPlayback schedules the next playback snapshot refresh.
func (b *statefulBubble) tickPlayback() tea.Cmd {
	return tea.Tick(playbackTickInterval, func(t time.Time) tea.Msg {
		return playTickMsg(t)
	})
}

func (b *statefulBubble) searchLibrary(q string) tea.Cmd {
	return func() tea.Msg {
		log.Info("searching library for " + q)
		b.progressStatus = fmt.Sprintf("Searching for %s", style.Fg(color.Purple)(q))

		items, err := b.library.Items()
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		found := catalog.Search(items, q)
		if limit := viper.GetInt(key.SearchLimit); limit > 0 && len(found) > limit {
			found = found[:limit]
		}

		_ = query.Remember(q, len(found))

		log.Infof("found %s", util.Quantify(len(found), "item", "items"))
		b.foundItemsChannel <- found
		return nil
	}
}

func (b *statefulBubble) waitForItems() tea.Cmd {
	return func() tea.Msg {
		select {
		case found := <-b.foundItemsChannel:
			return found
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// loadHistoryItem resolves a saved record back into a full library item and
// computes the position playback should resume from.
func (b *statefulBubble) loadHistoryItem(record *history.SavedItem) tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = fmt.Sprintf("Fetching %s", style.Fg(color.Purple)(record.Name))

		item, err := b.library.Item(record.ID)
		if err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		b.historyResumeChannel <- historyResumeMsg{
			item:     item,
			resumeAt: record.WatchedPercentage / 100 * item.File.Duration,
		}
		return nil
	}
}

func (b *statefulBubble) waitForHistoryItem() tea.Cmd {
	return func() tea.Msg {
		select {
		case res := <-b.historyResumeChannel:
			return res
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// playItem starts (or replaces) playback of the selected item.
func (b *statefulBubble) playItem(item *catalog.Item, resumeAt float64) tea.Cmd {
	return func() tea.Msg {
		b.progressStatus = fmt.Sprintf("Requesting playback of %s", style.Fg(color.Purple)(item.Name))
		log.Info("requesting playback of " + item.ID)

		if err := b.ensureController(item.Name); err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		if viper.GetBool(key.HistorySaveOnPlay) {
			saved := item
			b.controller.SetProgressFunc(func(u playback.ProgressUpdate) {
				if u.Duration <= 0 {
					return
				}
				_ = history.Save(saved, u.Position/u.Duration*100)
			})
		}

		mode, _ := playback.ParseMode(viper.GetString(key.PlaybackMode))
		if err := b.controller.Load(item, mode); err != nil {
			log.Error(err)
			b.errorChannel <- err
			return nil
		}

		if resumeAt > 0 {
			_ = b.controller.Seek(resumeAt)
		}

		b.playbackStartedChannel <- struct{}{}
		return nil
	}
}

func (b *statefulBubble) waitForPlaybackStarted() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.playbackStartedChannel:
			return playbackStartedMsg{}
		case err := <-b.errorChannel:
			b.lastError = err
			return err
		}
	}
}

// loadQualityOptions refreshes the quality list from the active manifest.
func (b *statefulBubble) loadQualityOptions() tea.Cmd {
	options := b.controller.QualityOptions()
	items := lo.Map(options, func(o playback.QualityOption, _ int) list.Item {
		return &listItem{internal: o}
	})
	cmd := b.qualityC.SetItems(items)
	b.qualityC.Select(b.controller.SelectedQuality())
	return cmd
}
