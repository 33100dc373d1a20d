// Package mini implements a lightweight, minimalist interface for library search and playback.
package mini

import (
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/history"
	"github.com/reeler-cli/reeler/icon"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/player"
	"github.com/reeler-cli/reeler/query"
	"github.com/reeler-cli/reeler/style"
	"github.com/reeler-cli/reeler/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

type state int

const (
	searchState state = iota + 1
	itemSelectState
	playState
	historySelectState
	quitState
)

const backOption = "← back"

func (m *mini) handleSearchState() error {
	var q string
	prompt := &survey.Input{
		Message: "Search the library:",
		Suggest: query.SuggestMany,
	}
	if err := survey.AskOne(prompt, &q, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Searching...", icon.Get(icon.Progress)))
	items, err := m.library.Items()
	erase()
	if err != nil {
		return err
	}

	found := catalog.Search(items, q)
	limit := util.Min(len(found), viper.GetInt(key.SearchLimit))
	if limit > 0 {
		found = found[:limit]
	}

	if len(found) == 0 {
		fmt.Printf("%s Nothing matched %q\n", icon.Get(icon.Fail), q)
		return nil
	}

	_ = query.Remember(q, 1)
	m.query = q
	m.cachedItems[q] = found
	m.newState(itemSelectState)
	return nil
}

func (m *mini) handleItemSelectState() error {
	items := m.cachedItems[m.query]

	labels := lo.Map(items, func(item *catalog.Item, _ int) string {
		verdict := playback.Classify(item.File)
		tag := icon.Get(icon.Transcode)
		if verdict.CanDirectPlay {
			tag = icon.Get(icon.Direct)
		}
		label := fmt.Sprintf("%s %s", tag, item.String())
		if len(label) > truncateAt {
			label = label[:truncateAt]
		}
		return label
	})
	labels = append(labels, backOption)

	var choice string
	prompt := &survey.Select{
		Message:  fmt.Sprintf("Results for %q:", m.query),
		Options:  labels,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return err
	}

	if choice == backOption {
		m.previousState()
		return nil
	}

	idx := lo.IndexOf(labels, choice)
	m.selectedItem = items[idx]
	m.resumeAt = 0
	m.newState(playState)
	return nil
}

func (m *mini) handleHistorySelectState() error {
	saved, err := history.Get()
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		fmt.Printf("%s Watch history is empty\n", icon.Get(icon.Fail))
		m.setState(searchState)
		return nil
	}

	records := lo.Values(saved)
	labels := lo.Map(records, func(r *history.SavedItem, _ int) string {
		return r.String()
	})
	labels = append(labels, backOption)

	var choice string
	prompt := &survey.Select{
		Message:  "Continue watching:",
		Options:  labels,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return err
	}

	if choice == backOption {
		m.setState(searchState)
		return nil
	}

	record := records[lo.IndexOf(labels, choice)]

	erase := util.PrintErasable(fmt.Sprintf("%s Fetching item...", icon.Get(icon.Progress)))
	item, err := m.library.Item(record.ID)
	erase()
	if err != nil {
		return err
	}

	m.selectedItem = item
	m.resumeAt = record.WatchedPercentage / 100 * item.File.Duration
	m.newState(playState)
	return nil
}

func (m *mini) handlePlayState() error {
	if err := m.ensureController(); err != nil {
		return err
	}

	mode, _ := playback.ParseMode(viper.GetString(key.PlaybackMode))

	if viper.GetBool(key.HistorySaveOnPlay) {
		item := m.selectedItem
		m.controller.SetProgressFunc(func(u playback.ProgressUpdate) {
			if u.Duration <= 0 {
				return
			}
			_ = history.Save(item, u.Position/u.Duration*100)
		})
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Requesting playback...", icon.Get(icon.Progress)))
	err := m.controller.Load(m.selectedItem, mode)
	erase()
	if err != nil {
		return err
	}

	if m.resumeAt > 0 {
		_ = m.controller.Seek(m.resumeAt)
		m.resumeAt = 0
	}

	for {
		util.ClearScreen()
		snap := m.controller.Snapshot()
		fmt.Println(renderStatus(snap))

		const (
			actPause    = "pause/resume"
			actForward  = "seek +30s"
			actBack     = "seek -30s"
			actMode     = "switch mode"
			actQuality  = "quality"
			actRate     = "rate item"
			actFavorite = "toggle favorite"
			actReturn   = "back to results"
			actQuit     = "quit"
		)

		var action string
		prompt := &survey.Select{
			Message: "Playback:",
			Options: []string{actPause, actForward, actBack, actMode, actQuality, actRate, actFavorite, actReturn, actQuit},
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			return err
		}

		switch action {
		case actPause:
			if err := m.controller.TogglePause(); err != nil {
				fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
			}
		case actForward:
			snap = m.controller.Snapshot()
			if err := m.controller.Seek(snap.Position + 30); err != nil {
				fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
			}
		case actBack:
			snap = m.controller.Snapshot()
			if err := m.controller.Seek(snap.Position - 30); err != nil {
				fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
			}
		case actMode:
			if err := m.promptMode(); err != nil {
				return err
			}
		case actQuality:
			if err := m.promptQuality(); err != nil {
				return err
			}
		case actRate:
			if err := m.promptRating(); err != nil {
				return err
			}
		case actFavorite:
			target := !m.selectedItem.IsFavorite
			if err := m.library.SetFavorite(m.selectedItem.ID, target); err != nil {
				fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
			} else {
				m.selectedItem.IsFavorite = target
				if target {
					fmt.Printf("%s Added to favorites\n", icon.Get(icon.Success))
				} else {
					fmt.Printf("%s Removed from favorites\n", icon.Get(icon.Success))
				}
			}
		case actReturn:
			_ = m.controller.Reset()
			m.previousState()
			return nil
		case actQuit:
			m.setState(quitState)
			return nil
		}
	}
}

func (m *mini) promptMode() error {
	options := []string{
		playback.ModeAuto.String(),
		playback.ModeDirect.String(),
		playback.ModeTranscode.String(),
	}

	var choice string
	if err := survey.AskOne(&survey.Select{Message: "Playback mode:", Options: options}, &choice); err != nil {
		return err
	}

	mode, err := playback.ParseMode(choice)
	if err != nil {
		return err
	}

	if err := m.controller.SetMode(mode); err != nil {
		fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
	}
	return nil
}

func (m *mini) promptQuality() error {
	options := m.controller.QualityOptions()
	if len(options) == 0 {
		fmt.Printf("%s Quality selection is only available for transcoded playback\n", icon.Get(icon.Fail))
		return nil
	}

	labels := lo.Map(options, func(o playback.QualityOption, _ int) string {
		return o.Label
	})

	var choice string
	if err := survey.AskOne(&survey.Select{Message: "Quality:", Options: labels}, &choice); err != nil {
		return err
	}

	if err := m.controller.SelectQuality(lo.IndexOf(labels, choice)); err != nil {
		fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
	}
	return nil
}

func (m *mini) promptRating() error {
	var raw string
	prompt := &survey.Input{
		Message: "Rating (0-10):",
	}
	if err := survey.AskOne(prompt, &raw, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil || rating < 0 || rating > 10 {
		fmt.Printf("%s Rating must be a number between 0 and 10\n", icon.Get(icon.Fail))
		return nil
	}

	if err := m.library.Rate(m.selectedItem.ID, rating); err != nil {
		fmt.Printf("%s %v\n", icon.Get(icon.Fail), err)
		return nil
	}

	m.selectedItem.UserRating = rating
	fmt.Printf("%s Rated %s %.1f\n", icon.Get(icon.Success), m.selectedItem.Name, rating)
	return nil
}

func (m *mini) ensureController() error {
	if m.controller != nil {
		return nil
	}

	m.handle = player.NewMPV()
	if err := m.handle.Start(m.selectedItem.Name); err != nil {
		return err
	}

	m.controller = playback.NewController(m.handle, m.streams, playback.ParamsFromConfig())
	return nil
}

func renderStatus(snap playback.Snapshot) string {
	state := icon.Get(icon.Play)
	switch {
	case snap.Waiting:
		state = icon.Get(icon.Buffering)
	case snap.Paused:
		state = icon.Get(icon.Pause)
	}

	delivery := icon.Get(icon.Transcode) + " transcode"
	if snap.EffectiveDirect {
		delivery = icon.Get(icon.Direct) + " direct"
	}

	line := fmt.Sprintf("%s %s  %s / %s  [%s, %s]",
		state,
		snap.Title,
		util.FormatDuration(snap.Position),
		util.FormatDuration(snap.Duration),
		snap.Mode,
		delivery,
	)

	if snap.HasSession && !snap.EffectiveDirect {
		line += "  " + style.Faint(snap.SessionStatus.String())
	}
	if snap.Err != nil {
		line += "\n" + style.Faint(snap.Err.Error())
	}
	return line
}
