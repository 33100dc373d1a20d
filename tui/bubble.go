// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/history"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/network"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/player"
	"github.com/reeler-cli/reeler/stream"
	"github.com/reeler-cli/reeler/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// statefulBubble encapsulates the comprehensive application state, including component models and workflow tracking.
type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	inputC    textinput.Model
	historyC  list.Model
	itemsC    list.Model
	qualityC  list.Model
	progressC progress.Model
	helpC     help.Model

	library *catalog.Client
	streams *stream.Client

	handle     *player.MPV
	controller *playback.Controller

	selectedItem *catalog.Item
	resumeAt     float64
	snapshot     playback.Snapshot
	lastError    error

	progressStatus   string
	searchSuggestion mo.Option[string]

	foundItemsChannel      chan []*catalog.Item
	historyResumeChannel   chan historyResumeMsg
	playbackStartedChannel chan struct{}
	errorChannel           chan error

	width, height int

	options *Options
}

func newBubble(options *Options) (*statefulBubble, error) {
	serverURL := viper.GetString(key.ServerURL)
	if serverURL == "" {
		return nil, fmt.Errorf("server URL is not configured (set %s)", key.ServerURL)
	}

	keymap := newStatefulKeymap()

	input := textinput.New()
	input.Placeholder = "Search the library"
	input.Focus()

	makeList := func(title string) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		l := list.New(nil, delegate, 0, 0)
		l.Title = title
		l.SetShowHelp(false)
		return l
	}

	b := &statefulBubble{
		keymap:    keymap,
		spinnerC:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		inputC:    input,
		historyC:  makeList("Continue Watching"),
		itemsC:    makeList("Library"),
		qualityC:  makeList("Quality"),
		progressC: progress.New(progress.WithDefaultGradient()),
		helpC:     help.New(),
		library:   catalog.NewClient(serverURL).WithHTTPClient(network.Client),
		streams:   stream.NewClient(serverURL, viper.GetString(key.ServerUserID)),
		options:   options,

		foundItemsChannel:      make(chan []*catalog.Item),
		historyResumeChannel:   make(chan historyResumeMsg),
		playbackStartedChannel: make(chan struct{}),
		errorChannel:           make(chan error),
	}

	if w, h, err := util.TerminalSize(); err == nil {
		b.resize(w, h)
	}

	return b, nil
}

// raiseError dispatches a terminal error and transitions the application to the failure view.
func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

// setState performs a synchronous transition of both the application workflow and its associated keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// newState facilitates a transition to a target state, recording the previous state in the navigation history when appropriate.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	// Transient states do not participate in back navigation.
	if !lo.Contains([]state{loadingState, errorState, qualityState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

// previousState restores the application to its immediate predecessor in the navigation stack.
func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	b.width, b.height = width, height

	listWidth, listHeight := width-4, height-4
	b.historyC.SetSize(listWidth, listHeight)
	b.itemsC.SetSize(listWidth, listHeight)
	b.qualityC.SetSize(listWidth, listHeight)
	b.inputC.Width = width - 4
	b.progressC.Width = util.Min(width-10, 60)
	b.helpC.Width = width
}

// startLoading enters a concurrent loading state, initializing visual indicators across child components.
func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return tea.Batch(b.itemsC.StartSpinner(), b.historyC.StartSpinner())
}

// stopLoading exits the loading state and synchronizes child component visual indicators.
func (b *statefulBubble) stopLoading() tea.Cmd {
	b.loading = false
	b.itemsC.StopSpinner()
	b.historyC.StopSpinner()
	return nil
}

// populateHistory fills the history list from the persistent watch registry.
func (b *statefulBubble) populateHistory() error {
	saved, err := history.Get()
	if err != nil {
		return err
	}

	records := lo.Values(saved)
	items := lo.Map(records, func(r *history.SavedItem, _ int) list.Item {
		return &listItem{internal: r}
	})

	b.historyC.SetItems(items)
	return nil
}

// ensureController lazily creates the persistent player handle and its coordinator.
func (b *statefulBubble) ensureController(title string) error {
	if b.controller != nil {
		return nil
	}

	b.handle = player.NewMPV()
	if err := b.handle.Start(title); err != nil {
		return err
	}

	b.controller = playback.NewController(b.handle, b.streams, playback.ParamsFromConfig())
	return nil
}

func (b *statefulBubble) teardown() {
	if b.controller != nil {
		_ = b.controller.Close()
		b.controller = nil
		b.handle = nil
	}
}
