// Package mini implements a lightweight, minimalist interface for library search and playback.
package mini

import (
	"fmt"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/network"
	"github.com/reeler-cli/reeler/playback"
	"github.com/reeler-cli/reeler/player"
	"github.com/reeler-cli/reeler/query"
	"github.com/reeler-cli/reeler/stream"
	"github.com/reeler-cli/reeler/util"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

var truncateAt = 100

type Options struct {
	// Continue opens the watch history instead of the search prompt.
	Continue bool

	// Query skips the search prompt and plays the closest match directly.
	Query string
}

type mini struct {
	width, height int

	state         state
	statesHistory util.Stack[state]

	library *catalog.Client
	streams *stream.Client

	handle     *player.MPV
	controller *playback.Controller

	cachedItems map[string][]*catalog.Item

	query        string
	selectedItem *catalog.Item
	resumeAt     float64
}

func newMini() (*mini, error) {
	serverURL := viper.GetString(key.ServerURL)
	if serverURL == "" {
		return nil, fmt.Errorf("server URL is not configured (set %s)", key.ServerURL)
	}

	library := catalog.NewClient(serverURL).WithHTTPClient(network.Client)
	streams := stream.NewClient(serverURL, viper.GetString(key.ServerUserID))

	return &mini{
		statesHistory: util.Stack[state]{},
		library:       library,
		streams:       streams,
		cachedItems:   make(map[string][]*catalog.Item),
	}, nil
}

func (m *mini) previousState() {
	if m.statesHistory.Len() > 0 {
		m.setState(m.statesHistory.Pop())
	}
}

func (m *mini) setState(s state) {
	m.state = s
}

func (m *mini) newState(s state) {
	if m.state == s {
		return
	}

	if !lo.Contains([]state{quitState}, m.state) {
		m.statesHistory.Push(m.state)
	}

	m.setState(s)
}

func Run(options *Options) error {
	m, err := newMini()
	if err != nil {
		return err
	}
	defer m.teardown()

	m.state = searchState
	if options.Continue {
		m.state = historySelectState
	}

	if options.Query != "" {
		if err := m.searchFor(options.Query); err != nil {
			return err
		}
	}

	if w, h, err := util.TerminalSize(); err == nil {
		m.width, m.height = w, h
		truncateAt = w
	}

	for {
		if m.state == quitState {
			return nil
		}
		if err := m.handleState(); err != nil {
			return err
		}
	}
}

// searchFor resolves a non-interactive query: a single match plays directly,
// several matches open the selection menu.
func (m *mini) searchFor(q string) error {
	items, err := m.library.Items()
	if err != nil {
		return err
	}

	found := catalog.Search(items, q)
	if len(found) == 0 {
		return fmt.Errorf("nothing matched %q", q)
	}

	_ = query.Remember(q, 1)
	m.query = q
	m.cachedItems[q] = found

	if len(found) == 1 {
		m.selectedItem = found[0]
		m.setState(playState)
		return nil
	}

	m.setState(itemSelectState)
	return nil
}

func (m *mini) handleState() error {
	switch m.state {
	case historySelectState:
		return m.handleHistorySelectState()
	case searchState:
		return m.handleSearchState()
	case itemSelectState:
		return m.handleItemSelectState()
	case playState:
		return m.handlePlayState()
	default:
		m.setState(quitState)
		return nil
	}
}

func (m *mini) teardown() {
	if m.controller != nil {
		_ = m.controller.Close()
		m.controller = nil
		m.handle = nil
	}
}
