package history

import (
	"fmt"
	"time"

	"github.com/reeler-cli/reeler/catalog"
)

// SavedItem represents a single playback entry preserved in the user's history.
type SavedItem struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	DurationSeconds   float64   `json:"duration_seconds"`
	WatchedPercentage float64   `json:"watched_percentage"`
	PlayCount         int       `json:"play_count"`
	LastPlayedAt      time.Time `json:"last_played_at"`
}

func (s *SavedItem) String() string {
	return fmt.Sprintf("%s : %.0f%%", s.Name, s.WatchedPercentage)
}

func newSavedItem(item *catalog.Item) *SavedItem {
	return &SavedItem{
		ID:              item.ID,
		Name:            item.Name,
		Type:            item.Type,
		DurationSeconds: item.File.Duration,
	}
}
