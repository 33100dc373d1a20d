// Package history provides the implementation for tracking and persisting user media consumption state.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/filesystem"
	"github.com/reeler-cli/reeler/key"
	"github.com/reeler-cli/reeler/where"
	"github.com/spf13/viper"
)

// cacher provides an abstracted, disk-backed registry for playback progress records.
var cacher = gache.New[map[string]*SavedItem](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of historical playback records from the persistent store.
func Get() (map[string]*SavedItem, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedItem), nil
	}
	return cached, nil
}

// Save persists the playback progress of an item to the history registry.
// Progress is monotonic: the maximum observed percentage is kept so that a
// re-watch never regresses an entry. Crossing the configured completion
// percentage for the first time counts as a finished play.
func Save(item *catalog.Item, percentage float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	record := newSavedItem(item)

	completion := viper.GetFloat64(key.PlaybackCompletionPercentage)
	if existing, exists := saved[item.ID]; exists {
		record.PlayCount = existing.PlayCount
		if percentage < existing.WatchedPercentage {
			percentage = existing.WatchedPercentage
		}
		if existing.WatchedPercentage < completion && percentage >= completion {
			record.PlayCount++
		}
	} else if percentage >= completion {
		record.PlayCount = 1
	}

	record.WatchedPercentage = percentage
	record.LastPlayedAt = time.Now()

	saved[item.ID] = record

	return cacher.Set(saved)
}

// Remove permanently deletes a specific playback record from the history registry.
func Remove(item *SavedItem) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, item.ID)
	return cacher.Set(saved)
}
