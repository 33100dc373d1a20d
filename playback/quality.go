package playback

import (
	"fmt"
	"sort"

	"github.com/reeler-cli/reeler/stream"
	"github.com/samber/mo"
)

// QualityOption is one entry of the quality menu. Bandwidth is None for the
// Auto entry, which restores adaptive rendition selection.
type QualityOption struct {
	Label     string
	Bandwidth mo.Option[int]
}

// QualitySelector exposes a user override across the adaptive renditions of
// the active manifest. The menu is built exactly once per load even if the
// renditions-available notification fires multiple times; it offers Auto plus
// one entry per distinct vertical resolution. Selecting a rendition pins the
// adaptive engine onto it until Auto is reselected.
type QualitySelector struct {
	built    bool
	options  []QualityOption
	selected int
}

// NewQualitySelector creates an empty selector; the menu materializes on the
// first Build call.
func NewQualitySelector() *QualitySelector {
	return &QualitySelector{}
}

// Reset discards the menu so the next load can build a fresh one.
func (q *QualitySelector) Reset() {
	q.built = false
	q.options = nil
	q.selected = 0
}

// Build constructs the menu from the manifest's rendition ladder. Repeated
// calls after the first are ignored.
func (q *QualitySelector) Build(m *stream.Manifest) {
	if q.built || m == nil {
		return
	}

	// One entry per distinct height, keeping the highest bandwidth variant.
	byHeight := map[int]stream.Rendition{}
	for _, r := range m.Renditions {
		if best, ok := byHeight[r.Height]; !ok || r.Bandwidth > best.Bandwidth {
			byHeight[r.Height] = r
		}
	}

	heights := make([]int, 0, len(byHeight))
	for h := range byHeight {
		heights = append(heights, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	q.options = make([]QualityOption, 0, len(heights)+1)
	q.options = append(q.options, QualityOption{Label: "Auto", Bandwidth: mo.None[int]()})
	for _, h := range heights {
		r := byHeight[h]
		q.options = append(q.options, QualityOption{
			Label:     r.Label(),
			Bandwidth: mo.Some(r.Bandwidth),
		})
	}

	q.selected = 0
	q.built = true
}

// Built reports whether the menu exists for the current load.
func (q *QualitySelector) Built() bool {
	return q.built
}

// Options returns the menu entries, Auto first.
func (q *QualitySelector) Options() []QualityOption {
	return q.options
}

// Selected returns the index of the active entry.
func (q *QualitySelector) Selected() int {
	return q.selected
}

// Select marks the entry at index as active and returns the bandwidth to
// force on the player handle; None means restore adaptive selection.
func (q *QualitySelector) Select(index int) (mo.Option[int], error) {
	if !q.built {
		return mo.None[int](), fmt.Errorf("quality menu not built yet")
	}
	if index < 0 || index >= len(q.options) {
		return mo.None[int](), fmt.Errorf("quality index %d out of range", index)
	}
	q.selected = index
	return q.options[index].Bandwidth, nil
}
