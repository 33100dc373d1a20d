// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"encoding/json"
	"io"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/playback"
)

// Entry is one library item in the structured output.
type Entry struct {
	// Item is the catalog record.
	Item *catalog.Item `json:"item"`
	// Compatibility is the direct-play verdict (optional).
	Compatibility *playback.Compatibility `json:"compatibility,omitempty"`
}

type Output struct {
	Query  string   `json:"query"`
	Result []*Entry `json:"result"`
}

func writeJson(out io.Writer, items []*catalog.Item, options *Options) error {
	data, err := asJson(items, options.Query, options.IncludeCompatibility)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func asJson(items []*catalog.Item, query string, includeCompatibility bool) ([]byte, error) {
	var result = make([]*Entry, len(items))
	for i, item := range items {
		var verdict *playback.Compatibility
		if includeCompatibility {
			v := playback.Classify(item.File)
			verdict = &v
		}

		result[i] = &Entry{
			Item:          item,
			Compatibility: verdict,
		}
	}

	return json.Marshal(&Output{
		Query:  query,
		Result: result,
	})
}
