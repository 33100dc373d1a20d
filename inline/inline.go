// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"os"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/playback"
)

func Run(options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	all, err := options.Library.Items()
	if err != nil {
		return fmt.Errorf("list library: %w", err)
	}

	items := catalog.Search(all, options.Query)

	var selected []*catalog.Item
	if options.ItemPicker.IsPresent() {
		picker := options.ItemPicker.MustGet()
		if choice := picker(items); choice != nil {
			selected = []*catalog.Item{choice}
		}
	} else {
		selected = items
	}

	if options.Json {
		return writeJson(options.Out, selected, options)
	}

	for _, item := range selected {
		if options.IncludeCompatibility {
			verdict := playback.Classify(item.File)
			fmt.Fprintf(options.Out, "%s\t%s\tdirect=%v\t%s\n", item.ID, item.Name, verdict.CanDirectPlay, verdict.Reason)
			continue
		}
		fmt.Fprintf(options.Out, "%s\t%s\n", item.ID, item.Name)
	}

	return nil
}
