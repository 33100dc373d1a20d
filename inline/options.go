// Package inline provides the implementation for the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/reeler-cli/reeler/catalog"
	"github.com/reeler-cli/reeler/util"
	"github.com/samber/mo"
)

// ItemPicker selects one library item out of a search result.
type ItemPicker func([]*catalog.Item) *catalog.Item

// Library is the slice of the catalog service inline mode consumes.
type Library interface {
	Items() ([]*catalog.Item, error)
}

type Options struct {
	Out io.Writer

	// Library supplies the items to search over.
	Library Library

	// Json switches the output from plain text to a structured document.
	Json bool

	// Query is the search input; empty lists the whole library.
	Query string

	// ItemPicker narrows the result to a single item; absent keeps them all.
	ItemPicker mo.Option[ItemPicker]

	// IncludeCompatibility attaches the direct-play verdict to every item.
	IncludeCompatibility bool
}

// ParseItemPicker builds an ItemPicker out of its CLI description.
func ParseItemPicker(kind, value string) (ItemPicker, error) {
	switch kind {
	case "first":
		return func(items []*catalog.Item) *catalog.Item {
			if len(items) == 0 {
				return nil
			}
			return items[0]
		}, nil
	case "last":
		return func(items []*catalog.Item) *catalog.Item {
			if len(items) == 0 {
				return nil
			}
			return items[len(items)-1]
		}, nil
	case "exact":
		return func(items []*catalog.Item) *catalog.Item {
			for _, item := range items {
				if item.Name == value {
					return item
				}
			}
			return nil
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(items []*catalog.Item) *catalog.Item {
			if len(items) == 0 {
				return nil
			}
			i := util.Min(idx, uint64(len(items)-1))
			return items[i]
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}
