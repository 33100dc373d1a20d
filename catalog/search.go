// Package catalog defines the domain models and the client for the remote media cataloging service.
package catalog

import (
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Search filters library items by a fuzzy match on their names and orders
// the result by edit distance to the query, closest first.
func Search(items []*Item, query string) []*Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}

	matched := lo.Filter(items, func(item *Item, _ int) bool {
		return fuzzy.MatchNormalizedFold(query, item.Name)
	})

	slices.SortStableFunc(matched, func(a, b *Item) int {
		da := levenshtein.Distance(strings.ToLower(query), strings.ToLower(a.Name))
		db := levenshtein.Distance(strings.ToLower(query), strings.ToLower(b.Name))
		return da - db
	})

	return matched
}
