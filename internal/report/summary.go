// Package report turns a finished scan into human-readable output.
package report

import (
	"sort"
	"strconv"

	"github.com/crawlbite/menuscan/pkg/types"
)

// topN is how many categories and priced items the summary highlights.
const topN = 5

// PriceValue parses the leading digits of a price string ("85 L.E").
// Anything unparsable counts as zero so ranking never fails a report.
func PriceValue(price string) int {
	end := 0
	for end < len(price) && price[end] >= '0' && price[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(price[:end])
	if err != nil {
		return 0
	}
	return n
}

// TopCategories returns the n largest categories by item count,
// largest first. Ties keep first-seen category order.
func TopCategories(items []types.MenuItem, n int) []types.CategoryCount {
	counts := make(map[string]int)
	var order []string
	for _, item := range items {
		if _, seen := counts[item.Category]; !seen {
			order = append(order, item.Category)
		}
		counts[item.Category]++
	}

	result := make([]types.CategoryCount, 0, len(order))
	for _, name := range order {
		result = append(result, types.CategoryCount{Category: name, Count: counts[name]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}

// TopPriced returns the n most expensive items, priciest first.
// Ties keep extraction order.
func TopPriced(items []types.MenuItem, n int) []types.MenuItem {
	sorted := make([]types.MenuItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return PriceValue(sorted[i].Price) > PriceValue(sorted[j].Price)
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Summarize fills the derived summary fields of a report from its items.
func Summarize(r *types.ScanReport) {
	r.TopCategories = TopCategories(r.Items, topN)
	r.TopPriced = TopPriced(r.Items, topN)
}
