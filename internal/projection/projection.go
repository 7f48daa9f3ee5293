// Package projection derives the visible entry list and the dashboard
// aggregates from a store snapshot. Everything here is pure: no state,
// no mutation of the input, same output for the same input.
package projection

import (
	"sort"
	"strings"

	"github.com/KotFed0t/extrol_cli/internal/model"
	"github.com/shopspring/decimal"
)

// Project filters and sorts entries for display. Stats are computed over
// the full unfiltered input: the search text narrows the list only.
func Project(entries []model.Entry, search string, sortKey model.SortKey) ([]model.Entry, model.Stats) {
	return Sort(Filter(entries, search), sortKey), Stats(entries)
}

// Filter keeps entries whose note (case-insensitive) or date contains the
// search text. Empty search keeps everything.
func Filter(entries []model.Entry, search string) []model.Entry {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return append([]model.Entry(nil), entries...)
	}

	res := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Note), q) || strings.Contains(e.Date, q) {
			res = append(res, e)
		}
	}
	return res
}

// Sort orders a copy of entries by the given key. Dates compare lexically
// (ISO format), prices numerically. An unrecognized key leaves the order
// untouched.
func Sort(entries []model.Entry, key model.SortKey) []model.Entry {
	res := append([]model.Entry(nil), entries...)

	switch key {
	case model.SortDateDesc:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Date > res[j].Date })
	case model.SortDateAsc:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Date < res[j].Date })
	case model.SortPriceDesc:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Price.GreaterThan(res[j].Price) })
	case model.SortPriceAsc:
		sort.SliceStable(res, func(i, j int) bool { return res[i].Price.LessThan(res[j].Price) })
	}

	return res
}

// Stats aggregates the full store: total spend, entry count, average
// price and the most recent entry date. Average and LastRefillDate stay
// at their zero values when there are no entries.
func Stats(entries []model.Entry) model.Stats {
	stats := model.Stats{Count: len(entries)}

	for _, e := range entries {
		stats.Total = stats.Total.Add(e.Price)
		if e.Date > stats.LastRefillDate {
			stats.LastRefillDate = e.Date
		}
	}

	if stats.Count > 0 {
		stats.Average = stats.Total.Div(decimal.NewFromInt(int64(stats.Count)))
	}

	return stats
}
