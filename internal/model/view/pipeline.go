package view

import (
	"sort"

	"max.ks1230/expense-tracker/internal/entity/datekey"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// Sort options for the working view.
const (
	SortDateDesc   = "date-desc"
	SortDateAsc    = "date-asc"
	SortAmountDesc = "amount-desc"
	SortAmountAsc  = "amount-asc"
)

// CategoryAll is the category filter sentinel that keeps every category.
const CategoryAll = "All"

var sortOptions = map[string]func(a, b expense.Record) bool{
	SortDateDesc:   func(a, b expense.Record) bool { return a.Date.After(b.Date) },
	SortDateAsc:    func(a, b expense.Record) bool { return a.Date.Before(b.Date) },
	SortAmountDesc: func(a, b expense.Record) bool { return a.Amount > b.Amount },
	SortAmountAsc:  func(a, b expense.Record) bool { return a.Amount < b.Amount },
}

// ValidSort reports whether option names a supported sort order.
func ValidSort(option string) bool {
	_, ok := sortOptions[option]
	return ok
}

// Apply produces the working view: records of the given month, optionally
// narrowed to one category, ordered by the chosen option. Date sorts
// compare the full timestamp, not just the day. The input slice is never
// mutated; the result is a fresh slice. Unknown sort options fall back to
// date-desc.
func Apply(records []expense.Record, monthKey, category, sortOption string) []expense.Record {
	filtered := make([]expense.Record, 0, len(records))
	for _, rec := range records {
		if datekey.Month(rec.Date) != monthKey {
			continue
		}
		if category != CategoryAll && rec.Category != category {
			continue
		}
		filtered = append(filtered, rec)
	}

	less, ok := sortOptions[sortOption]
	if !ok {
		less = sortOptions[SortDateDesc]
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return less(filtered[i], filtered[j])
	})
	return filtered
}
