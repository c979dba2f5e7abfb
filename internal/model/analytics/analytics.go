package analytics

import (
	"math"
	"sort"
	"time"

	"max.ks1230/expense-tracker/internal/entity/datekey"
	"max.ks1230/expense-tracker/internal/entity/expense"
)

// CategoryTotal is the summed amount of one category bucket.
type CategoryTotal struct {
	Category string
	Total    float64
}

// PeriodTotal is the summed amount of one day or month bucket.
type PeriodTotal struct {
	Key   string
	Total float64
}

// BudgetUsage compares a period total against the configured budget.
type BudgetUsage struct {
	Spent      float64
	Budget     float64
	Percentage float64
	Over       bool
}

// Round2 rounds a monetary amount to 2 decimal places, half away from
// zero. Applied to every aggregated value so all views agree.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// TotalSum sums the amounts of the given records.
func TotalSum(records []expense.Record) float64 {
	var sum float64
	for _, rec := range records {
		sum += rec.Amount
	}
	return Round2(sum)
}

// CategoryTotals groups records by category, summing amounts per bucket.
// Results are sorted by descending total; ties keep the order categories
// were first seen in.
func CategoryTotals(records []expense.Record) []CategoryTotal {
	sums := make(map[string]float64)
	order := make([]string, 0)
	for _, rec := range records {
		cat := rec.Category
		if cat == "" {
			cat = expense.Other
		}
		if _, seen := sums[cat]; !seen {
			order = append(order, cat)
		}
		sums[cat] += rec.Amount
	}

	totals := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		totals = append(totals, CategoryTotal{Category: cat, Total: Round2(sums[cat])})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})
	return totals
}

// DailyTotals groups records by calendar day, ascending by day key.
func DailyTotals(records []expense.Record) []PeriodTotal {
	return periodTotals(records, datekey.Day)
}

// MonthlyTotals groups records by month key, ascending by key. Callers
// pass the full record set so the trend spans every month on record,
// independent of the selected filter month.
func MonthlyTotals(records []expense.Record) []PeriodTotal {
	return periodTotals(records, datekey.Month)
}

func periodTotals(records []expense.Record, keyOf func(time.Time) string) []PeriodTotal {
	sums := make(map[string]float64)
	for _, rec := range records {
		sums[keyOf(rec.Date)] += rec.Amount
	}

	keys := make([]string, 0, len(sums))
	for key := range sums {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	totals := make([]PeriodTotal, 0, len(keys))
	for _, key := range keys {
		totals = append(totals, PeriodTotal{Key: key, Total: Round2(sums[key])})
	}
	return totals
}

// TopN returns the n largest records by amount. The sort is stable, so
// equal amounts keep their original relative order. The input slice is
// left untouched.
func TopN(records []expense.Record, n int) []expense.Record {
	sorted := make([]expense.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	if n < 0 {
		n = 0
	}
	return sorted[:n]
}

// AverageDailySpend divides the total sum by the number of distinct
// calendar days present. An empty set yields 0, never a division by zero.
func AverageDailySpend(records []expense.Record) float64 {
	if len(records) == 0 {
		return 0
	}
	days := make(map[string]struct{})
	var sum float64
	for _, rec := range records {
		days[datekey.Day(rec.Date)] = struct{}{}
		sum += rec.Amount
	}
	return Round2(sum / float64(len(days)))
}

// MonthTotal sums the records falling into the given month bucket.
func MonthTotal(records []expense.Record, monthKey string) float64 {
	var sum float64
	for _, rec := range records {
		if datekey.Month(rec.Date) == monthKey {
			sum += rec.Amount
		}
	}
	return Round2(sum)
}

// CurrentMonthTotal sums the records of the month containing now.
func CurrentMonthTotal(records []expense.Record, nowTime time.Time) float64 {
	return MonthTotal(records, datekey.Month(nowTime))
}

// Usage computes how much of the budget the spent total consumes. A zero
// or negative budget means no budget is set; usage is zero and the over
// flag stays down.
func Usage(spent, budget float64) BudgetUsage {
	usage := BudgetUsage{Spent: spent, Budget: budget}
	if budget > 0 {
		usage.Percentage = Round2(spent / budget * 100)
		usage.Over = spent > budget
	}
	return usage
}
