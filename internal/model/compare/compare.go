package compare

import "math"

// Direction classifies a month-over-month change.
type Direction int

const (
	Unchanged Direction = iota
	Increase
	Decrease
)

// Result describes how the current month relates to the previous one.
type Result struct {
	Difference float64
	Percentage float64
	Direction  Direction
}

// Months compares the current month total against the previous one. When
// the previous total is zero there is nothing meaningful to compare
// against, so ok is false instead of producing an infinite percentage.
func Months(current, previous float64) (Result, bool) {
	if previous == 0 {
		return Result{}, false
	}

	diff := current - previous
	res := Result{
		Difference: diff,
		Percentage: math.Abs(diff) / previous * 100,
	}
	switch {
	case diff > 0:
		res.Direction = Increase
	case diff < 0:
		res.Direction = Decrease
	}
	return res, true
}
