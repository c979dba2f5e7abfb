package datekey

import (
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

const (
	monthLayout = "2006-01"
	dayLayout   = "2006-01-02"
)

// Month derives the canonical YYYY-MM bucket key of a timestamp. Every
// month grouping and month filter in the tracker goes through this so
// bucket boundaries always agree.
func Month(t time.Time) string {
	return t.Format(monthLayout)
}

// Day derives the YYYY-MM-DD bucket key of a timestamp.
func Day(t time.Time) string {
	return t.Format(dayLayout)
}

// ParseMonth validates a YYYY-MM key.
func ParseMonth(key string) (time.Time, error) {
	t, err := time.Parse(monthLayout, key)
	return t, errors.Wrap(err, "parse month key")
}

// PrevMonth returns the key of the calendar month right before key.
func PrevMonth(key string) (string, error) {
	t, err := ParseMonth(key)
	if err != nil {
		return "", err
	}
	return Month(t.AddDate(0, -1, 0)), nil
}

// MonthBounds returns the inclusive start and exclusive end of the month
// holding t, for storage-side range queries.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	n := now.New(t)
	return n.BeginningOfMonth(), n.EndOfMonth()
}
