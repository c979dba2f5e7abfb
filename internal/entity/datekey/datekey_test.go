package datekey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_OnMonth_ShouldFormatBucketKey(t *testing.T) {
	d := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "2024-03", Month(d))
	assert.Equal(t, "2024-03-05", Day(d))
}

func Test_OnParseMonth_ShouldRejectMalformedKeys(t *testing.T) {
	_, err := ParseMonth("2024-03")
	assert.NoError(t, err)

	for _, key := range []string{"2024-3", "03-2024", "2024-13", "hello"} {
		_, err = ParseMonth(key)
		assert.Error(t, err, key)
	}
}

func Test_OnPrevMonth_ShouldCrossYearBoundary(t *testing.T) {
	prev, err := PrevMonth("2024-01")
	assert.NoError(t, err)
	assert.Equal(t, "2023-12", prev)

	prev, err = PrevMonth("2024-03")
	assert.NoError(t, err)
	assert.Equal(t, "2024-02", prev)
}

func Test_OnMonthBounds_ShouldCoverWholeMonth(t *testing.T) {
	start, end := MonthBounds(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, time.February, start.Month())
	assert.Equal(t, 1, start.Day())
	assert.Equal(t, time.February, end.Month())
	assert.Equal(t, 29, end.Day())
}
