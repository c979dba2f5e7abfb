package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OnMonths_ShouldReportIncrease(t *testing.T) {
	res, ok := Months(150, 100)

	assert.True(t, ok)
	assert.Equal(t, Increase, res.Direction)
	assert.Equal(t, 50.0, res.Difference)
	assert.Equal(t, 50.0, res.Percentage)
}

func Test_OnMonths_ShouldReportDecreaseWithPositivePercentage(t *testing.T) {
	res, ok := Months(75, 100)

	assert.True(t, ok)
	assert.Equal(t, Decrease, res.Direction)
	assert.Equal(t, -25.0, res.Difference)
	assert.Equal(t, 25.0, res.Percentage)
}

func Test_OnMonths_ShouldReportUnchanged(t *testing.T) {
	res, ok := Months(100, 100)

	assert.True(t, ok)
	assert.Equal(t, Unchanged, res.Direction)
	assert.Equal(t, 0.0, res.Difference)
	assert.Equal(t, 0.0, res.Percentage)
}

func Test_OnMonths_ShouldNotCompareAgainstEmptyMonth(t *testing.T) {
	_, ok := Months(100, 0)
	assert.False(t, ok)
}
