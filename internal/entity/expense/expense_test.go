package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_OnNormalizeCategory_ShouldMatchCaseInsensitively(t *testing.T) {
	assert.Equal(t, Food, NormalizeCategory("food"))
	assert.Equal(t, Transport, NormalizeCategory("TRANSPORT"))
	assert.Equal(t, Bills, NormalizeCategory("Bills"))
	assert.Equal(t, Entertainment, NormalizeCategory("entertainment"))
}

func Test_OnNormalizeCategory_ShouldFallBackToOther(t *testing.T) {
	assert.Equal(t, Other, NormalizeCategory("groceries"))
	assert.Equal(t, Other, NormalizeCategory(""))
}
