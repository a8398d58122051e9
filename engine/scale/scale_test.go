package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToUnitClamp(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		min, max float64
		in       float64
		expected float64
	}{
		{0, 10, 5, 0.5},
		{0, 10, 12, 1},
		{0, 10, -3, 0},
		{60, 72, 66, 0.5},
		{4, 4, 4, 0},
	}

	for _, testCase := range testCases {
		f := ToUnitClamp(testCase.min, testCase.max)
		assert.InDelta(t, testCase.expected, f(testCase.in), 1e-9)
	}
}

func TestClampToRange(t *testing.T) {
	t.Parallel()

	f := Clamp(0, 1, -50, 50)
	assert.InDelta(t, 0.0, f(0.5), 1e-9)
	assert.InDelta(t, 50.0, f(2), 1e-9)
}
