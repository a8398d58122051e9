package effect

import (
	"testing"

	"github.com/fogleman/ease"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		easingFunc ease.Function
		duration   float64
		elapsed    float64
		expected   float64
	}{
		{ease.Linear, 4.0, 0.0, 0.0},
		{ease.Linear, 4.0, 2.0, 0.5},
		{ease.Linear, 4.0, 8.0, 1.0},
		{ease.Linear, 4.0, -1.0, 0.0},
		{ease.InQuart, 2.0, 1.0, 0.0625},
		{ease.InOutQuart, 1.0, 1.0, 1.0},
		{ease.Linear, 0.0, 0.0, 1.0},
	}

	for _, testCase := range testCases {
		env := NewEnvelope(testCase.easingFunc, testCase.duration)
		assert.InDelta(t, testCase.expected, env.Progress(testCase.elapsed), 1e-9)
	}
}

func TestEnvelopeInterpolate(t *testing.T) {
	t.Parallel()

	env := NewEnvelope(nil, 4)
	require.InDelta(t, 45.0, env.Interpolate(0, 90, 2), 1e-9)
	require.False(t, env.Done(3.99))
	require.True(t, env.Done(4))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	fn, ok := Lookup("in_quart")
	require.True(t, ok)
	require.InDelta(t, 0.0625, fn(0.5), 1e-9)

	_, ok = Lookup("wobble")
	require.False(t, ok)
}

func TestCurveOr(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 0.25, CurveOr("in_quad", nil)(0.5), 1e-9)
	require.InDelta(t, 0.5, CurveOr("", ease.Linear)(0.5), 1e-9)
	require.InDelta(t, 0.5, CurveOr("wobble", ease.Linear)(0.5), 1e-9)
	require.Len(t, CurveNames(), 14)
}
