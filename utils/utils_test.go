package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRGBFromString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		r, g, b uint8
	}{
		{"#FF0000", 255, 0, 0},
		{"#0000ff", 0, 0, 255},
		{"white", 255, 255, 255},
		{" Cyan ", 0, 255, 255},
	}

	for _, testCase := range testCases {
		c, err := GetRGBFromString(testCase.input)
		require.NoError(t, err)
		r, g, b := c.RGB255()
		require.Equal(t, testCase.r, r)
		require.Equal(t, testCase.g, g)
		require.Equal(t, testCase.b, b)
	}

	_, err := GetRGBFromString("not-a-color")
	require.Error(t, err)
}

func TestColorFromUnitClamps(t *testing.T) {
	t.Parallel()

	c := ColorFromUnit(1.5, -0.2, 0.5)
	require.Equal(t, 1.0, c.R)
	require.Equal(t, 0.0, c.G)
	require.Equal(t, 0.5, c.B)
}

func TestLerpAndClamp(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 5.0, Lerp(0.0, 10.0, 0.5), 1e-9)
	require.InDelta(t, 15.0, Lerp(0.0, 10.0, 1.5), 1e-9)
	require.Equal(t, 3, Clamp(7, 0, 3))
	require.Equal(t, 0.0, Clamp(-1.0, 0, 1))
}
