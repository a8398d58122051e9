package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivePosResolve(t *testing.T) {
	t.Parallel()

	player := Pos{X: 3, Y: -4}

	testCases := []struct {
		name     string
		pos      LivePos
		expected Pos
	}{
		{"constant", Constant(Pos{X: 10, Y: 20}), Pos{X: 10, Y: 20}},
		{"player", Player(), Pos{X: 3, Y: -4}},
		{"offset constant", OffsetFromPlayer(Constant(Pos{X: 1, Y: 1})), Pos{X: 4, Y: -3}},
		{"offset player", OffsetFromPlayer(Player()), Pos{X: 6, Y: -8}},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, testCase.pos.Resolve(player), testCase.name)
	}
}

func TestLivePosResolveIsLateBound(t *testing.T) {
	t.Parallel()

	lp := Player()
	require.Equal(t, Pos{X: 1, Y: 2}, lp.Resolve(Pos{X: 1, Y: 2}))
	require.Equal(t, Pos{X: -7, Y: 9}, lp.Resolve(Pos{X: -7, Y: 9}))
	require.True(t, lp.IsLive())
	require.False(t, Constant(Origin()).IsLive())
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	d := Pos{X: 5, Y: 0}
	player := Pos{X: 1, Y: 1}

	moved := Translate(Constant(Pos{X: 1, Y: 2}), d)
	require.Equal(t, LiveConstant, moved.Kind)
	require.Equal(t, Pos{X: 6, Y: 2}, moved.Resolve(player))

	moved = Translate(Player(), d)
	require.Equal(t, LiveOffsetFromPlayer, moved.Kind)
	require.Equal(t, Pos{X: 6, Y: 1}, moved.Resolve(player))
	require.Equal(t, Pos{X: 15, Y: 10}, moved.Resolve(Pos{X: 10, Y: 10}))

	moved = Translate(OffsetFromPlayer(Constant(Pos{X: 0, Y: 3})), d)
	require.Equal(t, LiveOffsetFromPlayer, moved.Kind)
	require.Equal(t, Pos{X: 6, Y: 4}, moved.Resolve(player))
}

func TestPosHelpers(t *testing.T) {
	t.Parallel()

	a := Pos{X: -50, Y: -50}
	b := Pos{X: 50, Y: 50}
	assert.Equal(t, Pos{}, Lerp(a, b, 0.5))
	assert.Equal(t, Pos{X: 150, Y: 150}, Lerp(a, b, 2))

	c := Circle(0, 0, 10, 90)
	assert.InDelta(t, 0.0, c.X, 1e-9)
	assert.InDelta(t, 10.0, c.Y, 1e-9)

	assert.InDelta(t, 45.0, Origin().AngleTo(Pos{X: 1, Y: 1}), 1e-9)
	assert.InDelta(t, 5.0, Origin().Distance(Pos{X: 3, Y: 4}), 1e-9)

	r := Pos{X: 1, Y: 0}.RotateAround(Origin(), 90)
	assert.InDelta(t, 0.0, r.X, 1e-9)
	assert.InDelta(t, 1.0, r.Y, 1e-9)
}
