package chart

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

func beatsOf(steps []Step) []float64 {
	out := make([]float64, 0, len(steps))
	for _, s := range steps {
		out = append(out, float64(s.Beat))
	}
	return out
}

func tsOf(steps []Step) []float64 {
	out := make([]float64, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.T)
	}
	return out
}

func requireFloats(t *testing.T, expected, actual []float64) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.InDelta(t, expected[i], actual[i], 1e-9, "index %d", i)
	}
}

func TestSplitEveryFourBeats(t *testing.T) {
	t.Parallel()

	steps, err := BeatSplitter{Start: 0, Duration: 16, Frequency: 4}.Split()
	require.NoError(t, err)
	requireFloats(t, []float64{0, 4, 8, 12, 16}, beatsOf(steps))
	requireFloats(t, []float64{0, 0.25, 0.5, 0.75, 1}, tsOf(steps))
}

func TestSplitWithOffset(t *testing.T) {
	t.Parallel()

	steps, err := BeatSplitter{Start: 0, Duration: 16, Frequency: 4, Offset: 2}.Split()
	require.NoError(t, err)
	requireFloats(t, []float64{2, 6, 10, 14}, beatsOf(steps))
	requireFloats(t, []float64{0.125, 0.375, 0.625, 0.875}, tsOf(steps))
}

func TestSplitWithNegativeOffset(t *testing.T) {
	t.Parallel()

	steps, err := BeatSplitter{Start: 0, Duration: 16, Frequency: 4, Offset: -2}.Split()
	require.NoError(t, err)
	requireFloats(t, []float64{-2, 2, 6, 10, 14}, beatsOf(steps))
	requireFloats(t, []float64{-0.125, 0.125, 0.375, 0.625, 0.875}, tsOf(steps))
}

func TestSplitOffsetVersusDelay(t *testing.T) {
	t.Parallel()

	base := NewBeatSplitter(32, 2).WithDuration(8)
	plain, err := base.Split()
	require.NoError(t, err)

	offset, err := base.WithOffset(1).Split()
	require.NoError(t, err)

	delayed, err := base.WithDelay(1).Split()
	require.NoError(t, err)

	require.Len(t, delayed, len(plain))
	for i := range plain {
		// delay only moves the beat
		assert.InDelta(t, float64(plain[i].Beat)+1, float64(delayed[i].Beat), 1e-9)
		assert.InDelta(t, plain[i].T, delayed[i].T, 1e-9)
	}

	// offset moves the beat and the progress, and the last step falls out of the window
	require.Len(t, offset, len(plain)-1)
	for i := range offset {
		assert.InDelta(t, float64(plain[i].Beat)+1, float64(offset[i].Beat), 1e-9)
		assert.InDelta(t, plain[i].T+1.0/8, offset[i].T, 1e-9)
	}

	// a negative offset moves both the other way and keeps every step
	early, err := base.WithOffset(-1).Split()
	require.NoError(t, err)
	require.Len(t, early, len(plain))
	for i := range plain {
		assert.InDelta(t, float64(plain[i].Beat)-1, float64(early[i].Beat), 1e-9)
		assert.InDelta(t, plain[i].T-1.0/8, early[i].T, 1e-9)
	}
}

func TestSplitAtStepLimit(t *testing.T) {
	t.Parallel()

	steps, err := BeatSplitter{Duration: MaxSplitSteps - 1, Frequency: 1}.Split()
	require.NoError(t, err)
	assert.Len(t, steps, MaxSplitSteps)
}

func TestSplitCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		duration  float64
		frequency float64
	}{
		{16, 4},
		{16, 3},
		{16, 0.25},
		{1, 0.1},
		{0, 1},
		{7, 10},
		{64, 1.0 / 3},
	}

	for _, testCase := range testCases {
		steps, err := BeatSplitter{Duration: testCase.duration, Frequency: testCase.frequency}.Split()
		require.NoError(t, err)
		expected := int(math.Floor(testCase.duration/testCase.frequency+1e-9)) + 1
		assert.Len(t, steps, expected, "duration=%v frequency=%v", testCase.duration, testCase.frequency)
	}
}

func TestSplitZeroDurationHasZeroProgress(t *testing.T) {
	t.Parallel()

	steps, err := BeatSplitter{Start: 3, Duration: 0, Frequency: 1}.Split()
	require.NoError(t, err)
	require.Len(t, steps, 1)
	require.Equal(t, Step{Beat: 3, T: 0}, steps[0])
}

func TestSplitInvalidConfiguration(t *testing.T) {
	t.Parallel()

	testCases := []BeatSplitter{
		{Duration: 16, Frequency: 0},
		{Duration: 16, Frequency: -1},
		{Duration: 16, Frequency: math.NaN()},
		{Duration: -1, Frequency: 1},
		{Duration: 16, Frequency: 1, Start: math.Inf(1)},
		{Duration: 16, Frequency: 1e-12},
		{Duration: 1, Frequency: 1, Offset: -MaxSplitSteps},
	}

	for _, testCase := range testCases {
		_, err := testCase.Split()
		require.Error(t, err)
		require.IsType(t, InvalidConfigurationError{}, errors.Unwrap(err))
	}
}

func TestBuildersReturnCopies(t *testing.T) {
	t.Parallel()

	s := NewBeatSplitter(0, 4)
	moved := s.WithStart(8).WithFrequency(2).WithOffset(1).WithDelay(0.5).WithDuration(4)
	require.Equal(t, BeatSplitter{Start: 0, Duration: DefaultSplitDuration, Frequency: 4}, s)
	require.Equal(t, BeatSplitter{Start: 8, Duration: 4, Frequency: 2, Offset: 1, Delay: 0.5}, moved)
}

func TestMakeActionsLerpsAcrossBatch(t *testing.T) {
	t.Parallel()

	batch := BatchOfBullets(
		Lerped(world.Pos{X: -50, Y: -50}, world.Pos{X: 50, Y: -50}),
		ConstantPos(world.Player()),
	)
	actions, err := NewBeatSplitter(16, 4).MakeActions(batch, 2, nil)
	require.NoError(t, err)
	require.Len(t, actions, 5)

	expectedX := []float64{-50, -25, 0, 25, 50}
	for i, a := range actions {
		require.Equal(t, uint32(2), a.Group)
		require.Equal(t, rhythm.Beats(16+4*i), a.Beat)
		require.Equal(t, CmdBullet, a.Cmd.Kind)
		require.Equal(t, world.LiveConstant, a.Cmd.Start.Kind)
		require.InDelta(t, expectedX[i], a.Cmd.Start.Pos.X, 1e-9)
		require.Equal(t, world.LivePlayer, a.Cmd.End.Kind)
	}
}

func TestMakeActionsLaserBatchIsDeliveredEarly(t *testing.T) {
	t.Parallel()

	batch := BatchOfLasers(ConstantPos(world.Player()), ConstantPos(world.Constant(world.Origin())), world.DefaultLaserDurations())
	actions, err := NewBeatSplitter(80, 1).WithDuration(3).MakeActions(batch, 0, nil)
	require.NoError(t, err)
	require.Len(t, actions, 4)
	for i, a := range actions {
		require.Equal(t, CmdLaserThruPoints, a.Cmd.Kind)
		require.Equal(t, rhythm.Beats(76+i), a.Beat)
		require.Equal(t, rhythm.Beats(80+i), a.Nominal())
	}
}

func TestRandomGridIsSeeded(t *testing.T) {
	t.Parallel()

	batch := BatchOfBombs(RandomGrid(0))
	s := NewBeatSplitter(0, 1)

	first, err := s.MakeActions(batch, 0, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	second, err := s.MakeActions(batch, 0, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Equal(t, first, second)

	for _, a := range first {
		p := a.Cmd.Position.Pos
		require.Equal(t, world.LiveConstant, a.Cmd.Position.Kind)
		// centers of a 10x10 grid sit on odd multiples of 5
		require.InDelta(t, 0.0, math.Mod(math.Abs(p.X)-5, 10), 1e-9)
		require.InDelta(t, 0.0, math.Mod(math.Abs(p.Y)-5, 10), 1e-9)
		require.LessOrEqual(t, math.Abs(p.X), 45.0)
		require.LessOrEqual(t, math.Abs(p.Y), 45.0)
	}
}

func TestMakeActionsCustom(t *testing.T) {
	t.Parallel()

	actions, err := NewBeatSplitter(0, 4).MakeActionsCustom(func(step Step) ([]SpawnCmd, error) {
		if step.T == 0.5 {
			return nil, nil
		}
		return []SpawnCmd{
			CircleBomb(world.Constant(world.Pos{X: step.T})),
			Bullet(world.Player(), world.Player()),
		}, nil
	}, 1)
	require.NoError(t, err)
	require.Len(t, actions, 8)

	// both commands of a step share its beat, and the bomb is delivered early
	require.Equal(t, rhythm.Beats(-2), actions[0].Beat)
	require.Equal(t, rhythm.Beats(0), actions[1].Beat)
	require.Equal(t, actions[0].Nominal(), actions[1].Nominal())
}

func TestMakeActionsCustomPropagatesErrors(t *testing.T) {
	t.Parallel()

	boom := InvalidConfigurationError{Field: "custom", Reason: "boom"}
	_, err := NewBeatSplitter(0, 4).MakeActionsCustom(func(step Step) ([]SpawnCmd, error) {
		return nil, boom
	}, 0)
	require.Equal(t, boom, err)
}
