package chart

import (
	"math"
	"math/rand"

	"github.com/gruntwork-io/go-commons/errors"

	"github.com/robmorgan/cadence/rhythm"
)

// DefaultSplitDuration is four bars of four beats.
const DefaultSplitDuration = 16.0

// MaxSplitSteps bounds how many steps a single splitter may produce.
const MaxSplitSteps = 1 << 16

// splitEpsilon absorbs rounding in k*frequency+offset so the final step of an exact fit isn't lost.
const splitEpsilon = 1e-9

// Step is one beat produced by a BeatSplitter together with its progress through the batch.
type Step struct {
	Beat rhythm.Beats
	T    float64
}

// BeatSplitter divides a window of beats into evenly spaced steps.
type BeatSplitter struct {
	Start     float64
	Duration  float64
	Frequency float64

	// Offset shifts the beats and the batch progress. Delay shifts only the beats.
	Offset float64
	Delay  float64
}

// NewBeatSplitter creates a splitter over the default four bar window.
func NewBeatSplitter(start, frequency float64) BeatSplitter {
	return BeatSplitter{Start: start, Duration: DefaultSplitDuration, Frequency: frequency}
}

func (s BeatSplitter) WithStart(start float64) BeatSplitter {
	s.Start = start
	return s
}

func (s BeatSplitter) WithDuration(duration float64) BeatSplitter {
	s.Duration = duration
	return s
}

func (s BeatSplitter) WithFrequency(frequency float64) BeatSplitter {
	s.Frequency = frequency
	return s
}

func (s BeatSplitter) WithOffset(offset float64) BeatSplitter {
	s.Offset = offset
	return s
}

func (s BeatSplitter) WithDelay(delay float64) BeatSplitter {
	s.Delay = delay
	return s
}

// Validate checks that the splitter terminates.
func (s BeatSplitter) Validate() error {
	if math.IsNaN(s.Frequency) || math.IsInf(s.Frequency, 0) || s.Frequency <= 0 {
		return errors.WithStackTrace(InvalidConfigurationError{Field: "frequency", Value: s.Frequency, Reason: "must be a positive number"})
	}
	if math.IsNaN(s.Duration) || math.IsInf(s.Duration, 0) || s.Duration < 0 {
		return errors.WithStackTrace(InvalidConfigurationError{Field: "duration", Value: s.Duration, Reason: "must be a non-negative number"})
	}
	for _, v := range []struct {
		field string
		value float64
	}{{"start", s.Start}, {"offset", s.Offset}, {"delay", s.Delay}} {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return errors.WithStackTrace(InvalidConfigurationError{Field: v.field, Value: v.value, Reason: "must be finite"})
		}
	}
	if n := math.Floor((s.Duration-s.Offset+splitEpsilon)/s.Frequency) + 1; n > MaxSplitSteps {
		return errors.WithStackTrace(InvalidConfigurationError{Field: "frequency", Value: s.Frequency, Reason: "produces too many steps"})
	}
	return nil
}

// Split enumerates the steps of the splitter. Step k sits at start + k*frequency + offset + delay and has progress
// (k*frequency + offset) / duration. Enumeration stops at the first step whose position passes the duration, so a
// negative offset moves the pattern earlier, and may give a negative t, rather than trimming it.
func (s BeatSplitter) Split() ([]Step, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var steps []Step
	for k := 0; ; k++ {
		pos := float64(k)*s.Frequency + s.Offset
		if pos > s.Duration+splitEpsilon {
			break
		}
		t := 0.0
		if s.Duration > 0 {
			t = pos / s.Duration
		}
		steps = append(steps, Step{Beat: rhythm.Beats(s.Start + pos + s.Delay), T: t})
	}
	return steps, nil
}

// MakeActions expands batch into one action per step.
func (s BeatSplitter) MakeActions(batch CmdBatch, group uint32, rng *rand.Rand) ([]BeatAction, error) {
	steps, err := s.Split()
	if err != nil {
		return nil, err
	}
	rng = orDefaultRand(rng)

	actions := make([]BeatAction, 0, len(steps))
	for _, step := range steps {
		actions = append(actions, NewBeatAction(step.Beat, group, batch.At(step.T, rng)))
	}
	return actions, nil
}

// StepFunc produces the commands for one step. Returning no commands skips the step.
type StepFunc func(step Step) ([]SpawnCmd, error)

// MakeActionsCustom calls fn for every step. All commands returned for a step share that step's beat.
func (s BeatSplitter) MakeActionsCustom(fn StepFunc, group uint32) ([]BeatAction, error) {
	steps, err := s.Split()
	if err != nil {
		return nil, err
	}

	var actions []BeatAction
	for _, step := range steps {
		cmds, err := fn(step)
		if err != nil {
			return nil, err
		}
		for _, cmd := range cmds {
			actions = append(actions, NewBeatAction(step.Beat, group, cmd))
		}
	}
	return actions, nil
}

func orDefaultRand(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return rand.New(rand.NewSource(1))
	}
	return rng
}
