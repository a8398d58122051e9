package midibeat

import (
	"math"
	"math/rand"

	"github.com/gruntwork-io/go-commons/errors"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/engine/scale"
	"github.com/robmorgan/cadence/rhythm"
)

// MarkedBeat is a note with its position through the track and its pitch.
type MarkedBeat struct {
	Beat rhythm.Beats

	// Percent is Beat divided by the beat of the last note.
	Percent float64

	// Pitch is the note key scaled to [0, 1].
	Pitch float64
}

// MarkedBeats is a list of notes in track order.
type MarkedBeats []MarkedBeat

func mark(notes []note) MarkedBeats {
	if len(notes) == 0 {
		return MarkedBeats{}
	}
	last := notes[len(notes)-1].beat

	out := make(MarkedBeats, 0, len(notes))
	for _, n := range notes {
		percent := 0.0
		if last != 0 {
			percent = float64(n.beat / last)
		}
		out = append(out, MarkedBeat{Beat: n.beat, Percent: percent, Pitch: float64(n.key) / 127})
	}
	return out
}

func (m MarkedBeats) Len() int {
	return len(m)
}

// Offset returns a copy with every beat moved by d.
func (m MarkedBeats) Offset(d rhythm.Beats) MarkedBeats {
	out := make(MarkedBeats, len(m))
	for i, b := range m {
		b.Beat += d
		out[i] = b
	}
	return out
}

// NormalizePitch returns a copy with pitches rescaled so the lowest is 0 and the highest is 1. If every note has
// the same pitch they all become 0.
func (m MarkedBeats) NormalizePitch() MarkedBeats {
	if len(m) == 0 {
		return MarkedBeats{}
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range m {
		lo = math.Min(lo, b.Pitch)
		hi = math.Max(hi, b.Pitch)
	}

	toUnit := scale.ToUnitClamp(lo, hi)
	out := make(MarkedBeats, len(m))
	for i, b := range m {
		b.Pitch = toUnit(b.Pitch)
		out[i] = b
	}
	return out
}

// LastBeat returns the beat of the final note.
func (m MarkedBeats) LastBeat() (rhythm.Beats, error) {
	if len(m) == 0 {
		return 0, errors.WithStackTrace(EmptyTrackError{})
	}
	return m[len(m)-1].Beat, nil
}

// Beats returns just the beats.
func (m MarkedBeats) Beats() []rhythm.Beats {
	out := make([]rhythm.Beats, len(m))
	for i, b := range m {
		out[i] = b.Beat
	}
	return out
}

// Grouped splits m into runs of consecutive notes that share a pitch.
func (m MarkedBeats) Grouped() []MarkedBeats {
	var groups []MarkedBeats
	for i, b := range m {
		if i == 0 || b.Pitch != m[i-1].Pitch {
			groups = append(groups, MarkedBeats{})
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], b)
	}
	return groups
}

// MakeActions creates one action per note, using each note's percent as the batch progress.
func (m MarkedBeats) MakeActions(batch chart.CmdBatch, group uint32, rng *rand.Rand) []chart.BeatAction {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	actions := make([]chart.BeatAction, 0, len(m))
	for _, b := range m {
		actions = append(actions, chart.NewBeatAction(b.Beat, group, batch.At(b.Percent, rng)))
	}
	return actions
}
