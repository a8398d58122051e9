package score

import (
	"math"

	"github.com/gruntwork-io/go-commons/errors"
	"golang.org/x/exp/slices"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/rhythm"
)

// SongMap is an evaluated score: the tempo, where playback starts and every action in the song.
type SongMap struct {
	BPM     float64
	Skip    rhythm.Beats
	Actions []chart.BeatAction
}

// NewSongMap creates an empty song at the default tempo.
func NewSongMap() *SongMap {
	return &SongMap{BPM: rhythm.DefaultBPM}
}

// AddAction appends a to the song.
func (m *SongMap) AddAction(a chart.BeatAction) {
	m.Actions = append(m.Actions, a)
}

// AddActions appends every action in as.
func (m *SongMap) AddActions(as []chart.BeatAction) {
	m.Actions = append(m.Actions, as...)
}

// Validate checks the song can be played.
func (m *SongMap) Validate() error {
	if math.IsNaN(m.BPM) || math.IsInf(m.BPM, 0) || m.BPM <= 0 {
		return errors.WithStackTrace(ScriptError{Key: "bpm", Msg: "bpm must be a positive number"})
	}
	if !m.Skip.IsFinite() {
		return errors.WithStackTrace(ScriptError{Key: "skip", Msg: "skip must be finite"})
	}
	for _, a := range m.Actions {
		if err := a.Validate(); err != nil {
			return errors.WithStackTrace(ScriptError{Key: "actions", Msg: err.Error(), Cause: err})
		}
	}
	return nil
}

// SortedActions returns the actions ordered by delivery beat. Actions on the same beat keep their score order.
func (m *SongMap) SortedActions() []chart.BeatAction {
	out := slices.Clone(m.Actions)
	slices.SortStableFunc(out, func(a, b chart.BeatAction) bool {
		return a.Before(b)
	})
	return out
}

// LastBeat returns the latest nominal beat in the song.
func (m *SongMap) LastBeat() rhythm.Beats {
	var last rhythm.Beats
	for _, a := range m.Actions {
		if n := a.Nominal(); n > last {
			last = n
		}
	}
	return last
}

// Scheduler queues the song's actions, dropping any that fall before the skip point.
func (m *SongMap) Scheduler() (*chart.Scheduler, error) {
	s, err := chart.NewScheduler(m.SortedActions())
	if err != nil {
		return nil, err
	}
	if m.Skip > 0 {
		s.Skip(m.Skip)
	}
	return s, nil
}
