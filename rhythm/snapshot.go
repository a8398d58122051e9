package rhythm

import (
	"fmt"
	"time"
)

// Snapshot freezes the timeline established by a metronome at a single instant.
type Snapshot struct {
	// Instant is the point in time with respect to which the snapshot is computed.
	Instant time.Time

	// StartTime is the metronome's timeline origin.
	StartTime time.Time

	Tempo         float64
	BeatsPerBar   int
	BarsPerPhrase int

	// Beat is the song position at Instant.
	Beat Beats
}

// GetBeat gets the 1-based beat number.
func (s Snapshot) GetBeat() int64 {
	return markerNumber(s.Beat, 1)
}

// GetBar gets the 1-based bar number.
func (s Snapshot) GetBar() int64 {
	return markerNumber(s.Beat, float64(s.BeatsPerBar))
}

// GetPhrase gets the 1-based phrase number.
func (s Snapshot) GetPhrase() int64 {
	return markerNumber(s.Beat, float64(s.BeatsPerBar*s.BarsPerPhrase))
}

// GetBeatPhase gets how far through the current beat the snapshot is, in [0, 1).
func (s Snapshot) GetBeatPhase() float64 {
	return markerPhase(s.Beat, 1)
}

// GetBarPhase gets how far through the current bar the snapshot is, in [0, 1).
func (s Snapshot) GetBarPhase() float64 {
	return markerPhase(s.Beat, float64(s.BeatsPerBar))
}

// GetBeatWithinBar returns the beat number of the snapshot relative to the start of the bar.
func (s Snapshot) GetBeatWithinBar() int {
	return int((s.GetBeat()-1)%int64(s.BeatsPerBar)) + 1
}

// IsDownBeat checks whether the current beat was the first beat in its bar.
func (s Snapshot) IsDownBeat() bool {
	return s.GetBeatWithinBar() == 1
}

// GetBarWithinPhrase returns the bar number of the snapshot relative to the start of the phrase.
func (s Snapshot) GetBarWithinPhrase() int {
	return int((s.GetBar()-1)%int64(s.BarsPerPhrase)) + 1
}

// GetMarker returns the time represented by the snapshot as "phrase.bar.beat".
func (s Snapshot) GetMarker() string {
	return fmt.Sprintf("%d.%d.%d", s.GetPhrase(), s.GetBarWithinPhrase(), s.GetBeatWithinBar())
}
