package rhythm

import (
	"math"
	"time"
)

// DefaultBPM is the tempo used when a score does not set one.
const DefaultBPM = 150.0

// Beats is musical time measured from the start of the song.
type Beats float64

// Seconds is wall-clock time measured from the start of the song.
type Seconds float64

// BeatLength returns how long a single beat lasts at the given tempo.
func BeatLength(bpm float64) Seconds {
	return Seconds(60.0 / bpm)
}

// ToSeconds converts a beat position to seconds at the given tempo.
func (b Beats) ToSeconds(bpm float64) Seconds {
	return Seconds(float64(b) * 60.0 / bpm)
}

// ToBeats converts seconds to a beat position at the given tempo.
func (s Seconds) ToBeats(bpm float64) Beats {
	return Beats(float64(s) * bpm / 60.0)
}

// Duration returns s as a time.Duration.
func (s Seconds) Duration() time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}

// Scale multiplies b by a constant factor.
func (b Beats) Scale(factor float64) Beats {
	return Beats(float64(b) * factor)
}

// Before reports whether b is strictly earlier than other.
func (b Beats) Before(other Beats) bool {
	return b < other
}

// IsFinite is false for NaN and both infinities. Such beats can't be ordered.
func (b Beats) IsFinite() bool {
	f := float64(b)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns b as a plain float64.
func (b Beats) Float() float64 {
	return float64(b)
}
