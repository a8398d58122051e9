package rhythm

import (
	"math"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Metronome converts wall-clock time into song beats.
// Originally based on https://github.com/Deep-Symmetry/electro/blob/main/src/main/java/org/deepsymmetry/electro/Metronome.java#L449
type Metronome struct {
	mu            sync.Mutex
	clock         clock.PassiveClock
	startTime     time.Time
	tempo         float64
	beatsPerBar   int
	barsPerPhrase int
}

// NewMetronome creates a new Metronome at the given tempo. The song starts at the current instant of c.
func NewMetronome(c clock.PassiveClock, bpm float64) *Metronome {
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return &Metronome{
		clock:         c,
		startTime:     c.Now(),
		tempo:         bpm,
		beatsPerBar:   4,
		barsPerPhrase: 8,
	}
}

// Start restarts the song so that the current instant is at beat skip.
func (m *Metronome) Start(skip Beats) {
	m.mu.Lock()
	defer m.mu.Unlock()

	offset := skip.ToSeconds(m.tempo).Duration()
	m.startTime = m.clock.Now().Add(-offset)
}

func (m *Metronome) GetTempo() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tempo
}

// SetTempo sets a new tempo for the Metronome. The start time will be adjusted so that the current beat is
// unaffected by the tempo change.
func (m *Metronome) SetTempo(bpm float64) {
	if bpm <= 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	instant := m.clock.Now()
	current := beatsSince(instant, m.startTime, m.tempo)
	m.startTime = instant.Add(-current.ToSeconds(bpm).Duration())
	m.tempo = bpm
}

// GetBeatInterval returns the number of milliseconds a beat lasts.
func (m *Metronome) GetBeatInterval() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return beatsToMilliseconds(1, m.tempo)
}

// Beat returns the current song position.
func (m *Metronome) Beat() Beats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return beatsSince(m.clock.Now(), m.startTime, m.tempo)
}

// GetSnapshot captures the timeline at the current instant plus addedDuration.
func (m *Metronome) GetSnapshot(addedDuration time.Duration) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	instant := m.clock.Now().Add(addedDuration)
	return Snapshot{
		Instant:       instant,
		StartTime:     m.startTime,
		Tempo:         m.tempo,
		BeatsPerBar:   m.beatsPerBar,
		BarsPerPhrase: m.barsPerPhrase,
		Beat:          beatsSince(instant, m.startTime, m.tempo),
	}
}

// beatsToMilliseconds calculates milliseconds for given beats and tempo
func beatsToMilliseconds(beats int, tempo float64) float64 {
	return (60000.0 / tempo) * float64(beats)
}

func beatsSince(instant, start time.Time, tempo float64) Beats {
	return Seconds(instant.Sub(start).Seconds()).ToBeats(tempo)
}

// markerNumber calculates the 1-based marker number for a position measured in units of interval beats.
func markerNumber(beat Beats, interval float64) int64 {
	return int64(math.Floor(float64(beat)/interval)) + 1
}

// markerPhase calculates the phase of a marker
func markerPhase(beat Beats, interval float64) float64 {
	ratio := float64(beat) / interval
	return ratio - math.Floor(ratio)
}
