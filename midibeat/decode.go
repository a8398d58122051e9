package midibeat

import (
	"bytes"
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/robmorgan/cadence/rhythm"
)

// note is a NoteOn event on the first track.
type note struct {
	beat rhythm.Beats
	key  uint8
}

// Parse decodes the first track of a Standard MIDI File into its note on events. bpm is only needed when the file
// uses SMPTE timing.
func Parse(data []byte, bpm float64) (MarkedBeats, error) {
	notes, err := decode(data, bpm)
	if err != nil {
		return nil, err
	}
	return mark(notes), nil
}

// ParseGrouped is like Parse but splits the notes into runs of consecutive notes with the same pitch. Percentages
// are relative to the whole track.
func ParseGrouped(data []byte, bpm float64) ([]MarkedBeats, error) {
	beats, err := Parse(data, bpm)
	if err != nil {
		return nil, err
	}
	return beats.Grouped(), nil
}

// divisionOffset is where the MThd chunk stores its time division.
const divisionOffset = 12

// smpteStandIn is the metric division swapped into SMPTE headers before decoding. The reader only resolves
// absolute times for metric files; delta ticks are unaffected by the swap.
const smpteStandIn = 960

func decode(data []byte, bpm float64) (notes []note, err error) {
	defer func() {
		if r := recover(); r != nil {
			notes = nil
			err = errors.WithStackTrace(MalformedMidiError{Reason: fmt.Sprintf("could not decode file: %v", r)})
		}
	}()

	perBeat, data, err := timing(data, bpm)
	if err != nil {
		return nil, err
	}

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, errors.WithStackTrace(MalformedMidiError{Reason: "could not read file", Cause: err})
	}
	if perBeat == 0 {
		if perBeat, err = metricTicks(s.TimeFormat); err != nil {
			return nil, err
		}
	}

	if len(s.Tracks) == 0 {
		return nil, nil
	}

	var ticks uint64
	for _, ev := range s.Tracks[0] {
		ticks += uint64(ev.Delta)

		var channel, key, velocity uint8
		if !midi.Message(ev.Message).GetNoteOn(&channel, &key, &velocity) {
			continue
		}
		// a note on with no velocity is a note off
		if velocity == 0 {
			continue
		}
		notes = append(notes, note{
			beat: rhythm.Beats(float64(ticks) / perBeat),
			key:  key,
		})
	}
	return notes, nil
}

// timing reads the header division. For SMPTE files it returns the ticks per beat at bpm and a copy of data with
// a metric division the reader accepts. For metric files it returns 0 and data unchanged.
func timing(data []byte, bpm float64) (float64, []byte, error) {
	if len(data) < divisionOffset+2 || string(data[:4]) != "MThd" {
		// let the reader report what is wrong
		return 0, data, nil
	}
	hi, lo := data[divisionOffset], data[divisionOffset+1]
	if hi&0x80 == 0 {
		return 0, data, nil
	}

	perBeat, err := smpteTicks(uint8(-int8(hi)), lo, bpm)
	if err != nil {
		return 0, nil, err
	}
	patched := append([]byte(nil), data...)
	patched[divisionOffset] = byte(smpteStandIn >> 8)
	patched[divisionOffset+1] = byte(smpteStandIn & 0xff)
	return perBeat, patched, nil
}

func metricTicks(tf smf.TimeFormat) (float64, error) {
	v, ok := tf.(smf.MetricTicks)
	if !ok {
		return 0, errors.WithStackTrace(MalformedMidiError{Reason: "unknown time format"})
	}
	if v == 0 {
		return 0, errors.WithStackTrace(MalformedMidiError{Reason: "zero ticks per quarter note"})
	}
	return float64(v), nil
}

func smpteTicks(framesPerSecond, subframes uint8, bpm float64) (float64, error) {
	if bpm <= 0 {
		bpm = rhythm.DefaultBPM
	}
	fps := float64(framesPerSecond)
	if framesPerSecond == 29 {
		// drop frame
		fps = 29.97
	}
	perBeat := fps * float64(subframes) * float64(rhythm.BeatLength(bpm))
	if perBeat <= 0 {
		return 0, errors.WithStackTrace(MalformedMidiError{Reason: "invalid SMPTE timing"})
	}
	return perBeat, nil
}
