package midibeat

import "fmt"

// MalformedMidiError is returned when the bytes are not a readable Standard MIDI File.
type MalformedMidiError struct {
	Reason string
	Cause  error
}

func (err MalformedMidiError) Error() string {
	if err.Cause != nil {
		return fmt.Sprintf("malformed midi: %s: %v", err.Reason, err.Cause)
	}
	return fmt.Sprintf("malformed midi: %s", err.Reason)
}

func (err MalformedMidiError) Unwrap() error {
	return err.Cause
}

// EmptyTrackError is returned when a beat list is needed but the first track had no notes.
type EmptyTrackError struct{}

func (err EmptyTrackError) Error() string {
	return "midi track has no note on events"
}
