package chart

import (
	"github.com/gruntwork-io/go-commons/errors"

	"github.com/robmorgan/cadence/rhythm"
)

// BeatAction is a command paired with the beat it has to be delivered on. Commands with a warmup are delivered
// early so that they become active on their nominal beat.
type BeatAction struct {
	// Beat is the delivery beat, i.e. the nominal beat minus the command's warmup.
	Beat  rhythm.Beats
	Group uint32
	Cmd   SpawnCmd
}

// NewBeatAction schedules cmd to take effect on the nominal beat.
func NewBeatAction(nominal rhythm.Beats, group uint32, cmd SpawnCmd) BeatAction {
	return BeatAction{
		Beat:  nominal - cmd.Warmup(),
		Group: group,
		Cmd:   cmd,
	}
}

// Nominal is the beat the command is meant to take effect on.
func (a BeatAction) Nominal() rhythm.Beats {
	return a.Beat + a.Cmd.Warmup()
}

// Before orders actions by delivery beat.
func (a BeatAction) Before(other BeatAction) bool {
	return a.Beat < other.Beat
}

// Validate rejects actions that can't be placed in the schedule.
func (a BeatAction) Validate() error {
	if !a.Beat.IsFinite() {
		return errors.WithStackTrace(InvalidBeatError{Beat: float64(a.Beat), Cmd: a.Cmd.Kind.String()})
	}
	return nil
}
