package chart

import (
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

type spawnRecord struct {
	now   rhythm.Beats
	group uint32
	enemy world.Enemy
}

// recordingWorld wraps world.State and remembers every spawn and clear it sees.
type recordingWorld struct {
	*world.State
	spawns []spawnRecord
	clears []rhythm.Beats
}

func newRecordingWorld() *recordingWorld {
	return &recordingWorld{State: world.NewState()}
}

func (w *recordingWorld) Spawn(now rhythm.Beats, group uint32, e world.Enemy) {
	w.spawns = append(w.spawns, spawnRecord{now: now, group: group, enemy: e})
	w.State.Spawn(now, group, e)
}

func (w *recordingWorld) ClearEnemies(now rhythm.Beats) {
	w.clears = append(w.clears, now)
	w.State.ClearEnemies(now)
}
