package engine

import (
	"math"

	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

const (
	bulletRadius   = 1.0
	laserHalfWidth = 1.0
)

// touches reports whether the enemy overlaps p at beat now. Group rotation is taken into account; lethality is not.
func touches(s world.Spawned, p world.Pos, now rhythm.Beats) bool {
	if r := s.Settings.Rotation; r != nil {
		// Rotating the point the other way is the same as rotating the enemy.
		p = p.RotateAround(r.Pivot, -r.AngleAt(now))
	}
	switch e := s.Enemy.(type) {
	case *world.Bullet:
		return e.PositionAt(now).Distance(p) <= bulletRadius
	case *world.Laser:
		d := world.Direction(e.Angle)
		v := p.Sub(e.Position)
		return math.Abs(v.X*d.Y-v.Y*d.X) <= laserHalfWidth
	case *world.CircleBomb:
		return e.Contains(p)
	}
	return false
}

// hits counts the lethal enemies touching the player at beat now. Nothing reacts to a hit; the loop only reports it.
func hits(w *world.State, now rhythm.Beats, player world.Pos) int {
	n := 0
	for _, e := range w.Lethal(now) {
		if touches(e, player, now) {
			n++
		}
	}
	return n
}
