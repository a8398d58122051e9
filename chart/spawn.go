package chart

import (
	"fmt"

	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

// CmdKind tags the variant held by a SpawnCmd.
type CmdKind int

const (
	CmdBullet CmdKind = iota
	CmdLaser
	CmdLaserThruPoints
	CmdCircleBomb
	CmdSetGroupRotation
	CmdSetFadeOut
	CmdSetHitbox
	CmdSetRender
	CmdShowWarmup
	CmdClearEnemies
)

var cmdNames = map[CmdKind]string{
	CmdBullet:           "bullet",
	CmdLaser:            "laser",
	CmdLaserThruPoints:  "laser_thru_points",
	CmdCircleBomb:       "bomb",
	CmdSetGroupRotation: "set_rotation",
	CmdSetFadeOut:       "set_fadeout",
	CmdSetHitbox:        "set_hitbox",
	CmdSetRender:        "set_render",
	CmdShowWarmup:       "show_warmup",
	CmdClearEnemies:     "clear_enemies",
}

func (k CmdKind) String() string {
	if name, ok := cmdNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CmdKind(%d)", int(k))
}

// ParseCmdKind is the inverse of CmdKind.String.
func ParseCmdKind(name string) (CmdKind, bool) {
	for k, n := range cmdNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// RotationSpec is the payload of a SetGroupRotation command. The pivot stays late-bound until the command runs.
type RotationSpec struct {
	StartAngle float64
	EndAngle   float64
	Duration   rhythm.Beats
	Pivot      world.LivePos
	Easing     string
}

// SpawnCmd is one atomic change to the world. Which fields are meaningful depends on Kind.
type SpawnCmd struct {
	Kind CmdKind

	// Bullet
	Start world.LivePos
	End   world.LivePos

	// Laser and CircleBomb
	Position world.LivePos
	Angle    float64

	// LaserThruPoints
	A world.LivePos
	B world.LivePos

	// Laser and LaserThruPoints
	Durations world.Durations

	// SetGroupRotation and SetFadeOut. Nil switches the directive off.
	Rotation *RotationSpec
	FadeOut  *world.FadeOut

	// SetHitbox, SetRender and ShowWarmup
	Enabled bool
}

func Bullet(start, end world.LivePos) SpawnCmd {
	return SpawnCmd{Kind: CmdBullet, Start: start, End: end}
}

// Laser fires a laser through pos at angle degrees. Zero durations mean the default laser timing.
func Laser(pos world.LivePos, angle float64, d world.Durations) SpawnCmd {
	return SpawnCmd{Kind: CmdLaser, Position: pos, Angle: angle, Durations: d.OrDefault()}
}

// LaserThruPoints fires a laser along the line through a and b. Zero durations mean the default laser timing.
func LaserThruPoints(a, b world.LivePos, d world.Durations) SpawnCmd {
	return SpawnCmd{Kind: CmdLaserThruPoints, A: a, B: b, Durations: d.OrDefault()}
}

func CircleBomb(pos world.LivePos) SpawnCmd {
	return SpawnCmd{Kind: CmdCircleBomb, Position: pos}
}

func SetGroupRotation(r *RotationSpec) SpawnCmd {
	return SpawnCmd{Kind: CmdSetGroupRotation, Rotation: r}
}

func SetFadeOut(f *world.FadeOut) SpawnCmd {
	return SpawnCmd{Kind: CmdSetFadeOut, FadeOut: f}
}

func SetHitbox(on bool) SpawnCmd {
	return SpawnCmd{Kind: CmdSetHitbox, Enabled: on}
}

func SetRender(on bool) SpawnCmd {
	return SpawnCmd{Kind: CmdSetRender, Enabled: on}
}

func ShowWarmup(on bool) SpawnCmd {
	return SpawnCmd{Kind: CmdShowWarmup, Enabled: on}
}

func ClearEnemies() SpawnCmd {
	return SpawnCmd{Kind: CmdClearEnemies}
}

// Warmup is how many beats before its nominal beat the command has to reach the world.
func (c SpawnCmd) Warmup() rhythm.Beats {
	switch c.Kind {
	case CmdLaser, CmdLaserThruPoints:
		return c.Durations.Warmup
	case CmdCircleBomb:
		return world.BombWarmup
	default:
		return 0
	}
}

// Execute applies the command to w. now is the beat the command was delivered at, and player is used to resolve
// any player-relative positions.
func (c SpawnCmd) Execute(now rhythm.Beats, group uint32, w world.World, player world.Pos) {
	switch c.Kind {
	case CmdBullet:
		w.Spawn(now, group, world.NewBullet(c.Start.Resolve(player), c.End.Resolve(player), now))
	case CmdLaser:
		w.Spawn(now, group, world.NewLaserThroughPoint(c.Position.Resolve(player), c.Angle, now, c.Durations))
	case CmdLaserThruPoints:
		w.Spawn(now, group, world.NewLaserThroughPoints(c.A.Resolve(player), c.B.Resolve(player), now, c.Durations))
	case CmdCircleBomb:
		w.Spawn(now, group, world.NewCircleBomb(c.Position.Resolve(player), now))
	case CmdSetGroupRotation:
		if c.Rotation == nil {
			w.SetGroupRotation(group, nil)
			return
		}
		w.SetGroupRotation(group, &world.Rotation{
			StartAngle: c.Rotation.StartAngle,
			EndAngle:   c.Rotation.EndAngle,
			Duration:   c.Rotation.Duration,
			Pivot:      c.Rotation.Pivot.Resolve(player),
			Easing:     c.Rotation.Easing,
			Started:    now,
		})
	case CmdSetFadeOut:
		w.SetFadeOut(group, c.FadeOut)
	case CmdSetHitbox:
		w.SetHitbox(group, c.Enabled)
	case CmdSetRender:
		w.SetRender(group, c.Enabled)
	case CmdShowWarmup:
		w.ShowWarmup(group, c.Enabled)
	case CmdClearEnemies:
		w.ClearEnemies(now)
	}
}

func (c SpawnCmd) String() string {
	switch c.Kind {
	case CmdBullet:
		return fmt.Sprintf("bullet(%s -> %s)", c.Start, c.End)
	case CmdLaser:
		return fmt.Sprintf("laser(%s @ %.1f)", c.Position, c.Angle)
	case CmdLaserThruPoints:
		return fmt.Sprintf("laser(%s -> %s)", c.A, c.B)
	case CmdCircleBomb:
		return fmt.Sprintf("bomb(%s)", c.Position)
	case CmdSetHitbox, CmdSetRender, CmdShowWarmup:
		return fmt.Sprintf("%s(%t)", c.Kind, c.Enabled)
	default:
		return c.Kind.String()
	}
}
