package world

import (
	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/robmorgan/cadence/effect"
	"github.com/robmorgan/cadence/rhythm"
)

// Rotation spins every enemy of a group around Pivot, easing from StartAngle to EndAngle over Duration beats.
type Rotation struct {
	StartAngle float64
	EndAngle   float64
	Duration   rhythm.Beats
	Pivot      Pos

	// Easing names the curve from effect.Lookup. Empty means ease in and out.
	Easing string

	// Started is the beat the rotation was switched on. It is set when the directive is executed.
	Started rhythm.Beats
}

// AngleAt returns the rotation in degrees at beat now.
func (r Rotation) AngleAt(now rhythm.Beats) float64 {
	env := effect.NewEnvelope(effect.CurveOr(r.Easing, ease.InOutQuad), float64(r.Duration))
	return env.Interpolate(r.StartAngle, r.EndAngle, float64(now-r.Started))
}

// Apply rotates p about the pivot by the angle at beat now.
func (r Rotation) Apply(p Pos, now rhythm.Beats) Pos {
	return p.RotateAround(r.Pivot, r.AngleAt(now))
}

// FadeOut describes how cleared enemies of a group disappear.
type FadeOut struct {
	Color    colorful.Color
	Alpha    float64
	Duration rhythm.Beats

	// Easing names the curve from effect.Lookup. Empty means ease out.
	Easing string
}

// AlphaAt returns the remaining opacity elapsed beats into the fade.
func (f FadeOut) AlphaAt(elapsed rhythm.Beats) float64 {
	env := effect.NewEnvelope(effect.CurveOr(f.Easing, ease.OutQuad), float64(f.Duration))
	return f.Alpha * (1 - env.Progress(float64(elapsed)))
}

// GroupSettings are the directives that apply to enemies spawned into a group.
type GroupSettings struct {
	Rotation   *Rotation
	FadeOut    *FadeOut
	Hitbox     bool
	Render     bool
	ShowWarmup bool
}

// DefaultGroupSettings is what a group looks like before any directive touches it.
func DefaultGroupSettings() GroupSettings {
	return GroupSettings{Hitbox: true, Render: true, ShowWarmup: true}
}

// World receives the effects of dispatched spawn commands.
type World interface {
	// Spawn adds an enemy to the given group.
	Spawn(now rhythm.Beats, group uint32, e Enemy)

	// ClearEnemies removes every live enemy. Queued commands are unaffected.
	ClearEnemies(now rhythm.Beats)

	SetGroupRotation(group uint32, r *Rotation)
	SetFadeOut(group uint32, f *FadeOut)
	SetHitbox(group uint32, on bool)
	SetRender(group uint32, on bool)
	ShowWarmup(group uint32, on bool)
}
