package world

import (
	"github.com/fogleman/ease"

	"github.com/robmorgan/cadence/effect"
	"github.com/robmorgan/cadence/rhythm"
)

const (
	// LaserWarmup is how long a laser is telegraphed before it becomes lethal.
	LaserWarmup rhythm.Beats = 4
	// LaserActive is how long a laser stays lethal by default.
	LaserActive rhythm.Beats = 1
	// LaserCooldown is how long a laser lingers after it stops being lethal.
	LaserCooldown rhythm.Beats = 0.25

	// BombWarmup is how long a bomb is telegraphed before it detonates.
	BombWarmup rhythm.Beats = 2
	// BombActive is how long a detonation stays lethal.
	BombActive rhythm.Beats = 0.25
	// BombRadius is the blast radius in world units.
	BombRadius = 10.0

	// BulletTravel is how long a bullet takes to get from its start to its end.
	BulletTravel rhythm.Beats = 4
)

// Phase is the stage of a telegraphed hazard's lifetime.
type Phase int

const (
	PhaseWarmup Phase = iota
	PhaseActive
	PhaseCooldown
	PhaseDead
)

func (p Phase) String() string {
	switch p {
	case PhaseWarmup:
		return "warmup"
	case PhaseActive:
		return "active"
	case PhaseCooldown:
		return "cooldown"
	default:
		return "dead"
	}
}

// Durations describes the three phases of a laser.
type Durations struct {
	Warmup   rhythm.Beats
	Active   rhythm.Beats
	Cooldown rhythm.Beats
}

// DefaultLaserDurations is the timing used by lasers unless a score overrides it.
func DefaultLaserDurations() Durations {
	return Durations{Warmup: LaserWarmup, Active: LaserActive, Cooldown: LaserCooldown}
}

// OrDefault returns the default laser durations when d is the zero value.
func (d Durations) OrDefault() Durations {
	if d == (Durations{}) {
		return DefaultLaserDurations()
	}
	return d
}

// Total is the full lifetime covered by d.
func (d Durations) Total() rhythm.Beats {
	return d.Warmup + d.Active + d.Cooldown
}

// phaseAt works out where elapsed beats fall within d.
func (d Durations) phaseAt(elapsed rhythm.Beats) Phase {
	switch {
	case elapsed < d.Warmup:
		return PhaseWarmup
	case elapsed < d.Warmup+d.Active:
		return PhaseActive
	case elapsed < d.Total():
		return PhaseCooldown
	default:
		return PhaseDead
	}
}

// Enemy is a live hazard in the world. The set of enemies is closed: Bullet, Laser and CircleBomb.
type Enemy interface {
	// Kind names the enemy type, e.g. "bullet".
	Kind() string

	// StartTime is the beat at which the enemy was spawned.
	StartTime() rhythm.Beats

	// EndTime is the beat after which the enemy can be removed.
	EndTime() rhythm.Beats

	// Lethal reports whether touching the enemy at beat now hurts the player.
	Lethal(now rhythm.Beats) bool

	enemy()
}

// Bullet travels in a straight line from Start to End.
type Bullet struct {
	Start    Pos
	End      Pos
	Spawned  rhythm.Beats
	Duration rhythm.Beats
}

// NewBullet creates a bullet that leaves start at beat now and reaches end BulletTravel beats later.
func NewBullet(start, end Pos, now rhythm.Beats) *Bullet {
	return &Bullet{Start: start, End: end, Spawned: now, Duration: BulletTravel}
}

func (b *Bullet) Kind() string { return "bullet" }
func (b *Bullet) StartTime() rhythm.Beats { return b.Spawned }
func (b *Bullet) EndTime() rhythm.Beats { return b.Spawned + b.Duration }
func (b *Bullet) Lethal(now rhythm.Beats) bool { return now >= b.Spawned && now < b.EndTime() }
func (b *Bullet) enemy() {}

// PositionAt returns where the bullet is at beat now.
func (b *Bullet) PositionAt(now rhythm.Beats) Pos {
	env := effect.NewEnvelope(ease.Linear, float64(b.Duration))
	return Lerp(b.Start, b.End, env.Progress(float64(now-b.Spawned)))
}

// Laser is an infinite line through Position at Angle degrees.
type Laser struct {
	Position  Pos
	Angle     float64
	Spawned   rhythm.Beats
	Durations Durations
}

// NewLaserThroughPoint creates a laser through p at angle degrees whose warmup starts at beat now.
func NewLaserThroughPoint(p Pos, angle float64, now rhythm.Beats, d Durations) *Laser {
	return &Laser{Position: p, Angle: angle, Spawned: now, Durations: d}
}

// NewLaserThroughPoints creates a laser along the line from a to b whose warmup starts at beat now.
func NewLaserThroughPoints(a, b Pos, now rhythm.Beats, d Durations) *Laser {
	return NewLaserThroughPoint(a, a.AngleTo(b), now, d)
}

func (l *Laser) Kind() string { return "laser" }
func (l *Laser) StartTime() rhythm.Beats { return l.Spawned }
func (l *Laser) EndTime() rhythm.Beats { return l.Spawned + l.Durations.Total() }
func (l *Laser) enemy() {}

// Phase returns the laser's phase at beat now.
func (l *Laser) Phase(now rhythm.Beats) Phase {
	return l.Durations.phaseAt(now - l.Spawned)
}

// FireTime is the beat at which the laser becomes lethal.
func (l *Laser) FireTime() rhythm.Beats {
	return l.Spawned + l.Durations.Warmup
}

func (l *Laser) Lethal(now rhythm.Beats) bool {
	return l.Phase(now) == PhaseActive
}

// WarmupIntensity ramps from 0 to 1 across the warmup so the telegraph gets brighter as the laser is about to fire.
func (l *Laser) WarmupIntensity(now rhythm.Beats) float64 {
	env := effect.NewEnvelope(ease.InQuart, float64(l.Durations.Warmup))
	return env.Progress(float64(now - l.Spawned))
}

// CircleBomb detonates in a circle around Pos after BombWarmup beats.
type CircleBomb struct {
	Pos     Pos
	Radius  float64
	Spawned rhythm.Beats
}

// NewCircleBomb creates a bomb at p whose warmup starts at beat now.
func NewCircleBomb(p Pos, now rhythm.Beats) *CircleBomb {
	return &CircleBomb{Pos: p, Radius: BombRadius, Spawned: now}
}

func (c *CircleBomb) Kind() string { return "bomb" }
func (c *CircleBomb) StartTime() rhythm.Beats { return c.Spawned }
func (c *CircleBomb) EndTime() rhythm.Beats { return c.Spawned + BombWarmup + BombActive }
func (c *CircleBomb) enemy() {}

// Phase returns the bomb's phase at beat now.
func (c *CircleBomb) Phase(now rhythm.Beats) Phase {
	return Durations{Warmup: BombWarmup, Active: BombActive}.phaseAt(now - c.Spawned)
}

// DetonateTime is the beat at which the bomb becomes lethal.
func (c *CircleBomb) DetonateTime() rhythm.Beats {
	return c.Spawned + BombWarmup
}

func (c *CircleBomb) Lethal(now rhythm.Beats) bool {
	return c.Phase(now) == PhaseActive
}

// Contains reports whether p is inside the blast.
func (c *CircleBomb) Contains(p Pos) bool {
	return c.Pos.Distance(p) <= c.Radius
}
