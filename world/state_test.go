package world

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/require"
)

func TestStateSpawnStampsGroupSettings(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.SetHitbox(2, false)
	s.Spawn(0, 2, NewBullet(Origin(), Pos{X: 10}, 0))
	s.Spawn(0, 1, NewBullet(Origin(), Pos{X: 10}, 0))

	// later directives do not affect already spawned enemies
	s.SetHitbox(2, true)

	enemies := s.Enemies()
	require.Len(t, enemies, 2)
	require.False(t, enemies[0].Settings.Hitbox)
	require.True(t, enemies[1].Settings.Hitbox)

	lethal := s.Lethal(1)
	require.Len(t, lethal, 1)
	require.Equal(t, uint32(1), lethal[0].Group)

	require.Equal(t, []uint32{2}, s.Groups())
}

func TestStateGroupDirectives(t *testing.T) {
	t.Parallel()

	s := NewState()
	require.Equal(t, DefaultGroupSettings(), s.Group(7))

	rot := &Rotation{StartAngle: 0, EndAngle: 90, Duration: 4}
	s.SetGroupRotation(7, rot)
	s.SetRender(7, false)
	s.ShowWarmup(3, false)

	g := s.Group(7)
	require.Same(t, rot, g.Rotation)
	require.False(t, g.Render)
	require.True(t, g.ShowWarmup)
	require.False(t, s.Group(3).ShowWarmup)
	require.Equal(t, []uint32{3, 7}, s.Groups())

	s.SetGroupRotation(7, nil)
	require.Nil(t, s.Group(7).Rotation)
}

func TestStateUpdateCullsDeadEnemies(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.Spawn(0, 0, NewBullet(Origin(), Pos{X: 1}, 0))
	s.Spawn(0, 0, NewLaserThroughPoint(Origin(), 0, 0, DefaultLaserDurations()))
	s.Spawn(0, 0, NewCircleBomb(Origin(), 0))

	require.Equal(t, 0, s.Update(2))
	require.Equal(t, 1, s.Update(2.25))
	require.Equal(t, map[string]int{"bullet": 1, "laser": 1}, s.CountByKind())
	require.Equal(t, 1, s.Update(4))
	require.Equal(t, 1, s.Update(5.25))
	require.Empty(t, s.Enemies())
}

func TestNamedEasing(t *testing.T) {
	t.Parallel()

	r := Rotation{StartAngle: 0, EndAngle: 100, Duration: 4, Easing: "linear"}
	require.InDelta(t, 25.0, r.AngleAt(1), 1e-9)

	f := FadeOut{Alpha: 1, Duration: 2, Easing: "in_quad"}
	require.InDelta(t, 0.75, f.AlphaAt(1), 1e-9)

	// unknown names fall back to the default curve
	r.Easing = "wobble"
	require.InDelta(t, 50.0, r.AngleAt(2), 1e-9)
}

func TestStateClearEnemiesFadesConfiguredGroups(t *testing.T) {
	t.Parallel()

	s := NewState()
	s.SetFadeOut(1, &FadeOut{Color: colorful.Color{R: 1}, Alpha: 1, Duration: 2})
	s.Spawn(0, 0, NewBullet(Origin(), Pos{X: 1}, 0))
	s.Spawn(0, 1, NewBullet(Origin(), Pos{X: 1}, 0))

	s.ClearEnemies(1)
	require.Empty(t, s.Enemies())

	fading := s.Fading()
	require.Len(t, fading, 1)
	require.Equal(t, uint32(1), fading[0].Group)
	require.InDelta(t, 1.0, fading[0].Alpha(1), 1e-9)
	require.InDelta(t, 0.0, fading[0].Alpha(3), 1e-9)

	require.Equal(t, 0, s.Update(2.5))
	require.Equal(t, 1, s.Update(3))
	require.Empty(t, s.Fading())
}

func TestRotationAngle(t *testing.T) {
	t.Parallel()

	r := Rotation{StartAngle: 0, EndAngle: 180, Duration: 4, Started: 10}
	require.InDelta(t, 0.0, r.AngleAt(10), 1e-9)
	require.InDelta(t, 90.0, r.AngleAt(12), 1e-9)
	require.InDelta(t, 180.0, r.AngleAt(20), 1e-9)

	p := r.Apply(Pos{X: 1}, 14)
	require.InDelta(t, -1.0, p.X, 1e-9)
	require.InDelta(t, 0.0, p.Y, 1e-9)
}
