package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

func TestTouches(t *testing.T) {
	t.Parallel()

	settings := world.DefaultGroupSettings()
	testCases := []struct {
		name  string
		enemy world.Enemy
		at    rhythm.Beats
		p     world.Pos
		hit   bool
	}{
		{"bullet midway", world.NewBullet(world.Pos{X: -10}, world.Pos{X: 10}, 0), 2, world.Pos{X: 0.5}, true},
		{"bullet behind", world.NewBullet(world.Pos{X: -10}, world.Pos{X: 10}, 0), 2, world.Pos{X: -5}, false},
		{"laser on line", world.NewLaserThroughPoint(world.Origin(), 45, 0, world.DefaultLaserDurations()), 4, world.Pos{X: 20, Y: 20}, true},
		{"laser off line", world.NewLaserThroughPoint(world.Origin(), 45, 0, world.DefaultLaserDurations()), 4, world.Pos{X: 20, Y: 10}, false},
		{"bomb inside", world.NewCircleBomb(world.Pos{X: 5, Y: 5}, 0), 2, world.Pos{X: 10, Y: 10}, true},
		{"bomb outside", world.NewCircleBomb(world.Pos{X: 5, Y: 5}, 0), 2, world.Pos{X: 20, Y: 5}, false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := world.Spawned{Enemy: tc.enemy, Settings: settings}
			assert.Equal(t, tc.hit, touches(s, tc.p, tc.at))
		})
	}
}

func TestTouchesFollowsRotation(t *testing.T) {
	t.Parallel()

	settings := world.DefaultGroupSettings()
	settings.Rotation = &world.Rotation{StartAngle: 90, EndAngle: 90, Duration: 1, Pivot: world.Origin()}
	s := world.Spawned{Enemy: world.NewCircleBomb(world.Pos{X: 20}, 0), Settings: settings}

	// The bomb at (20, 0) has been swung round to (0, 20).
	assert.True(t, touches(s, world.Pos{Y: 20}, 2))
	assert.False(t, touches(s, world.Pos{X: 20}, 2))
}

func TestHitsCountsLethalEnemies(t *testing.T) {
	t.Parallel()

	w := world.NewState()
	w.Spawn(0, 0, world.NewCircleBomb(world.Origin(), 0))
	w.Spawn(0, 1, world.NewCircleBomb(world.Origin(), 0))
	w.SetHitbox(1, false)
	w.Spawn(0, 1, world.NewCircleBomb(world.Origin(), 0))

	assert.Equal(t, 0, hits(w, 1, world.Origin()), "bombs are harmless during warmup")
	assert.Equal(t, 2, hits(w, 2, world.Origin()), "the bomb spawned after the hitbox was disabled never hits")
}
