package world

import (
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/rhythm"
)

// Spawned is an enemy along with the group settings that were in force when it was spawned.
type Spawned struct {
	Enemy    Enemy
	Group    uint32
	Settings GroupSettings
}

// Fading is a cleared enemy that is still being drawn while it fades away.
type Fading struct {
	Spawned
	Cleared rhythm.Beats
	FadeOut FadeOut
}

// Alpha returns the fading enemy's opacity at beat now.
func (f Fading) Alpha(now rhythm.Beats) float64 {
	return f.FadeOut.AlphaAt(now - f.Cleared)
}

// State is an in-memory World.
type State struct {
	mu      sync.RWMutex
	enemies []Spawned
	fading  []Fading
	groups  map[uint32]GroupSettings
}

// NewState creates an empty world.
func NewState() *State {
	return &State{
		groups: make(map[uint32]GroupSettings),
	}
}

// group returns the settings for id. Callers must hold the lock.
func (s *State) group(id uint32) GroupSettings {
	if g, ok := s.groups[id]; ok {
		return g
	}
	return DefaultGroupSettings()
}

func (s *State) update(id uint32, fn func(g *GroupSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.group(id)
	fn(&g)
	s.groups[id] = g
}

// Spawn adds e to the world, stamping it with the group's current settings.
func (s *State) Spawn(now rhythm.Beats, group uint32, e Enemy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enemies = append(s.enemies, Spawned{Enemy: e, Group: group, Settings: s.group(group)})
	logger.GetProjectLogger().WithFields(logrus.Fields{
		"beat":  float64(now),
		"group": group,
		"kind":  e.Kind(),
	}).Debug("spawned enemy")
}

// ClearEnemies removes every live enemy. Enemies in groups with a fade-out configured keep being drawn until
// their fade finishes.
func (s *State) ClearEnemies(now rhythm.Beats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.enemies {
		g := s.group(e.Group)
		if g.FadeOut == nil {
			continue
		}
		s.fading = append(s.fading, Fading{Spawned: e, Cleared: now, FadeOut: *g.FadeOut})
	}
	s.enemies = nil
}

func (s *State) SetGroupRotation(group uint32, r *Rotation) {
	s.update(group, func(g *GroupSettings) { g.Rotation = r })
}

func (s *State) SetFadeOut(group uint32, f *FadeOut) {
	s.update(group, func(g *GroupSettings) { g.FadeOut = f })
}

func (s *State) SetHitbox(group uint32, on bool) {
	s.update(group, func(g *GroupSettings) { g.Hitbox = on })
}

func (s *State) SetRender(group uint32, on bool) {
	s.update(group, func(g *GroupSettings) { g.Render = on })
}

func (s *State) ShowWarmup(group uint32, on bool) {
	s.update(group, func(g *GroupSettings) { g.ShowWarmup = on })
}

// Group returns the current settings for a group.
func (s *State) Group(id uint32) GroupSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.group(id)
}

// Groups returns the ids of every group a directive has touched, in ascending order.
func (s *State) Groups() []uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := maps.Keys(s.groups)
	slices.Sort(ids)
	return ids
}

// Enemies returns a copy of the live enemies.
func (s *State) Enemies() []Spawned {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.enemies)
}

// Fading returns a copy of the enemies that are fading out.
func (s *State) Fading() []Fading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fading)
}

// Lethal returns the enemies that can hurt the player at beat now. Enemies in groups with the hitbox disabled are
// never lethal.
func (s *State) Lethal(now rhythm.Beats) []Spawned {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Spawned
	for _, e := range s.enemies {
		if e.Settings.Hitbox && e.Enemy.Lethal(now) {
			out = append(out, e)
		}
	}
	return out
}

// Update drops enemies whose lifetime has ended and fades that have completed. It returns how many entries were
// removed.
func (s *State) Update(now rhythm.Beats) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.enemies) + len(s.fading)
	s.enemies = keep(s.enemies, func(e Spawned) bool {
		return now < e.Enemy.EndTime()
	})
	s.fading = keep(s.fading, func(f Fading) bool {
		return now < f.Cleared+f.FadeOut.Duration
	})
	return before - len(s.enemies) - len(s.fading)
}

// CountByKind tallies the live enemies by kind.
func (s *State) CountByKind() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range s.enemies {
		counts[e.Enemy.Kind()]++
	}
	return counts
}

// keep filters in place, retaining the elements for which fn is true.
func keep[T any](in []T, fn func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}
