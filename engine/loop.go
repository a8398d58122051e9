package engine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/utils/clock"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/score"
	"github.com/robmorgan/cadence/world"
)

// DefaultFPS is used when Options.FPS is not positive.
const DefaultFPS = 60

// Options tune a Loop.
type Options struct {
	FPS    int
	Player world.Pos

	// StopAfter ends the run at this beat. Zero runs until the song has played out.
	StopAfter rhythm.Beats
}

// Frame is what happened during one step of the loop.
type Frame struct {
	Beat       rhythm.Beats
	Marker     string
	Dispatched int
	Culled     int
	Alive      int
	Hits       int
}

// Stats summarises a run.
type Stats struct {
	Frames     int
	Dispatched int
	Hits       int
	LastBeat   rhythm.Beats
}

// Loop drives a song at a fixed frame rate: each frame reads the beat from the metronome, dispatches due actions
// into the world and culls finished enemies.
type Loop struct {
	clock     clock.Clock
	metronome *rhythm.Metronome
	scheduler *chart.Scheduler
	world     *world.State
	player    world.Pos
	tick      time.Duration
	stopAfter rhythm.Beats
	lastBeat  rhythm.Beats
	stats     Stats
	log       *logrus.Entry
}

// NewLoop queues the song's actions and starts its metronome at the song's skip point.
func NewLoop(c clock.Clock, song *score.SongMap, w *world.State, opts Options) (*Loop, error) {
	s, err := song.Scheduler()
	if err != nil {
		return nil, err
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}

	m := rhythm.NewMetronome(c, song.BPM)
	m.Start(song.Skip)

	return &Loop{
		clock:     c,
		metronome: m,
		scheduler: s,
		world:     w,
		player:    opts.Player,
		tick:      time.Second / time.Duration(fps),
		stopAfter: opts.StopAfter,
		lastBeat:  song.LastBeat(),
		log:       logger.GetProjectLogger().WithField("component", "engine"),
	}, nil
}

// Metronome returns the loop's beat clock.
func (l *Loop) Metronome() *rhythm.Metronome {
	return l.metronome
}

// Step advances the world to the metronome's current beat.
func (l *Loop) Step() Frame {
	snap := l.metronome.GetSnapshot(0)
	now := snap.Beat

	f := Frame{Beat: now, Marker: snap.GetMarker()}
	f.Dispatched = l.scheduler.Update(now, l.world, l.player)
	f.Culled = l.world.Update(now)
	f.Alive = len(l.world.Enemies())
	f.Hits = hits(l.world, now, l.player)

	l.stats.Frames++
	l.stats.Dispatched += f.Dispatched
	l.stats.Hits += f.Hits
	l.stats.LastBeat = now

	if f.Dispatched > 0 || f.Hits > 0 {
		l.log.WithFields(logrus.Fields{
			"marker":     f.Marker,
			"beat":       now.Float(),
			"dispatched": f.Dispatched,
			"alive":      f.Alive,
			"enemies":    l.world.CountByKind(),
			"hits":       f.Hits,
		}).Debug("frame")
	}
	return f
}

// Finished reports whether the run is over at beat now.
func (l *Loop) Finished(now rhythm.Beats) bool {
	if l.stopAfter > 0 {
		return now >= l.stopAfter
	}
	return l.scheduler.Done() && len(l.world.Enemies()) == 0 && len(l.world.Fading()) == 0
}

// Stats returns the totals so far.
func (l *Loop) Stats() Stats {
	return l.stats
}

// Run steps the loop once per frame until the song finishes or ctx is cancelled.
func (l *Loop) Run(ctx context.Context) (Stats, error) {
	l.log.WithFields(logrus.Fields{
		"bpm":       l.metronome.GetTempo(),
		"beat_ms":   l.metronome.GetBeatInterval(),
		"queued":    l.scheduler.Len(),
		"last_beat": l.lastBeat.Float(),
		"tick":      l.tick,
	}).Info("starting song")

	t := l.clock.NewTimer(l.tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info("loop shutdown")
			return l.stats, ctx.Err()
		case <-t.C():
			f := l.Step()
			if l.Finished(f.Beat) {
				l.log.WithFields(logrus.Fields{
					"frames":     l.stats.Frames,
					"dispatched": l.stats.Dispatched,
					"hits":       l.stats.Hits,
					"beat":       f.Beat.Float(),
				}).Info("song finished")
				return l.stats, nil
			}
			t.Reset(l.tick)
		}
	}
}
