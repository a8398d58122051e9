package chart

import (
	"container/heap"

	"github.com/sirupsen/logrus"

	"github.com/robmorgan/cadence/logger"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

type queued struct {
	action BeatAction
	seq    uint64
}

// actionQueue is a min-heap on delivery beat. Equal beats come out in the order they were queued.
type actionQueue []queued

func (q actionQueue) Len() int {
	return len(q)
}

func (q actionQueue) Less(i, j int) bool {
	if q[i].action.Beat == q[j].action.Beat {
		return q[i].seq < q[j].seq
	}
	return q[i].action.Beat < q[j].action.Beat
}

func (q actionQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *actionQueue) Push(x interface{}) {
	*q = append(*q, x.(queued))
}

func (q *actionQueue) Pop() (v interface{}) {
	old := *q
	last := len(old) - 1
	v, *q = old[last], old[:last]
	return v
}

// Scheduler hands beat actions to the world once the song reaches their delivery beat.
type Scheduler struct {
	queue actionQueue
	seq   uint64
}

// NewScheduler queues every action. It fails if any action has a beat that can't be ordered.
func NewScheduler(actions []BeatAction) (*Scheduler, error) {
	s := &Scheduler{queue: make(actionQueue, 0, len(actions))}
	for _, a := range actions {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		s.queue = append(s.queue, queued{action: a, seq: s.seq})
		s.seq++
	}
	heap.Init(&s.queue)

	logger.GetProjectLogger().WithFields(logrus.Fields{
		"queued": len(s.queue),
	}).Debug("scheduler ready")
	return s, nil
}

// Push queues one more action.
func (s *Scheduler) Push(a BeatAction) error {
	if err := a.Validate(); err != nil {
		return err
	}
	heap.Push(&s.queue, queued{action: a, seq: s.seq})
	s.seq++
	return nil
}

// Len returns the number of actions still waiting.
func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// Done reports whether every action has been dispatched.
func (s *Scheduler) Done() bool {
	return s.queue.Len() == 0
}

// Peek returns the next action to be dispatched without removing it.
func (s *Scheduler) Peek() (BeatAction, bool) {
	if len(s.queue) == 0 {
		return BeatAction{}, false
	}
	return s.queue[0].action, true
}

// Drain pops every action whose delivery beat is at or before now, in delivery order, and passes it to fn. It
// returns the number of actions popped.
func (s *Scheduler) Drain(now rhythm.Beats, fn func(BeatAction)) int {
	count := 0
	for len(s.queue) > 0 && s.queue[0].action.Beat <= now {
		next := heap.Pop(&s.queue).(queued)
		fn(next.action)
		count++
	}
	return count
}

// Update dispatches every due action to w, resolving player-relative positions against player. Each command runs
// at its own delivery beat, not at now, so catching up after a slow frame keeps the timing intact.
func (s *Scheduler) Update(now rhythm.Beats, w world.World, player world.Pos) int {
	return s.Drain(now, func(a BeatAction) {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"beat":  float64(a.Beat),
			"group": a.Group,
			"cmd":   a.Cmd.Kind.String(),
		}).Debug("dispatching action")
		a.Cmd.Execute(a.Beat, a.Group, w, player)
	})
}

// Skip discards the actions whose nominal beat is before until, for starting a song part way through. It returns
// the number of actions discarded.
func (s *Scheduler) Skip(until rhythm.Beats) int {
	kept := s.queue[:0]
	for _, q := range s.queue {
		if q.action.Nominal() >= until {
			kept = append(kept, q)
		}
	}
	dropped := len(s.queue) - len(kept)
	s.queue = kept
	heap.Init(&s.queue)

	if dropped > 0 {
		logger.GetProjectLogger().WithFields(logrus.Fields{
			"until":   float64(until),
			"dropped": dropped,
		}).Info("skipped actions")
	}
	return dropped
}
