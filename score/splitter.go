package score

import (
	"fmt"

	"go.starlark.net/starlark"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/midibeat"
)

// splitterValue exposes chart.BeatSplitter. Iterating it yields (beat, t) tuples.
type splitterValue struct {
	s  chart.BeatSplitter
	ev *Evaluator
}

var (
	_ starlark.Iterable = splitterValue{}
	_ starlark.HasAttrs = splitterValue{}
)

var splitterMethods = methods{
	"with_start":          splitterWith(func(s chart.BeatSplitter, v float64) chart.BeatSplitter { return s.WithStart(v) }),
	"with_duration":       splitterWith(func(s chart.BeatSplitter, v float64) chart.BeatSplitter { return s.WithDuration(v) }),
	"with_frequency":      splitterWith(func(s chart.BeatSplitter, v float64) chart.BeatSplitter { return s.WithFrequency(v) }),
	"with_offset":         splitterWith(func(s chart.BeatSplitter, v float64) chart.BeatSplitter { return s.WithOffset(v) }),
	"with_delay":          splitterWith(func(s chart.BeatSplitter, v float64) chart.BeatSplitter { return s.WithDelay(v) }),
	"make_actions":        splitterMakeActions,
	"make_actions_custom": splitterMakeActionsCustom,
}

func (s splitterValue) String() string {
	return fmt.Sprintf("beat_splitter(start=%v, duration=%v, frequency=%v, offset=%v, delay=%v)",
		s.s.Start, s.s.Duration, s.s.Frequency, s.s.Offset, s.s.Delay)
}
func (s splitterValue) Type() string { return "beat_splitter" }
func (s splitterValue) Freeze() {}
func (s splitterValue) Truth() starlark.Bool { return starlark.True }
func (s splitterValue) Hash() (uint32, error) { return unhashable(s) }

func (s splitterValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "start":
		return starlark.Float(s.s.Start), nil
	case "duration":
		return starlark.Float(s.s.Duration), nil
	case "frequency":
		return starlark.Float(s.s.Frequency), nil
	case "offset":
		return starlark.Float(s.s.Offset), nil
	case "delay":
		return starlark.Float(s.s.Delay), nil
	}
	return splitterMethods.attr(s, name), nil
}

func (s splitterValue) AttrNames() []string {
	return append([]string{"delay", "duration", "frequency", "offset", "start"}, splitterMethods.names()...)
}

// Iterate yields the splitter's steps. An invalid splitter yields nothing and fails the evaluation.
func (s splitterValue) Iterate() starlark.Iterator {
	steps, err := s.s.Split()
	if err != nil {
		s.ev.failAt(s.ev.position(), "beat_splitter", err)
		return &stepIterator{}
	}
	return &stepIterator{steps: steps}
}

type stepIterator struct {
	steps []chart.Step
	i     int
}

func (it *stepIterator) Next(p *starlark.Value) bool {
	if it.i >= len(it.steps) {
		return false
	}
	step := it.steps[it.i]
	*p = starlark.Tuple{starlark.Float(step.Beat), starlark.Float(step.T)}
	it.i++
	return true
}

func (it *stepIterator) Done() {}

func splitterWith(set func(chart.BeatSplitter, float64) chart.BeatSplitter) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v floatArg
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		s := b.Receiver().(splitterValue)
		return splitterValue{s: set(s.s, float64(v)), ev: s.ev}, nil
	}
}

func splitterMakeActions(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ev := evaluatorFrom(thread)
	var batch batchArg
	group := groupArg{}
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "batch", &batch, "group?", &group); err != nil {
		return nil, err
	}
	s := b.Receiver().(splitterValue)
	actions, err := s.s.MakeActions(chart.CmdBatch(batch), group.or(ev.group), ev.rng)
	if err != nil {
		return nil, ev.fail(b.Name(), err)
	}
	return actionList(actions), nil
}

func splitterMakeActionsCustom(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ev := evaluatorFrom(thread)
	var fn starlark.Callable
	group := groupArg{}
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "fn", &fn, "group?", &group); err != nil {
		return nil, err
	}
	s := b.Receiver().(splitterValue)
	actions, err := s.s.MakeActionsCustom(func(step chart.Step) ([]chart.SpawnCmd, error) {
		res, err := starlark.Call(thread, fn, starlark.Tuple{starlark.Float(step.Beat), starlark.Float(step.T)}, nil)
		if err != nil {
			return nil, err
		}
		return toCmds(res)
	}, group.or(ev.group))
	if err != nil {
		if _, isEval := err.(*starlark.EvalError); isEval {
			return nil, err
		}
		return nil, ev.fail(b.Name(), err)
	}
	return actionList(actions), nil
}

// markedBeatsValue exposes a MIDI note list. It is indexable and iterable.
type markedBeatsValue struct {
	m  midibeat.MarkedBeats
	ev *Evaluator
}

var (
	_ starlark.Indexable = markedBeatsValue{}
	_ starlark.Sequence  = markedBeatsValue{}
	_ starlark.HasAttrs  = markedBeatsValue{}
)

var markedBeatsMethods = methods{
	"offset":          markedOffset,
	"len":             markedLen,
	"normalize_pitch": markedNormalizePitch,
	"get_beat":        markedGet(func(b midibeat.MarkedBeat) float64 { return float64(b.Beat) }),
	"get_percent":     markedGet(func(b midibeat.MarkedBeat) float64 { return b.Percent }),
	"get_pitch":       markedGet(func(b midibeat.MarkedBeat) float64 { return b.Pitch }),
	"last_beat":       markedLastBeat,
	"make_actions":    markedMakeActions,
}

func (m markedBeatsValue) String() string { return fmt.Sprintf("marked_beats(%d)", len(m.m)) }
func (m markedBeatsValue) Type() string { return "marked_beats" }
func (m markedBeatsValue) Freeze() {}
func (m markedBeatsValue) Truth() starlark.Bool { return len(m.m) > 0 }
func (m markedBeatsValue) Hash() (uint32, error) { return unhashable(m) }
func (m markedBeatsValue) Len() int { return len(m.m) }
func (m markedBeatsValue) Index(i int) starlark.Value { return markedBeatValue{b: m.m[i]} }

func (m markedBeatsValue) Iterate() starlark.Iterator {
	return &markedIterator{m: m.m}
}

func (m markedBeatsValue) Attr(name string) (starlark.Value, error) {
	return markedBeatsMethods.attr(m, name), nil
}

func (m markedBeatsValue) AttrNames() []string {
	return markedBeatsMethods.names()
}

type markedIterator struct {
	m midibeat.MarkedBeats
	i int
}

func (it *markedIterator) Next(p *starlark.Value) bool {
	if it.i >= len(it.m) {
		return false
	}
	*p = markedBeatValue{b: it.m[it.i]}
	it.i++
	return true
}

func (it *markedIterator) Done() {}

func markedOffset(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var d floatArg
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &d); err != nil {
		return nil, err
	}
	m := b.Receiver().(markedBeatsValue)
	return markedBeatsValue{m: m.m.Offset(d.beats()), ev: m.ev}, nil
}

func markedLen(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeInt(b.Receiver().(markedBeatsValue).m.Len()), nil
}

func markedLastBeat(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	last, err := b.Receiver().(markedBeatsValue).m.LastBeat()
	if err != nil {
		return nil, evaluatorFrom(thread).fail(b.Name(), err)
	}
	return starlark.Float(last), nil
}

func markedNormalizePitch(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	m := b.Receiver().(markedBeatsValue)
	return markedBeatsValue{m: m.m.NormalizePitch(), ev: m.ev}, nil
}

func markedGet(field func(midibeat.MarkedBeat) float64) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var i int
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &i); err != nil {
			return nil, err
		}
		m := b.Receiver().(markedBeatsValue).m
		if i < 0 {
			i += len(m)
		}
		if i < 0 || i >= len(m) {
			return nil, fmt.Errorf("%s: index %d out of range [0:%d]", b.Name(), i, len(m))
		}
		return starlark.Float(field(m[i])), nil
	}
}

func markedMakeActions(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ev := evaluatorFrom(thread)
	var batch batchArg
	group := groupArg{}
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "batch", &batch, "group?", &group); err != nil {
		return nil, err
	}
	m := b.Receiver().(markedBeatsValue)
	return actionList(m.m.MakeActions(chart.CmdBatch(batch), group.or(ev.group), ev.rng)), nil
}
