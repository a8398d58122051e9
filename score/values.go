package score

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"go.starlark.net/starlark"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/midibeat"
	"github.com/robmorgan/cadence/world"
)

func unhashable(v starlark.Value) (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", v.Type())
}

// methods builds bound builtins for a value's attributes.
type methods map[string]func(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

func (m methods) attr(recv starlark.Value, name string) starlark.Value {
	fn, ok := m[name]
	if !ok {
		return nil
	}
	return starlark.NewBuiltin(name, fn).BindReceiver(recv)
}

func (m methods) names() []string {
	out := make([]string, 0, len(m))
	for name := range m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// posValue is a position, possibly tracking the player.
type posValue struct {
	lp world.LivePos
}

var (
	_ starlark.HasAttrs = posValue{}
)

func (p posValue) String() string { return fmt.Sprintf("pos(%s)", p.lp) }
func (p posValue) Type() string { return "pos" }
func (p posValue) Freeze() {}
func (p posValue) Truth() starlark.Bool { return starlark.True }
func (p posValue) Hash() (uint32, error) { return unhashable(p) }

var posMethods = methods{
	"translate": posTranslate,
}

func (p posValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "x", "y":
		if p.lp.IsLive() {
			return nil, fmt.Errorf("pos.%s: position depends on the player", name)
		}
		if name == "x" {
			return starlark.Float(p.lp.Pos.X), nil
		}
		return starlark.Float(p.lp.Pos.Y), nil
	case "live":
		return starlark.Bool(p.lp.IsLive()), nil
	}
	return posMethods.attr(p, name), nil
}

func (p posValue) AttrNames() []string {
	return append([]string{"live", "x", "y"}, posMethods.names()...)
}

func posTranslate(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var dx, dy floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "dx", &dx, "dy", &dy); err != nil {
		return nil, err
	}
	p := b.Receiver().(posValue)
	return posValue{lp: world.Translate(p.lp, world.Pos{X: float64(dx), Y: float64(dy)})}, nil
}

// colorValue is an RGB color with an alpha channel.
type colorValue struct {
	c     colorful.Color
	alpha float64
}

func (c colorValue) String() string { return fmt.Sprintf("color(%s, %.2f)", c.c.Hex(), c.alpha) }
func (c colorValue) Type() string { return "color" }
func (c colorValue) Freeze() {}
func (c colorValue) Truth() starlark.Bool { return starlark.True }
func (c colorValue) Hash() (uint32, error) { return unhashable(c) }

func (c colorValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "r":
		return starlark.Float(c.c.R), nil
	case "g":
		return starlark.Float(c.c.G), nil
	case "b":
		return starlark.Float(c.c.B), nil
	case "a":
		return starlark.Float(c.alpha), nil
	case "hex":
		return starlark.String(c.c.Hex()), nil
	}
	return nil, nil
}

func (c colorValue) AttrNames() []string {
	return []string{"a", "b", "g", "hex", "r"}
}

// durationsValue holds the phase lengths of a laser.
type durationsValue struct {
	d world.Durations
}

func (d durationsValue) String() string {
	return fmt.Sprintf("durations(%v, %v, %v)", float64(d.d.Warmup), float64(d.d.Active), float64(d.d.Cooldown))
}
func (d durationsValue) Type() string { return "durations" }
func (d durationsValue) Freeze() {}
func (d durationsValue) Truth() starlark.Bool { return starlark.True }
func (d durationsValue) Hash() (uint32, error) { return unhashable(d) }

func (d durationsValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "warmup":
		return starlark.Float(d.d.Warmup), nil
	case "active":
		return starlark.Float(d.d.Active), nil
	case "cooldown":
		return starlark.Float(d.d.Cooldown), nil
	}
	return nil, nil
}

func (d durationsValue) AttrNames() []string {
	return []string{"active", "cooldown", "warmup"}
}

// cmdValue is a spawn command.
type cmdValue struct {
	cmd chart.SpawnCmd
}

func (c cmdValue) String() string { return c.cmd.String() }
func (c cmdValue) Type() string { return "spawn_cmd" }
func (c cmdValue) Freeze() {}
func (c cmdValue) Truth() starlark.Bool { return starlark.True }
func (c cmdValue) Hash() (uint32, error) { return unhashable(c) }

func (c cmdValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "kind":
		return starlark.String(c.cmd.Kind.String()), nil
	case "warmup":
		return starlark.Float(c.cmd.Warmup()), nil
	}
	return nil, nil
}

func (c cmdValue) AttrNames() []string {
	return []string{"kind", "warmup"}
}

// actionValue is a scheduled spawn command.
type actionValue struct {
	a chart.BeatAction
}

func (a actionValue) String() string {
	return fmt.Sprintf("beat_action(%v, %d, %s)", float64(a.a.Nominal()), a.a.Group, a.a.Cmd)
}
func (a actionValue) Type() string { return "beat_action" }
func (a actionValue) Freeze() {}
func (a actionValue) Truth() starlark.Bool { return starlark.True }
func (a actionValue) Hash() (uint32, error) { return unhashable(a) }

func (a actionValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "beat":
		return starlark.Float(a.a.Nominal()), nil
	case "delivery_beat":
		return starlark.Float(a.a.Beat), nil
	case "group":
		return starlark.MakeUint(uint(a.a.Group)), nil
	case "cmd":
		return cmdValue{cmd: a.a.Cmd}, nil
	}
	return nil, nil
}

func (a actionValue) AttrNames() []string {
	return []string{"beat", "cmd", "delivery_beat", "group"}
}

func actionList(actions []chart.BeatAction) *starlark.List {
	elems := make([]starlark.Value, 0, len(actions))
	for _, a := range actions {
		elems = append(elems, actionValue{a: a})
	}
	return starlark.NewList(elems)
}

// batchPosValue is a position template for batches.
type batchPosValue struct {
	p chart.CmdBatchPos
}

func (b batchPosValue) String() string { return "batch_pos" }
func (b batchPosValue) Type() string { return "batch_pos" }
func (b batchPosValue) Freeze() {}
func (b batchPosValue) Truth() starlark.Bool { return starlark.True }
func (b batchPosValue) Hash() (uint32, error) { return unhashable(b) }

// batchValue is a spawn command template for batches.
type batchValue struct {
	b chart.CmdBatch
}

func (b batchValue) String() string { return b.b.String() }
func (b batchValue) Type() string { return "cmd_batch" }
func (b batchValue) Freeze() {}
func (b batchValue) Truth() starlark.Bool { return starlark.True }
func (b batchValue) Hash() (uint32, error) { return unhashable(b) }

// songMapValue is the mutable song a score builds up.
type songMapValue struct {
	m      *SongMap
	frozen bool
}

var songMapMethods = methods{
	"set_bpm":         songSetBPM,
	"set_skip_amount": songSetSkip,
	"add_action":      songAddAction,
	"add_actions":     songAddActions,
}

func (s *songMapValue) String() string {
	return fmt.Sprintf("song_map(bpm=%v, skip=%v, actions=%d)", s.m.BPM, float64(s.m.Skip), len(s.m.Actions))
}
func (s *songMapValue) Type() string { return "song_map" }
func (s *songMapValue) Freeze() { s.frozen = true }
func (s *songMapValue) Truth() starlark.Bool { return starlark.True }
func (s *songMapValue) Hash() (uint32, error) { return unhashable(s) }

func (s *songMapValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "bpm":
		return starlark.Float(s.m.BPM), nil
	case "skip":
		return starlark.Float(s.m.Skip), nil
	case "actions":
		return actionList(s.m.Actions), nil
	}
	return songMapMethods.attr(s, name), nil
}

func (s *songMapValue) AttrNames() []string {
	return append([]string{"actions", "bpm", "skip"}, songMapMethods.names()...)
}

func (s *songMapValue) checkMutable(method string) error {
	if s.frozen {
		return fmt.Errorf("%s: cannot modify frozen song_map", method)
	}
	return nil
}

func songSetBPM(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var bpm floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "bpm", &bpm); err != nil {
		return nil, err
	}
	s := b.Receiver().(*songMapValue)
	if err := s.checkMutable(b.Name()); err != nil {
		return nil, err
	}
	if bpm <= 0 {
		return nil, fmt.Errorf("%s: bpm must be positive, got %v", b.Name(), float64(bpm))
	}
	s.m.BPM = float64(bpm)
	return starlark.None, nil
}

func songSetSkip(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var skip floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "beats", &skip); err != nil {
		return nil, err
	}
	s := b.Receiver().(*songMapValue)
	if err := s.checkMutable(b.Name()); err != nil {
		return nil, err
	}
	s.m.Skip = skip.beats()
	return starlark.None, nil
}

func songAddAction(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	s := b.Receiver().(*songMapValue)
	if err := s.checkMutable(b.Name()); err != nil {
		return nil, err
	}
	ev := evaluatorFrom(thread)
	a, err := toAction(ev, v)
	if err != nil {
		return nil, ev.fail(b.Name(), err)
	}
	s.m.AddAction(a)
	return starlark.None, nil
}

func songAddActions(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var list starlark.Iterable
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &list); err != nil {
		return nil, err
	}
	s := b.Receiver().(*songMapValue)
	if err := s.checkMutable(b.Name()); err != nil {
		return nil, err
	}
	ev := evaluatorFrom(thread)
	actions, err := toActions(ev, list)
	if err != nil {
		return nil, ev.fail(b.Name(), err)
	}
	s.m.AddActions(actions)
	return starlark.None, nil
}

// markedBeatValue is a single note from a MIDI file.
type markedBeatValue struct {
	b midibeat.MarkedBeat
}

func (m markedBeatValue) String() string {
	return fmt.Sprintf("marked_beat(%v, %.3f, %.3f)", float64(m.b.Beat), m.b.Percent, m.b.Pitch)
}
func (m markedBeatValue) Type() string { return "marked_beat" }
func (m markedBeatValue) Freeze() {}
func (m markedBeatValue) Truth() starlark.Bool { return starlark.True }
func (m markedBeatValue) Hash() (uint32, error) { return unhashable(m) }

func (m markedBeatValue) Attr(name string) (starlark.Value, error) {
	switch name {
	case "beat":
		return starlark.Float(m.b.Beat), nil
	case "percent":
		return starlark.Float(m.b.Percent), nil
	case "pitch":
		return starlark.Float(m.b.Pitch), nil
	}
	return nil, nil
}

func (m markedBeatValue) AttrNames() []string {
	return []string{"beat", "percent", "pitch"}
}
