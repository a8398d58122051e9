package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.starlark.net/starlark"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/effect"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/utils"
	"github.com/robmorgan/cadence/world"
)

// floatArg accepts any finite int or float.
type floatArg float64

func (f *floatArg) Unpack(v starlark.Value) error {
	x, ok := starlark.AsFloat(v)
	if !ok {
		return fmt.Errorf("got %s, want number", v.Type())
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("got %v, want a finite number", x)
	}
	*f = floatArg(x)
	return nil
}

func (f floatArg) beats() rhythm.Beats {
	return rhythm.Beats(f)
}

// groupArg is an optional enemy group. None or an omitted argument means the evaluator's current group.
type groupArg struct {
	id  uint32
	set bool
}

func (g *groupArg) Unpack(v starlark.Value) error {
	if v == starlark.None {
		*g = groupArg{}
		return nil
	}
	id, err := toGroup(v)
	if err != nil {
		return err
	}
	*g = groupArg{id: id, set: true}
	return nil
}

func (g groupArg) or(current uint32) uint32 {
	if g.set {
		return g.id
	}
	return current
}

func toGroup(v starlark.Value) (uint32, error) {
	i, ok := v.(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("got %s, want int group", v.Type())
	}
	n, ok := i.Int64()
	if !ok || n < 0 || n > math.MaxUint32 {
		return 0, fmt.Errorf("group %s out of range", i)
	}
	return uint32(n), nil
}

// posArg accepts a pos value, an (x, y) tuple or the string "player".
type posArg world.LivePos

func (p *posArg) Unpack(v starlark.Value) error {
	lp, err := toLivePos(v)
	if err != nil {
		return err
	}
	*p = posArg(lp)
	return nil
}

func (p posArg) live() world.LivePos {
	return world.LivePos(p)
}

// static rejects player-relative positions for arguments that are fixed at evaluation time.
func (p posArg) static(fn string) (world.Pos, error) {
	lp := p.live()
	if lp.IsLive() {
		return world.Pos{}, fmt.Errorf("%s: position must not depend on the player", fn)
	}
	return lp.Pos, nil
}

func toLivePos(v starlark.Value) (world.LivePos, error) {
	switch v := v.(type) {
	case posValue:
		return v.lp, nil
	case starlark.Tuple:
		if len(v) != 2 {
			return world.LivePos{}, fmt.Errorf("got tuple of length %d, want (x, y)", len(v))
		}
		x, okX := starlark.AsFloat(v[0])
		y, okY := starlark.AsFloat(v[1])
		if !okX || !okY {
			return world.LivePos{}, fmt.Errorf("got (%s, %s), want (number, number)", v[0].Type(), v[1].Type())
		}
		return world.Constant(world.Pos{X: x, Y: y}), nil
	case starlark.String:
		if v == "player" {
			return world.Player(), nil
		}
		return world.LivePos{}, fmt.Errorf("unknown position %s", v)
	}
	return world.LivePos{}, fmt.Errorf("got %s, want pos", v.Type())
}

// batchPosArg accepts a batch position template, or any position which is then used for every step.
type batchPosArg chart.CmdBatchPos

func (p *batchPosArg) Unpack(v starlark.Value) error {
	if bp, ok := v.(batchPosValue); ok {
		*p = batchPosArg(bp.p)
		return nil
	}
	lp, err := toLivePos(v)
	if err != nil {
		return fmt.Errorf("got %s, want batch_pos or pos", v.Type())
	}
	*p = batchPosArg(chart.ConstantPos(lp))
	return nil
}

type batchArg chart.CmdBatch

func (b *batchArg) Unpack(v starlark.Value) error {
	bv, ok := v.(batchValue)
	if !ok {
		return fmt.Errorf("got %s, want cmd_batch", v.Type())
	}
	*b = batchArg(bv.b)
	return nil
}

// durationsArg accepts a durations value. None keeps whatever default was set before unpacking.
type durationsArg world.Durations

func (d *durationsArg) Unpack(v starlark.Value) error {
	switch v := v.(type) {
	case durationsValue:
		*d = durationsArg(v.d)
		return nil
	case starlark.NoneType:
		return nil
	}
	return fmt.Errorf("got %s, want durations", v.Type())
}

type cmdArg chart.SpawnCmd

func (c *cmdArg) Unpack(v starlark.Value) error {
	cv, ok := v.(cmdValue)
	if !ok {
		return fmt.Errorf("got %s, want spawn_cmd", v.Type())
	}
	*c = cmdArg(cv.cmd)
	return nil
}

// colorArg accepts a color value or a hex or named color string.
type colorArg colorValue

func (c *colorArg) Unpack(v starlark.Value) error {
	switch v := v.(type) {
	case colorValue:
		*c = colorArg(v)
		return nil
	case starlark.String:
		rgb, err := utils.GetRGBFromString(string(v))
		if err != nil {
			return err
		}
		*c = colorArg{c: rgb, alpha: 1}
		return nil
	}
	return fmt.Errorf("got %s, want color", v.Type())
}

// easingArg is the name of an easing curve.
type easingArg string

func (e *easingArg) Unpack(v starlark.Value) error {
	s, ok := starlark.AsString(v)
	if !ok {
		return fmt.Errorf("got %s, want easing name", v.Type())
	}
	if _, ok := effect.Lookup(s); !ok {
		names := effect.CurveNames()
		sort.Strings(names)
		return fmt.Errorf("unknown easing %q, want one of %s", s, strings.Join(names, ", "))
	}
	*e = easingArg(s)
	return nil
}

// toCmds converts what a custom splitter function returned: None, a spawn_cmd or a sequence of them.
func toCmds(v starlark.Value) ([]chart.SpawnCmd, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, nil
	case cmdValue:
		return []chart.SpawnCmd{v.cmd}, nil
	case starlark.Iterable:
		var out []chart.SpawnCmd
		iter := v.Iterate()
		defer iter.Done()
		var elem starlark.Value
		for iter.Next(&elem) {
			c, ok := elem.(cmdValue)
			if !ok {
				return nil, fmt.Errorf("got %s in command list, want spawn_cmd", elem.Type())
			}
			out = append(out, c.cmd)
		}
		return out, nil
	}
	return nil, fmt.Errorf("got %s, want spawn_cmd or list of spawn_cmd", v.Type())
}
