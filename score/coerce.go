package score

import (
	"go.starlark.net/starlark"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/world"
)

// songGlobal is the name a score binds its result to.
const songGlobal = "song"

// songFrom converts the song global into a SongMap. It may be a default_map() value or a dict with bpm, skip and
// actions keys.
func songFrom(ev *Evaluator, globals starlark.StringDict) (*SongMap, error) {
	v, ok := globals[songGlobal]
	if !ok {
		return nil, scriptErrorf(songGlobal, "score does not bind %q", songGlobal)
	}
	switch v := v.(type) {
	case *songMapValue:
		return v.m, nil
	case *starlark.Dict:
		return songFromDict(ev, v)
	}
	return nil, scriptErrorf(songGlobal, "got %s, want song_map or dict", v.Type())
}

func songFromDict(ev *Evaluator, d *starlark.Dict) (*SongMap, error) {
	m := NewSongMap()
	if v, ok, err := lookup(d, "bpm"); err != nil {
		return nil, err
	} else if ok {
		bpm, err := toFloat("bpm", v)
		if err != nil {
			return nil, err
		}
		m.BPM = bpm
	}
	if v, ok, err := lookup(d, "skip"); err != nil {
		return nil, err
	} else if ok {
		skip, err := toFloat("skip", v)
		if err != nil {
			return nil, err
		}
		m.Skip = rhythm.Beats(skip)
	}
	if v, ok, err := lookup(d, "actions"); err != nil {
		return nil, err
	} else if ok {
		it, isIterable := v.(starlark.Iterable)
		if !isIterable {
			return nil, scriptErrorf("actions", "got %s, want list", v.Type())
		}
		actions, err := toActions(ev, it)
		if err != nil {
			return nil, err
		}
		m.AddActions(actions)
	}
	return m, nil
}

// toActions converts every element of it with toAction.
func toActions(ev *Evaluator, it starlark.Iterable) ([]chart.BeatAction, error) {
	var out []chart.BeatAction
	iter := it.Iterate()
	defer iter.Done()
	var elem starlark.Value
	for iter.Next(&elem) {
		a, err := toAction(ev, elem)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// toAction accepts a beat_action value or a dict with beat, enemygroup and spawn_cmd keys. When spawn_cmd is a
// tag string the command's fields are read from the same dict.
func toAction(ev *Evaluator, v starlark.Value) (chart.BeatAction, error) {
	switch v := v.(type) {
	case actionValue:
		return v.a, nil
	case *starlark.Dict:
		return actionFromDict(ev, v)
	}
	return chart.BeatAction{}, scriptErrorf("actions", "got %s, want beat_action or dict", v.Type())
}

func actionFromDict(ev *Evaluator, d *starlark.Dict) (chart.BeatAction, error) {
	beatV, err := requireField(d, "beat")
	if err != nil {
		return chart.BeatAction{}, err
	}
	beat, err := toFloat("beat", beatV)
	if err != nil {
		return chart.BeatAction{}, err
	}

	group := ev.group
	if v, ok, err := lookup(d, "enemygroup"); err != nil {
		return chart.BeatAction{}, err
	} else if ok && v != starlark.None {
		if group, err = toGroup(v); err != nil {
			return chart.BeatAction{}, scriptErrorf("enemygroup", "%v", err)
		}
	}

	cmdV, err := requireField(d, "spawn_cmd")
	if err != nil {
		return chart.BeatAction{}, err
	}
	var cmd chart.SpawnCmd
	switch c := cmdV.(type) {
	case cmdValue:
		cmd = c.cmd
	case starlark.String:
		if cmd, err = cmdFromDict(string(c), d); err != nil {
			return chart.BeatAction{}, err
		}
	default:
		return chart.BeatAction{}, scriptErrorf("spawn_cmd", "got %s, want string or spawn_cmd", cmdV.Type())
	}
	return chart.NewBeatAction(rhythm.Beats(beat), group, cmd), nil
}

// cmdFromDict builds the command named by tag from the fields of d.
func cmdFromDict(tag string, d *starlark.Dict) (chart.SpawnCmd, error) {
	kind, ok := chart.ParseCmdKind(tag)
	if !ok {
		return chart.SpawnCmd{}, scriptErrorf("spawn_cmd", "unknown spawn_cmd %q", tag)
	}
	f := fields{d: d}
	var cmd chart.SpawnCmd
	switch kind {
	case chart.CmdBullet:
		cmd = chart.Bullet(f.pos("start"), f.pos("end"))
	case chart.CmdLaser:
		cmd = chart.Laser(f.pos("position"), f.float("angle"), f.durations("durations"))
	case chart.CmdLaserThruPoints:
		cmd = chart.LaserThruPoints(f.pos("a"), f.pos("b"), f.durations("durations"))
	case chart.CmdCircleBomb:
		cmd = chart.CircleBomb(f.pos("position"))
	case chart.CmdSetGroupRotation:
		if f.enabled() {
			pivot := world.Constant(world.Origin())
			if f.has("pivot") {
				pivot = f.pos("pivot")
			}
			cmd = chart.SetGroupRotation(&chart.RotationSpec{
				StartAngle: f.float("start_angle"),
				EndAngle:   f.float("end_angle"),
				Duration:   rhythm.Beats(f.float("duration")),
				Pivot:      pivot,
				Easing:     f.easing("easing"),
			})
		} else {
			cmd = chart.SetGroupRotation(nil)
		}
	case chart.CmdSetFadeOut:
		if f.enabled() {
			c := f.color("color")
			cmd = chart.SetFadeOut(&world.FadeOut{
				Color:    c.c,
				Alpha:    c.alpha,
				Duration: rhythm.Beats(f.float("duration")),
				Easing:   f.easing("easing"),
			})
		} else {
			cmd = chart.SetFadeOut(nil)
		}
	case chart.CmdSetHitbox:
		cmd = chart.SetHitbox(f.enabled())
	case chart.CmdSetRender:
		cmd = chart.SetRender(f.enabled())
	case chart.CmdShowWarmup:
		cmd = chart.ShowWarmup(f.enabled())
	case chart.CmdClearEnemies:
		cmd = chart.ClearEnemies()
	}
	if f.err != nil {
		return chart.SpawnCmd{}, f.err
	}
	return cmd, nil
}

// fields reads typed values out of an action dict, keeping the first error.
type fields struct {
	d   *starlark.Dict
	err error
}

func (f *fields) get(key string) (starlark.Value, bool) {
	if f.err != nil {
		return nil, false
	}
	v, err := requireField(f.d, key)
	if err != nil {
		f.err = err
		return nil, false
	}
	return v, true
}

func (f *fields) has(key string) bool {
	_, ok, _ := lookup(f.d, key)
	return ok
}

func (f *fields) pos(key string) world.LivePos {
	v, ok := f.get(key)
	if !ok {
		return world.LivePos{}
	}
	lp, err := toLivePos(v)
	if err != nil {
		f.err = scriptErrorf(key, "%v", err)
	}
	return lp
}

func (f *fields) float(key string) float64 {
	v, ok := f.get(key)
	if !ok {
		return 0
	}
	x, err := toFloat(key, v)
	if err != nil {
		f.err = err
	}
	return x
}

// durations defaults to the standard laser timing when the key is absent.
func (f *fields) durations(key string) world.Durations {
	d := durationsArg(world.DefaultLaserDurations())
	if !f.has(key) {
		return world.Durations(d)
	}
	v, ok := f.get(key)
	if !ok {
		return world.Durations(d)
	}
	if err := d.Unpack(v); err != nil {
		f.err = scriptErrorf(key, "%v", err)
	}
	return world.Durations(d)
}

func (f *fields) color(key string) colorValue {
	v, ok := f.get(key)
	if !ok {
		return colorValue{}
	}
	var c colorArg
	if err := c.Unpack(v); err != nil {
		f.err = scriptErrorf(key, "%v", err)
	}
	return colorValue(c)
}

// easing reads an optional curve name.
func (f *fields) easing(key string) string {
	if !f.has(key) {
		return ""
	}
	v, ok := f.get(key)
	if !ok {
		return ""
	}
	var e easingArg
	if err := e.Unpack(v); err != nil {
		f.err = scriptErrorf(key, "%v", err)
	}
	return string(e)
}

// enabled reads the optional "enabled" flag. Directives are on unless it says otherwise.
func (f *fields) enabled() bool {
	if !f.has("enabled") {
		return true
	}
	v, ok := f.get("enabled")
	if !ok {
		return false
	}
	return bool(v.Truth())
}

func lookup(d *starlark.Dict, key string) (starlark.Value, bool, error) {
	v, found, err := d.Get(starlark.String(key))
	if err != nil {
		return nil, false, scriptErrorf(key, "%v", err)
	}
	return v, found, nil
}

func requireField(d *starlark.Dict, key string) (starlark.Value, error) {
	v, ok, err := lookup(d, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, scriptErrorf(key, "missing field %q", key)
	}
	return v, nil
}

func toFloat(key string, v starlark.Value) (float64, error) {
	var f floatArg
	if err := f.Unpack(v); err != nil {
		return 0, scriptErrorf(key, "%v", err)
	}
	return float64(f), nil
}
