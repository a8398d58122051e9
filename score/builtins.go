package score

import (
	"fmt"

	"github.com/gruntwork-io/go-commons/errors"
	"go.starlark.net/starlark"

	"github.com/robmorgan/cadence/chart"
	"github.com/robmorgan/cadence/midibeat"
	"github.com/robmorgan/cadence/rhythm"
	"github.com/robmorgan/cadence/utils"
	"github.com/robmorgan/cadence/world"
)

const (
	// scriptGridDivisions is the grid used by grid(). Batches default to chart.DefaultGridDivisions.
	scriptGridDivisions = 20

	// angledBulletLength is how far an angled bullet travels. It is long enough to cross the whole playfield.
	angledBulletLength = 150.0
)

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

// predeclared returns the names every score can use without loading anything.
func predeclared() starlark.StringDict {
	fns := map[string]builtinFunc{
		"default_map":            defaultMap,
		"parse_midi":             parseMidi,
		"parse_midi_grouped":     parseMidiGrouped,
		"beat_splitter":          beatSplitter,
		"pos":                    newPos,
		"origin":                 origin,
		"player":                 player,
		"offset_player":          offsetPlayer,
		"lerp_pos":               lerpPos,
		"circle":                 circle,
		"grid":                   grid,
		"random":                 random,
		"color":                  newColor,
		"beat_action":            beatAction,
		"durations":              newDurations,
		"default_laser_duration": defaultLaserDuration,
		"bullet":                 bullet,
		"bullet_angle_start":     bulletAngleStart,
		"bullet_angle_end":       bulletAngleEnd,
		"laser":                  laser,
		"laser_angle":            laserAngle,
		"bomb":                   bomb,
		"set_fadeout_on":         setFadeoutOn,
		"set_fadeout_off":        setFadeoutOff,
		"set_rotation_on":        setRotationOn,
		"set_rotation_off":       setRotationOff,
		"set_use_hitbox":         toggle(chart.SetHitbox),
		"set_render_warmup":      toggle(chart.ShowWarmup),
		"set_render":             toggle(chart.SetRender),
		"clear_enemies":          clearEnemies,
		"set_curr_group":         setCurrGroup,
		"get_curr_group":         getCurrGroup,
		"lerped":                 lerped,
		"random_grid":            randomGrid,
		"batch_bullet":           batchBullet,
		"batch_laser":            batchLaser,
		"batch_bomb":             batchBomb,
	}
	out := starlark.StringDict{
		"LASER_WARMUP": starlark.Float(world.LaserWarmup),
		"BOMB_WARMUP":  starlark.Float(world.BombWarmup),
	}
	for name, fn := range fns {
		out[name] = starlark.NewBuiltin(name, fn)
	}
	return out
}

func defaultMap(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return &songMapValue{m: NewSongMap()}, nil
}

// readMidi loads and decodes a MIDI asset. Decoding errors keep their kind as the ScriptError cause.
func readMidi(ev *Evaluator, fn string, args starlark.Tuple, kwargs []starlark.Tuple, decode func([]byte, float64) error) error {
	var path string
	bpm := floatArg(rhythm.DefaultBPM)
	if err := starlark.UnpackArgs(fn, args, kwargs, "path", &path, "bpm?", &bpm); err != nil {
		return err
	}
	data, err := ev.loader.Open(path)
	if err != nil {
		return ev.fail(fn, err)
	}
	if err := decode(data, float64(bpm)); err != nil {
		return ev.fail(fn, ScriptError{Key: fn, Msg: fmt.Sprintf("%s: %v", path, err), Cause: errors.Unwrap(err)})
	}
	ev.log.WithField("path", path).Debug("parsed midi")
	return nil
}

func parseMidi(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ev := evaluatorFrom(thread)
	var beats midibeat.MarkedBeats
	err := readMidi(ev, b.Name(), args, kwargs, func(data []byte, bpm float64) (err error) {
		beats, err = midibeat.Parse(data, bpm)
		return err
	})
	if err != nil {
		return nil, err
	}
	return markedBeatsValue{m: beats, ev: ev}, nil
}

func parseMidiGrouped(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	ev := evaluatorFrom(thread)
	var groups []midibeat.MarkedBeats
	err := readMidi(ev, b.Name(), args, kwargs, func(data []byte, bpm float64) (err error) {
		groups, err = midibeat.ParseGrouped(data, bpm)
		return err
	})
	if err != nil {
		return nil, err
	}
	elems := make([]starlark.Value, 0, len(groups))
	for _, g := range groups {
		elems = append(elems, markedBeatsValue{m: g, ev: ev})
	}
	return starlark.NewList(elems), nil
}

func beatSplitter(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, frequency floatArg
	duration := floatArg(chart.DefaultSplitDuration)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "frequency", &frequency, "duration?", &duration); err != nil {
		return nil, err
	}
	s := chart.NewBeatSplitter(float64(start), float64(frequency)).WithDuration(float64(duration))
	return splitterValue{s: s, ev: evaluatorFrom(thread)}, nil
}

func newPos(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x, y floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "x", &x, "y", &y); err != nil {
		return nil, err
	}
	return posValue{lp: world.Constant(world.Pos{X: float64(x), Y: float64(y)})}, nil
}

func origin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return posValue{lp: world.Constant(world.Origin())}, nil
}

func player(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return posValue{lp: world.Player()}, nil
}

func offsetPlayer(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var offset posArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "offset", &offset); err != nil {
		return nil, err
	}
	return posValue{lp: world.OffsetFromPlayer(offset.live())}, nil
}

func lerpPos(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var from, to posArg
	var t floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "a", &from, "b", &to, "t", &t); err != nil {
		return nil, err
	}
	a, err := from.static(b.Name())
	if err != nil {
		return nil, err
	}
	c, err := to.static(b.Name())
	if err != nil {
		return nil, err
	}
	return posValue{lp: world.Constant(world.Lerp(a, c, float64(t)))}, nil
}

func circle(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var cx, cy, r, angle floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "cx", &cx, "cy", &cy, "r", &r, "angle", &angle); err != nil {
		return nil, err
	}
	return posValue{lp: world.Constant(world.Circle(float64(cx), float64(cy), float64(r), float64(angle)))}, nil
}

func grid(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	ev := evaluatorFrom(thread)
	return posValue{lp: world.Constant(chart.RandomGridCell(ev.rng, scriptGridDivisions))}, nil
}

func random(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var lo, hi floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "min", &lo, "max", &hi); err != nil {
		return nil, err
	}
	if hi < lo {
		return nil, fmt.Errorf("%s: max %v is less than min %v", b.Name(), float64(hi), float64(lo))
	}
	ev := evaluatorFrom(thread)
	return starlark.Float(float64(lo) + ev.rng.Float64()*float64(hi-lo)), nil
}

// newColor accepts color(r, g, b, a=1) with unit components, or color("#ff0000", a=1).
func newColor(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) > 0 {
		if s, ok := args[0].(starlark.String); ok {
			alpha := floatArg(1)
			if err := starlark.UnpackArgs(b.Name(), args[1:], kwargs, "a?", &alpha); err != nil {
				return nil, err
			}
			c, err := utils.GetRGBFromString(string(s))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", b.Name(), err)
			}
			return colorValue{c: c, alpha: utils.Clamp(float64(alpha), 0, 1)}, nil
		}
	}
	var r, g, bl floatArg
	alpha := floatArg(1)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "r", &r, "g", &g, "b", &bl, "a?", &alpha); err != nil {
		return nil, err
	}
	return colorValue{
		c:     utils.ColorFromUnit(float64(r), float64(g), float64(bl)),
		alpha: utils.Clamp(float64(alpha), 0, 1),
	}, nil
}

func beatAction(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var beat floatArg
	var group groupArg
	var cmd cmdArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "beat", &beat, "group", &group, "cmd", &cmd); err != nil {
		return nil, err
	}
	ev := evaluatorFrom(thread)
	return actionValue{a: chart.NewBeatAction(beat.beats(), group.or(ev.group), chart.SpawnCmd(cmd))}, nil
}

func newDurations(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var warmup, active, cooldown floatArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "warmup", &warmup, "active", &active, "cooldown", &cooldown); err != nil {
		return nil, err
	}
	if warmup < 0 || active < 0 || cooldown < 0 {
		return nil, fmt.Errorf("%s: durations must not be negative", b.Name())
	}
	return durationsValue{d: world.Durations{Warmup: warmup.beats(), Active: active.beats(), Cooldown: cooldown.beats()}}, nil
}

func defaultLaserDuration(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return durationsValue{d: world.DefaultLaserDurations()}, nil
}

func bullet(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, end posArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "end", &end); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.Bullet(start.live(), end.live())}, nil
}

// bulletAngleStart fires a bullet from start heading angle degrees.
func bulletAngleStart(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start posArg
	var angle floatArg
	length := floatArg(angledBulletLength)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "angle", &angle, "length?", &length); err != nil {
		return nil, err
	}
	d := world.Direction(float64(angle)).Scale(float64(length))
	return cmdValue{cmd: chart.Bullet(start.live(), world.Translate(start.live(), d))}, nil
}

// bulletAngleEnd fires a bullet that arrives at end heading angle degrees.
func bulletAngleEnd(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var end posArg
	var angle floatArg
	length := floatArg(angledBulletLength)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "end", &end, "angle", &angle, "length?", &length); err != nil {
		return nil, err
	}
	d := world.Direction(float64(angle)).Scale(-float64(length))
	return cmdValue{cmd: chart.Bullet(world.Translate(end.live(), d), end.live())}, nil
}

func laser(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a, c posArg
	d := durationsArg(world.DefaultLaserDurations())
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "a", &a, "b", &c, "durations?", &d); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.LaserThruPoints(a.live(), c.live(), world.Durations(d))}, nil
}

func laserAngle(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p posArg
	var angle floatArg
	d := durationsArg(world.DefaultLaserDurations())
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pos", &p, "angle", &angle, "durations?", &d); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.Laser(p.live(), float64(angle), world.Durations(d))}, nil
}

func bomb(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p posArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pos", &p); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.CircleBomb(p.live())}, nil
}

func setFadeoutOn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var c colorArg
	var duration floatArg
	var easing easingArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "color", &c, "duration", &duration, "easing?", &easing); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.SetFadeOut(&world.FadeOut{
		Color:    c.c,
		Alpha:    c.alpha,
		Duration: duration.beats(),
		Easing:   string(easing),
	})}, nil
}

func setFadeoutOff(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.SetFadeOut(nil)}, nil
}

func setRotationOn(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var startAngle, endAngle, duration floatArg
	pivot := posArg(world.Constant(world.Origin()))
	var easing easingArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"start_angle", &startAngle, "end_angle", &endAngle, "duration", &duration, "pivot?", &pivot, "easing?", &easing); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.SetGroupRotation(&chart.RotationSpec{
		StartAngle: float64(startAngle),
		EndAngle:   float64(endAngle),
		Duration:   duration.beats(),
		Pivot:      pivot.live(),
		Easing:     string(easing),
	})}, nil
}

func setRotationOff(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.SetGroupRotation(nil)}, nil
}

// toggle builds the builtin for a per-group on/off directive.
func toggle(build func(bool) chart.SpawnCmd) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var on bool
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "on", &on); err != nil {
			return nil, err
		}
		return cmdValue{cmd: build(on)}, nil
	}
}

func clearEnemies(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return cmdValue{cmd: chart.ClearEnemies()}, nil
}

func setCurrGroup(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var v starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
		return nil, err
	}
	group, err := toGroup(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	evaluatorFrom(thread).group = group
	return starlark.None, nil
}

func getCurrGroup(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
		return nil, err
	}
	return starlark.MakeUint(uint(evaluatorFrom(thread).group)), nil
}

func lerped(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var from, to posArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "a", &from, "b", &to); err != nil {
		return nil, err
	}
	a, err := from.static(b.Name())
	if err != nil {
		return nil, err
	}
	c, err := to.static(b.Name())
	if err != nil {
		return nil, err
	}
	return batchPosValue{p: chart.Lerped(a, c)}, nil
}

func randomGrid(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	divisions := chart.DefaultGridDivisions
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "divisions?", &divisions); err != nil {
		return nil, err
	}
	return batchPosValue{p: chart.RandomGrid(divisions)}, nil
}

func batchBullet(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var start, end batchPosArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "start", &start, "end", &end); err != nil {
		return nil, err
	}
	return batchValue{b: chart.BatchOfBullets(chart.CmdBatchPos(start), chart.CmdBatchPos(end))}, nil
}

func batchLaser(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var a, c batchPosArg
	d := durationsArg(world.DefaultLaserDurations())
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "a", &a, "b", &c, "durations?", &d); err != nil {
		return nil, err
	}
	return batchValue{b: chart.BatchOfLasers(chart.CmdBatchPos(a), chart.CmdBatchPos(c), world.Durations(d))}, nil
}

func batchBomb(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var p batchPosArg
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "pos", &p); err != nil {
		return nil, err
	}
	return batchValue{b: chart.BatchOfBombs(chart.CmdBatchPos(p))}, nil
}
