package effect

import (
	"math"

	"github.com/fogleman/ease"
	"golang.org/x/exp/maps"
)

// Envelope maps elapsed beats onto an eased progress value in [0, 1].
type Envelope struct {
	// The easing function to use
	EasingFunc ease.Function

	// Length of the envelope in beats
	Duration float64
}

// NewEnvelope creates an envelope using the easing function fn that completes after duration beats.
func NewEnvelope(fn ease.Function, duration float64) Envelope {
	if fn == nil {
		fn = ease.Linear
	}
	return Envelope{
		EasingFunc: fn,
		Duration:   duration,
	}
}

// Progress returns the eased progress after elapsed beats. Elapsed values outside the envelope are clamped, and a
// zero-length envelope is always complete.
func (e Envelope) Progress(elapsed float64) float64 {
	if e.Duration <= 0 {
		return 1
	}
	t := math.Max(0, math.Min(1, elapsed/e.Duration))
	return e.EasingFunc(t)
}

// Interpolate moves from a to b following the envelope.
func (e Envelope) Interpolate(a, b, elapsed float64) float64 {
	return a + (b-a)*e.Progress(elapsed)
}

// Done reports whether elapsed has reached the end of the envelope.
func (e Envelope) Done(elapsed float64) bool {
	return elapsed >= e.Duration
}

// Lookup returns a named easing curve so scores can pick one by name.
func Lookup(name string) (ease.Function, bool) {
	fn, ok := curves[name]
	return fn, ok
}

// CurveOr returns the named curve, or fallback when name is empty or unknown.
func CurveOr(name string, fallback ease.Function) ease.Function {
	if fn, ok := curves[name]; ok {
		return fn
	}
	return fallback
}

// CurveNames lists the names Lookup understands.
func CurveNames() []string {
	return maps.Keys(curves)
}

var curves = map[string]ease.Function{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_cubic":     ease.InCubic,
	"out_cubic":    ease.OutCubic,
	"in_quart":     ease.InQuart,
	"out_quart":    ease.OutQuart,
	"in_out_quart": ease.InOutQuart,
	"in_sine":      ease.InSine,
	"out_sine":     ease.OutSine,
	"in_out_sine":  ease.InOutSine,
	"out_back":     ease.OutBack,
	"out_bounce":   ease.OutBounce,
}
