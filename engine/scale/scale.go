package scale

import "math"

func clamp(t, min, max float64) float64 {
	min, max = math.Min(min, max), math.Max(min, max)
	return math.Max(math.Min(t, max), min)
}

// Clamp returns a function that maps [rMin,rMax] linearly onto [tMin,tMax] and clamps the result to the target
// interval. A degenerate source interval maps everything to tMin.
func Clamp(rMin, rMax, tMin, tMax float64) func(m float64) float64 {
	width := rMax - rMin
	return func(m float64) float64 {
		if width == 0 {
			return tMin
		}
		return clamp(tMin+(m-rMin)/width*(tMax-tMin), tMin, tMax)
	}
}

// ToUnitClamp returns a function that scales a number from the interval [rMin,rMax]
// to the unit interval ([0,1]), if the result falls outside [0,1], it is clamped
// to 0 or 1.
func ToUnitClamp(rMin, rMax float64) func(m float64) float64 {
	return Clamp(rMin, rMax, 0, 1)
}
