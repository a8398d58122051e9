package world

import (
	"fmt"
	"math"

	"github.com/robmorgan/cadence/utils"
)

// Bounds of the playfield. The world is centered on the origin with y pointing up.
const (
	MinCoord = -50.0
	MaxCoord = 50.0
)

// Pos is a point in world space.
type Pos struct {
	X float64
	Y float64
}

// Origin is the center of the playfield.
func Origin() Pos {
	return Pos{}
}

func (p Pos) Add(o Pos) Pos {
	return Pos{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Pos) Sub(o Pos) Pos {
	return Pos{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Pos) Scale(f float64) Pos {
	return Pos{X: p.X * f, Y: p.Y * f}
}

// Distance returns the euclidean distance between p and o.
func (p Pos) Distance(o Pos) float64 {
	return math.Hypot(o.X-p.X, o.Y-p.Y)
}

// AngleTo returns the direction from p to o in degrees, counter-clockwise from the positive x axis.
func (p Pos) AngleTo(o Pos) float64 {
	return math.Atan2(o.Y-p.Y, o.X-p.X) * 180 / math.Pi
}

// RotateAround rotates p by degrees counter-clockwise about pivot.
func (p Pos) RotateAround(pivot Pos, degrees float64) Pos {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	d := p.Sub(pivot)
	return Pos{
		X: pivot.X + d.X*cos - d.Y*sin,
		Y: pivot.Y + d.X*sin + d.Y*cos,
	}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// Lerp interpolates between a and b. t is not clamped, so values outside [0, 1] extrapolate.
func Lerp(a, b Pos, t float64) Pos {
	return Pos{X: utils.Lerp(a.X, b.X, t), Y: utils.Lerp(a.Y, b.Y, t)}
}

// Circle returns the point at angle degrees on the circle of radius r around (cx, cy).
func Circle(cx, cy, r, degrees float64) Pos {
	rad := degrees * math.Pi / 180
	return Pos{X: cx + r*math.Cos(rad), Y: cy + r*math.Sin(rad)}
}

// Direction returns the unit vector pointing at degrees.
func Direction(degrees float64) Pos {
	return Circle(0, 0, 1, degrees)
}
