package chart

import (
	"fmt"
	"math/rand"

	"github.com/robmorgan/cadence/world"
)

// DefaultGridDivisions is the number of cells per axis used by RandomGrid batches.
const DefaultGridDivisions = 10

// BatchPosKind tags the variant held by a CmdBatchPos.
type BatchPosKind int

const (
	BatchLerped BatchPosKind = iota
	BatchConstant
	BatchRandomGrid
)

// CmdBatchPos is a position template evaluated at a batch progress t.
type CmdBatchPos struct {
	Kind BatchPosKind

	// BatchLerped endpoints
	From world.Pos
	To   world.Pos

	// BatchConstant
	Live world.LivePos

	// BatchRandomGrid cells per axis
	Divisions int
}

// Lerped interpolates from a to b across the batch.
func Lerped(a, b world.Pos) CmdBatchPos {
	return CmdBatchPos{Kind: BatchLerped, From: a, To: b}
}

// ConstantPos uses the same, possibly player-relative, position for every step.
func ConstantPos(lp world.LivePos) CmdBatchPos {
	return CmdBatchPos{Kind: BatchConstant, Live: lp}
}

// RandomGrid picks a random cell center from a grid covering the playfield.
func RandomGrid(divisions int) CmdBatchPos {
	if divisions <= 0 {
		divisions = DefaultGridDivisions
	}
	return CmdBatchPos{Kind: BatchRandomGrid, Divisions: divisions}
}

// At evaluates the template at progress t. Random cells are drawn from rng, so the same seed yields the same
// positions.
func (p CmdBatchPos) At(t float64, rng *rand.Rand) world.LivePos {
	switch p.Kind {
	case BatchLerped:
		return world.Constant(world.Lerp(p.From, p.To, t))
	case BatchRandomGrid:
		return world.Constant(RandomGridCell(rng, p.Divisions))
	default:
		return p.Live
	}
}

// RandomGridCell returns the center of a uniformly chosen cell of a divisions x divisions grid spanning the playfield.
func RandomGridCell(rng *rand.Rand, divisions int) world.Pos {
	size := (world.MaxCoord - world.MinCoord) / float64(divisions)
	center := func() float64 {
		i := rng.Intn(divisions)
		return world.MinCoord + (float64(i)+0.5)*size
	}
	x := center()
	y := center()
	return world.Pos{X: x, Y: y}
}

// BatchKind tags the variant held by a CmdBatch.
type BatchKind int

const (
	BatchBullet BatchKind = iota
	BatchLaser
	BatchCircleBomb
)

// CmdBatch is a spawn command template that produces one command per batch step.
type CmdBatch struct {
	Kind BatchKind

	// BatchBullet uses A as the start and B as the end. BatchLaser fires through A and B. BatchCircleBomb uses A.
	A CmdBatchPos
	B CmdBatchPos

	// Lasers only
	Durations world.Durations
}

func BatchOfBullets(start, end CmdBatchPos) CmdBatch {
	return CmdBatch{Kind: BatchBullet, A: start, B: end}
}

func BatchOfLasers(a, b CmdBatchPos, d world.Durations) CmdBatch {
	return CmdBatch{Kind: BatchLaser, A: a, B: b, Durations: d}
}

func BatchOfBombs(pos CmdBatchPos) CmdBatch {
	return CmdBatch{Kind: BatchCircleBomb, A: pos}
}

// At produces the concrete command for progress t.
func (b CmdBatch) At(t float64, rng *rand.Rand) SpawnCmd {
	switch b.Kind {
	case BatchLaser:
		return LaserThruPoints(b.A.At(t, rng), b.B.At(t, rng), b.Durations)
	case BatchCircleBomb:
		return CircleBomb(b.A.At(t, rng))
	default:
		return Bullet(b.A.At(t, rng), b.B.At(t, rng))
	}
}

func (b CmdBatch) String() string {
	switch b.Kind {
	case BatchLaser:
		return "batch_laser"
	case BatchCircleBomb:
		return "batch_bomb"
	case BatchBullet:
		return "batch_bullet"
	}
	return fmt.Sprintf("BatchKind(%d)", int(b.Kind))
}
