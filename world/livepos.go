package world

import "fmt"

// LivePosKind tags the variant held by a LivePos.
type LivePosKind int

const (
	// LiveConstant is a fixed world position.
	LiveConstant LivePosKind = iota
	// LivePlayer tracks the player's position.
	LivePlayer
	// LiveOffsetFromPlayer is an inner position added to the player's position.
	LiveOffsetFromPlayer
)

func (k LivePosKind) String() string {
	switch k {
	case LiveConstant:
		return "constant"
	case LivePlayer:
		return "player"
	case LiveOffsetFromPlayer:
		return "offset_player"
	}
	return fmt.Sprintf("LivePosKind(%d)", int(k))
}

// LivePos is a position that may depend on where the player is. It is carried unresolved through the schedule and
// only resolved when its command is dispatched.
type LivePos struct {
	Kind LivePosKind

	// Pos is the position for LiveConstant.
	Pos Pos

	// Inner is the offset for LiveOffsetFromPlayer.
	Inner *LivePos
}

// Constant returns a LivePos that always resolves to p.
func Constant(p Pos) LivePos {
	return LivePos{Kind: LiveConstant, Pos: p}
}

// Player returns a LivePos that resolves to the player's position.
func Player() LivePos {
	return LivePos{Kind: LivePlayer}
}

// OffsetFromPlayer returns a LivePos that resolves to player + inner.Resolve(player).
func OffsetFromPlayer(inner LivePos) LivePos {
	return LivePos{Kind: LiveOffsetFromPlayer, Inner: &inner}
}

// Resolve computes the concrete position given the player's position.
func (lp LivePos) Resolve(player Pos) Pos {
	switch lp.Kind {
	case LivePlayer:
		return player
	case LiveOffsetFromPlayer:
		if lp.Inner == nil {
			return player
		}
		return player.Add(lp.Inner.Resolve(player))
	default:
		return lp.Pos
	}
}

// IsLive reports whether resolving lp depends on the player.
func (lp LivePos) IsLive() bool {
	return lp.Kind != LiveConstant
}

// Translate moves lp by d while keeping any dependency on the player.
func Translate(lp LivePos, d Pos) LivePos {
	switch lp.Kind {
	case LivePlayer:
		return OffsetFromPlayer(Constant(d))
	case LiveOffsetFromPlayer:
		if lp.Inner == nil {
			return OffsetFromPlayer(Constant(d))
		}
		return OffsetFromPlayer(Translate(*lp.Inner, d))
	default:
		return Constant(lp.Pos.Add(d))
	}
}

func (lp LivePos) String() string {
	switch lp.Kind {
	case LivePlayer:
		return "player"
	case LiveOffsetFromPlayer:
		if lp.Inner == nil {
			return "player"
		}
		return fmt.Sprintf("player+%s", lp.Inner)
	default:
		return lp.Pos.String()
	}
}
