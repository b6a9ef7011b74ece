package engine

import "github.com/feltline/cardroom/internal/deck"

// Position buckets a seat relative to the dealer button
type Position int

const (
	EarlyPosition Position = iota
	MiddlePosition
	LatePosition
)

func (p Position) String() string {
	return [...]string{"early", "middle", "late"}[p]
}

// PositionOf buckets the seat at idx relative to the dealer. The
// button and cutoff count as late, the blinds as early, everything
// between as middle. Works down to heads-up, where the button is late
// and the lone blind early.
func PositionOf(idx, dealer, numPlayers int) Position {
	if numPlayers <= 1 {
		return LatePosition
	}
	dist := (idx - dealer + numPlayers) % numPlayers
	switch {
	case dist == 0:
		return LatePosition
	case dist <= 2:
		return EarlyPosition
	case dist == numPlayers-1:
		return LatePosition
	default:
		return MiddlePosition
	}
}

// GameContext is a read-only snapshot handed to decision makers. Only
// the acting player's hole cards are populated; every other player's
// are stripped.
type GameContext struct {
	Player       Player
	Players      []Player
	Board        []deck.Card
	Pot          int
	MinimumBet   int
	Phase        Phase
	BettingRound int
	Position     Position
}

// CallAmount returns the chips needed to match the highest bet
func (ctx GameContext) CallAmount() int {
	return max(0, HighestBet(ctx.Players)-ctx.Player.CurrentBet)
}

// ActivePlayers counts players still contesting the pot
func (ctx GameContext) ActivePlayers() int {
	n := 0
	for _, p := range ctx.Players {
		if !p.Folded {
			n++
		}
	}
	return n
}
