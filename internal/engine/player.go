package engine

import "github.com/feltline/cardroom/internal/deck"

// Player holds one seat's state for the current hand. Chips persist
// across hands; everything else is cleared by ResetForNewHand.
type Player struct {
	ID         int
	Name       string
	Chips      int
	Hole       []deck.Card
	CurrentBet int // wagered this betting round
	TotalBet   int // wagered this hand
	Folded     bool
	AllIn      bool
	Dealer     bool
	AI         bool
	Acted      bool // voluntary action taken this round
}

// CanAct reports whether the player may still act in this hand
func (p Player) CanAct() bool {
	return !p.Folded && !p.AllIn
}

// The transitions below take and return Player values so betting
// sequences can be reasoned about without hidden mutation.

// PlaceBet wagers up to amount, capped at the player's stack. Hitting
// zero chips flips AllIn. Marks the player as having acted.
func PlaceBet(p Player, amount int) Player {
	if amount < 0 {
		amount = 0
	}
	bet := min(amount, p.Chips)
	p.Chips -= bet
	p.CurrentBet += bet
	p.TotalBet += bet
	if p.Chips == 0 {
		p.AllIn = true
	}
	p.Acted = true
	return p
}

// PostBlind is PlaceBet without marking the player as having acted.
// Blinds are forced, so they must not satisfy the everyone-has-acted
// half of the round-completion check; this is what gives the big blind
// its option when the action limps around.
func PostBlind(p Player, amount int) Player {
	acted := p.Acted
	p = PlaceBet(p, amount)
	p.Acted = acted
	return p
}

// FoldPlayer folds the hand. Chips are untouched.
func FoldPlayer(p Player) Player {
	p.Folded = true
	p.Acted = true
	return p
}

// ResetForNewHand clears all per-hand state. Chips carry over; rebuys
// are the caller's business.
func ResetForNewHand(p Player) Player {
	p.Hole = nil
	p.CurrentBet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.Dealer = false
	p.Acted = false
	return p
}

// ResetCurrentBet clears the per-round wager between streets. TotalBet
// is kept for side-pot accounting at showdown.
func ResetCurrentBet(p Player) Player {
	p.CurrentBet = 0
	p.Acted = false
	return p
}
