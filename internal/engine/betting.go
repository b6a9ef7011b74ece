package engine

import "fmt"

// Phase represents the betting round
type Phase int

const (
	Preflop Phase = iota
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown"}[p]
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction maps an action name back to an Action
func ParseAction(s string) (Action, error) {
	switch s {
	case "fold":
		return Fold, nil
	case "check":
		return Check, nil
	case "call":
		return Call, nil
	case "raise":
		return Raise, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// HighestBet returns the largest current-round wager at the table
func HighestBet(players []Player) int {
	highest := 0
	for _, p := range players {
		if p.CurrentBet > highest {
			highest = p.CurrentBet
		}
	}
	return highest
}

// BettingComplete reports whether the round can close: every non-folded
// player is all-in, or has acted with a bet matching the table's
// highest. Posted blinds do not count as acting, so the big blind keeps
// its option when the action limps around. A lone live player whose bet
// already matches has nobody left to bet against, so the streets run
// out without prompting them.
func BettingComplete(players []Player) bool {
	highest := HighestBet(players)
	live := 0
	for _, p := range players {
		if p.CanAct() {
			live++
		}
	}
	for _, p := range players {
		if p.Folded || p.AllIn {
			continue
		}
		if p.CurrentBet != highest {
			return false
		}
		if !p.Acted && live > 1 {
			return false
		}
	}
	return true
}

// NextActor returns the index of the next player after current who can
// still act, wrapping around the table. When nobody can act the index
// comes back unchanged.
func NextActor(players []Player, current int) int {
	if idx, ok := nextActor(players, current); ok {
		return idx
	}
	return current
}

func nextActor(players []Player, from int) (int, bool) {
	n := len(players)
	for i := 1; i <= n; i++ {
		idx := (from + i) % n
		if players[idx].CanAct() {
			return idx, true
		}
	}
	return from, false
}

// ValidAction describes one legal move for the acting player. For
// raises, MinAmount and MaxAmount bound the increment above the
// table's highest bet; MaxAmount puts the player all-in.
type ValidAction struct {
	Action    Action
	MinAmount int
	MaxAmount int
}

// ValidActionsFor lists the legal moves for a player facing the given
// highest bet and minimum raise. A short all-in raise below the minimum
// is legal when it is everything the player has.
func ValidActionsFor(p Player, highest, minRaise int) []ValidAction {
	if !p.CanAct() {
		return nil
	}

	actions := []ValidAction{{Action: Fold}}
	toCall := highest - p.CurrentBet

	if toCall <= 0 {
		actions = append(actions, ValidAction{Action: Check})
		if p.Chips > 0 {
			actions = append(actions, ValidAction{
				Action:    Raise,
				MinAmount: min(minRaise, p.Chips),
				MaxAmount: p.Chips,
			})
		}
		return actions
	}

	actions = append(actions, ValidAction{Action: Call})
	if p.Chips > toCall {
		actions = append(actions, ValidAction{
			Action:    Raise,
			MinAmount: min(minRaise, p.Chips-toCall),
			MaxAmount: p.Chips - toCall,
		})
	}
	return actions
}
