package engine

import "sort"

// Pot holds chips contested by a set of players. Eligible lists the
// player IDs that can win it, in seating order. Folded players pay
// into pots but never appear in Eligible.
type Pot struct {
	Amount   int
	Eligible []int
}

// TotalPot sums every chip wagered across the hand so far.
func TotalPot(players []Player) int {
	total := 0
	for _, p := range players {
		total += p.TotalBet
	}
	return total
}

// SidePots layers the hand's wagers into a main pot and side pots.
// Each distinct all-in level caps a layer; everyone pays into a layer
// up to its cap, and only non-folded players who covered the cap are
// eligible to win it. With no all-ins this collapses to a single pot.
func SidePots(players []Player) []Pot {
	levels := make([]int, 0, len(players))
	seen := make(map[int]bool)
	for _, p := range players {
		if p.TotalBet > 0 && !seen[p.TotalBet] {
			seen[p.TotalBet] = true
			levels = append(levels, p.TotalBet)
		}
	}
	sort.Ints(levels)

	pots := make([]Pot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for i, p := range players {
			contribution := min(p.TotalBet, level) - prev
			if contribution > 0 {
				pot.Amount += contribution
			}
			if !p.Folded && p.TotalBet >= level {
				pot.Eligible = append(pot.Eligible, players[i].ID)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}
	return pots
}

// SplitPot divides amount between the winners. When the chips do not
// divide evenly, the leftover singles go to the earliest winners in
// seating order, one each.
func SplitPot(winners []int, amount int) map[int]int {
	payouts := make(map[int]int, len(winners))
	if len(winners) == 0 {
		return payouts
	}
	base := amount / len(winners)
	remainder := amount % len(winners)
	for i, id := range winners {
		payouts[id] = base
		if i < remainder {
			payouts[id]++
		}
	}
	return payouts
}

// MinimumBet returns the smallest legal raise increment: the size of
// the last raise, floored at the big blind.
func MinimumBet(bigBlind, lastRaise int) int {
	return max(bigBlind, lastRaise)
}
