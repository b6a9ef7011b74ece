package evaluator

import "github.com/feltline/cardroom/internal/deck"

// Heuristic strength scores for betting decisions. Deliberately coarse:
// showdown resolution always goes through Best/Compare, never these.

// PreflopStrength scores two hole cards in [0,1] from pair, suited,
// connectedness and high-card quality.
func PreflopStrength(hole []deck.Card) float64 {
	if len(hole) != 2 {
		return 0
	}

	high, low := hole[0].Rank, hole[1].Rank
	if low > high {
		high, low = low, high
	}
	suited := hole[0].Suit == hole[1].Suit
	gap := int(high) - int(low)

	// Pocket pairs
	if gap == 0 {
		switch {
		case high >= deck.Jack:
			return 0.90
		case high >= deck.Nine:
			return 0.75
		case high >= deck.Six:
			return 0.60
		default:
			return 0.45
		}
	}

	var strength float64
	switch {
	case high == deck.Ace && low >= deck.King,
		high == deck.King && low == deck.Queen:
		strength = 0.75
	case high == deck.Ace && low >= deck.Ten,
		high == deck.King && low >= deck.Jack,
		high == deck.Queen && low >= deck.Jack:
		strength = 0.60
	case high >= deck.Ten && low >= deck.Ten:
		strength = 0.50
	case high == deck.Ace:
		strength = 0.40
	case high >= deck.Jack:
		strength = 0.35
	default:
		strength = 0.20 + float64(high)/100
	}

	if suited {
		strength += 0.05
		if gap <= 2 && high >= deck.Seven {
			strength += 0.05
		}
	}
	if !suited && gap == 1 && high >= deck.Nine {
		strength += 0.03
	}

	if strength > 1 {
		strength = 1
	}
	return strength
}

// PostflopStrength scores hole cards against a 3-5 card board in [0,1]
// by the made hand's category.
func PostflopStrength(hole, board []deck.Card) float64 {
	all := make([]deck.Card, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)

	best, err := Best(all)
	if err != nil {
		return 0
	}

	switch best.Category {
	case RoyalFlush:
		return 1.0
	case StraightFlush:
		return 0.98
	case FourOfAKind:
		return 0.95
	case FullHouse:
		return 0.90
	case Flush:
		return 0.80
	case Straight:
		return 0.75
	case ThreeOfAKind:
		return 0.70
	case TwoPair:
		return 0.60
	case Pair:
		if len(best.Primary) > 0 && best.Primary[0] >= deck.Jack {
			return 0.50
		}
		return 0.45
	default:
		if len(best.Primary) > 0 && best.Primary[0] == deck.Ace {
			return 0.30
		}
		return 0.20
	}
}
