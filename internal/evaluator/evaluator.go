package evaluator

import (
	"fmt"
	"sort"

	"github.com/feltline/cardroom/internal/deck"
)

// Category represents the class of a 5-card hand, strongest last
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable hand description
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Hand is a ranked 5-card hand. Primary holds the deciding ranks (the trip
// rank then the pair rank for a full house, both pair ranks for two pair),
// Kickers the remaining ranks, both ordered descending.
type Hand struct {
	Category Category
	Primary  []deck.Rank
	Kickers  []deck.Rank
	Cards    []deck.Card
}

// String returns the hand's category description
func (h Hand) String() string {
	return h.Category.String()
}

// Compare returns 1 if h beats other, -1 if other beats h, 0 on an exact tie.
// Order is category first, then Primary, then Kickers.
func (h Hand) Compare(other Hand) int {
	if h.Category != other.Category {
		if h.Category > other.Category {
			return 1
		}
		return -1
	}
	if c := compareRanks(h.Primary, other.Primary); c != 0 {
		return c
	}
	return compareRanks(h.Kickers, other.Kickers)
}

func compareRanks(a, b []deck.Rank) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Rank5 classifies exactly five cards
func Rank5(cards []deck.Card) Hand {
	if len(cards) != 5 {
		panic(fmt.Sprintf("evaluator: Rank5 needs 5 cards, got %d", len(cards)))
	}

	sorted := make([]deck.Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank > sorted[j].Rank })

	flush := isFlush(sorted)
	straightHigh, isStraight := straightHighCard(sorted)

	if flush && isStraight {
		if straightHigh == deck.Ace {
			return Hand{Category: RoyalFlush, Primary: []deck.Rank{deck.Ace}, Cards: sorted}
		}
		return Hand{Category: StraightFlush, Primary: []deck.Rank{straightHigh}, Cards: wheelOrder(sorted, straightHigh)}
	}

	groups := groupByRank(sorted)

	switch {
	case groups[0].count == 4:
		return Hand{
			Category: FourOfAKind,
			Primary:  []deck.Rank{groups[0].rank},
			Kickers:  []deck.Rank{groups[1].rank},
			Cards:    sorted,
		}
	case groups[0].count == 3 && groups[1].count == 2:
		return Hand{
			Category: FullHouse,
			Primary:  []deck.Rank{groups[0].rank, groups[1].rank},
			Cards:    sorted,
		}
	case flush:
		return Hand{
			Category: Flush,
			Primary:  []deck.Rank{sorted[0].Rank},
			Kickers:  ranksOf(sorted[1:]),
			Cards:    sorted,
		}
	case isStraight:
		return Hand{Category: Straight, Primary: []deck.Rank{straightHigh}, Cards: wheelOrder(sorted, straightHigh)}
	case groups[0].count == 3:
		return Hand{
			Category: ThreeOfAKind,
			Primary:  []deck.Rank{groups[0].rank},
			Kickers:  []deck.Rank{groups[1].rank, groups[2].rank},
			Cards:    sorted,
		}
	case groups[0].count == 2 && groups[1].count == 2:
		return Hand{
			Category: TwoPair,
			Primary:  []deck.Rank{groups[0].rank, groups[1].rank},
			Kickers:  []deck.Rank{groups[2].rank},
			Cards:    sorted,
		}
	case groups[0].count == 2:
		return Hand{
			Category: Pair,
			Primary:  []deck.Rank{groups[0].rank},
			Kickers:  []deck.Rank{groups[1].rank, groups[2].rank, groups[3].rank},
			Cards:    sorted,
		}
	default:
		return Hand{
			Category: HighCard,
			Primary:  []deck.Rank{sorted[0].Rank},
			Kickers:  ranksOf(sorted[1:]),
			Cards:    sorted,
		}
	}
}

// Best finds the best 5-card hand from 5-7 cards by ranking every
// 5-card subset. 7 cards is only 21 subsets, no pruning needed.
func Best(cards []deck.Card) (Hand, error) {
	n := len(cards)
	if n < 5 || n > 7 {
		return Hand{}, fmt.Errorf("evaluator: need 5-7 cards, got %d", n)
	}
	if n == 5 {
		return Rank5(cards), nil
	}

	var best Hand
	pick := make([]deck.Card, 5)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2], pick[3], pick[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						h := Rank5(pick)
						if best.Category == 0 || h.Compare(best) > 0 {
							best = h
						}
					}
				}
			}
		}
	}
	return best, nil
}

// ShowdownWinners compares each contender's hole cards against the
// board and returns the indices of everyone tied at the best hand, in
// input order. A single contender wins outright without evaluation, so
// an uncontested hand never needs a full board.
func ShowdownWinners(holes [][]deck.Card, board []deck.Card) ([]int, error) {
	if len(holes) == 0 {
		return nil, fmt.Errorf("evaluator: no contenders at showdown")
	}
	if len(holes) == 1 {
		return []int{0}, nil
	}

	var winners []int
	var top Hand
	cards := make([]deck.Card, 0, 7)
	for i, hole := range holes {
		cards = append(cards[:0], hole...)
		cards = append(cards, board...)
		hand, err := Best(cards)
		if err != nil {
			return nil, fmt.Errorf("evaluator: contender %d: %w", i, err)
		}
		if len(winners) == 0 {
			winners = append(winners, i)
			top = hand
			continue
		}
		switch hand.Compare(top) {
		case 1:
			winners = winners[:0]
			winners = append(winners, i)
			top = hand
		case 0:
			winners = append(winners, i)
		}
	}
	return winners, nil
}

// isFlush reports whether all five cards share a suit
func isFlush(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// straightHighCard returns the straight's high rank for five descending
// cards. The wheel A-5-4-3-2 counts with the Five as its high card.
func straightHighCard(sorted []deck.Card) (deck.Rank, bool) {
	run := true
	for i := 1; i < 5; i++ {
		if sorted[i-1].Rank != sorted[i].Rank+1 {
			run = false
			break
		}
	}
	if run {
		return sorted[0].Rank, true
	}

	// Wheel: A,5,4,3,2 once sorted descending
	if sorted[0].Rank == deck.Ace &&
		sorted[1].Rank == deck.Five &&
		sorted[2].Rank == deck.Four &&
		sorted[3].Rank == deck.Three &&
		sorted[4].Rank == deck.Two {
		return deck.Five, true
	}
	return 0, false
}

// wheelOrder moves the ace to the bottom when the straight is a wheel,
// so Cards reads 5-4-3-2-A
func wheelOrder(sorted []deck.Card, high deck.Rank) []deck.Card {
	if high != deck.Five || sorted[0].Rank != deck.Ace {
		return sorted
	}
	reordered := make([]deck.Card, 0, 5)
	reordered = append(reordered, sorted[1:]...)
	reordered = append(reordered, sorted[0])
	return reordered
}

type rankGroup struct {
	rank  deck.Rank
	count int
}

// groupByRank groups the five cards by rank, ordered by count then rank
// descending, so groups[0] is always the deciding group.
func groupByRank(sorted []deck.Card) []rankGroup {
	groups := make([]rankGroup, 0, 5)
	for _, c := range sorted {
		if len(groups) > 0 && groups[len(groups)-1].rank == c.Rank {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, rankGroup{rank: c.Rank, count: 1})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})
	return groups
}

func ranksOf(cards []deck.Card) []deck.Rank {
	ranks := make([]deck.Rank, len(cards))
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	return ranks
}
