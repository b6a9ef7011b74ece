package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrEmptyDeck is returned by Draw when no cards remain. A correct deal
// never exhausts the deck, so callers treat it as a fatal table fault.
var ErrEmptyDeck = errors.New("deck: no cards remaining")

// Size is the number of cards in a full deck
const Size = 52

// Deck represents a deck of playing cards. It is not safe for concurrent
// use; the dealing goroutine owns it.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a full 52-card deck, shuffled with the given source.
// Passing the same source state yields the same order, which keeps
// hands replayable.
func New(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// Reset rebuilds the full 52 cards and shuffles them. Previously drawn
// cards are forgotten.
func (d *Deck) Reset() {
	if cap(d.cards) < Size {
		d.cards = make([]Card, 0, Size)
	}
	d.cards = d.cards[:0]
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Suit: suit, Rank: rank})
		}
	}
	d.shuffle()
}

// shuffle performs a Fisher-Yates shuffle over the remaining cards
func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrEmptyDeck
	}
	card := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return card, nil
}

// DrawN removes and returns n cards. On failure the deck is unchanged.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, ErrEmptyDeck
	}
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = d.cards[len(d.cards)-1-i]
	}
	d.cards = d.cards[:len(d.cards)-n]
	return cards, nil
}

// Remaining returns the number of cards left
func (d *Deck) Remaining() int {
	return len(d.cards)
}
