// Package render is the push-only display boundary. The game side
// calls out with card areas, status lines and chip counts; renderers
// never call back into the table.
package render

import (
	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
)

// BoardSeat marks the shared community card area
const BoardSeat = -1

// Target names a card area on the table: one seat's hole cards or the
// community board. FaceDown targets carry no card values, so a dumb
// renderer on the far side of a wire cannot leak a live hand.
type Target struct {
	Seat     int
	Name     string
	FaceDown bool
}

// Board returns the community card target
func Board() Target {
	return Target{Seat: BoardSeat, Name: "Board"}
}

// Renderer receives display pushes. Calls arrive in table order from a
// single goroutine at a time; implementations that fan out should do
// their own locking.
type Renderer interface {
	RenderCards(target Target, cards []deck.Card)
	UpdateStatus(text string, phase engine.Phase, pot int)
	UpdateChips(playerID, chips int)
}

// Silent drops every push. Simulations run with it.
type Silent struct{}

func (Silent) RenderCards(Target, []deck.Card) {}

func (Silent) UpdateStatus(string, engine.Phase, int) {}

func (Silent) UpdateChips(int, int) {}

// Multi fans pushes out to several renderers in order
type Multi []Renderer

func (m Multi) RenderCards(target Target, cards []deck.Card) {
	for _, r := range m {
		r.RenderCards(target, cards)
	}
}

func (m Multi) UpdateStatus(text string, phase engine.Phase, pot int) {
	for _, r := range m {
		r.UpdateStatus(text, phase, pot)
	}
}

func (m Multi) UpdateChips(playerID, chips int) {
	for _, r := range m {
		r.UpdateChips(playerID, chips)
	}
}
