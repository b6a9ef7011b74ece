package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
)

// Terminal writes each push as a line of styled text, in the spirit of
// a hand history log.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	styles Styles
	names  map[int]string
}

// NewTerminal builds a terminal renderer. names maps seat IDs to
// display names for chip lines; unnamed seats print by number.
func NewTerminal(w io.Writer, styles Styles, names map[int]string) *Terminal {
	t := &Terminal{w: w, styles: styles, names: make(map[int]string)}
	for id, name := range names {
		t.names[id] = name
	}
	return t
}

// RenderCards implements Renderer
func (t *Terminal) RenderCards(target Target, cards []deck.Card) {
	t.mu.Lock()
	defer t.mu.Unlock()

	label := target.Name
	if label == "" {
		label = t.label(target.Seat)
	}
	if target.Seat == BoardSeat && len(cards) == 0 {
		// A cleared board precedes the next deal; nothing to show.
		return
	}
	fmt.Fprintf(t.w, "%s: %s\n", t.styles.Header.Render(label), t.styles.FormatCards(cards, target.FaceDown))
}

// UpdateStatus implements Renderer
func (t *Terminal) UpdateStatus(text string, phase engine.Phase, pot int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s\n", t.styles.Status.Render(fmt.Sprintf("[%s] pot %d | %s", phase, pot, text)))
}

// UpdateChips implements Renderer
func (t *Terminal) UpdateChips(playerID, chips int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "%s\n", t.styles.Chips.Render(fmt.Sprintf("%s has %d chips", t.label(playerID), chips)))
}

func (t *Terminal) label(seat int) string {
	if name, ok := t.names[seat]; ok {
		return name
	}
	return fmt.Sprintf("Seat %d", seat)
}
