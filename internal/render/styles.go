package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/feltline/cardroom/internal/deck"
)

// Styles collects the lipgloss styles the terminal renderer draws with
type Styles struct {
	Header    lipgloss.Style
	Status    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Chips     lipgloss.Style
	Winner    lipgloss.Style
}

// DefaultStyles returns the standard table colors, or unstyled output
// when the environment asks for no color.
func DefaultStyles() Styles {
	if termenv.EnvNoColor() {
		return PlainStyles()
	}
	return Styles{
		Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		RedCard:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		BlackCard: lipgloss.NewStyle().Foreground(lipgloss.Color("#AFAFAF")).Bold(true),
		Chips:     lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")),
		Winner:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
	}
}

// PlainStyles renders everything unstyled
func PlainStyles() Styles {
	return Styles{}
}

// FormatCards renders cards in brackets with red suits highlighted,
// like "[A♠ K♦]". Face-down hands render as backs.
func (s Styles) FormatCards(cards []deck.Card, faceDown bool) string {
	if faceDown {
		return "[## ##]"
	}
	if len(cards) == 0 {
		return "[]"
	}
	formatted := make([]string, len(cards))
	for i, card := range cards {
		if card.IsRed() {
			formatted[i] = s.RedCard.Render(card.String())
		} else {
			formatted[i] = s.BlackCard.Render(card.String())
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
