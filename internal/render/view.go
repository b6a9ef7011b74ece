package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/feltline/cardroom/internal/engine"
)

// View turns table events into renderer pushes from one player's
// perspective. Everyone else's hole cards stay face down until the
// showdown reveals them, and face-down pushes carry no card values at
// all.
type View struct {
	r           Renderer
	perspective int
	phase       engine.Phase
	chips       map[int]int
	names       map[int]string
}

// NewView builds a view for the given seat. A negative seat gives a
// spectator view with every hand face down.
func NewView(r Renderer, perspective int) *View {
	return &View{
		r:           r,
		perspective: perspective,
		chips:       make(map[int]int),
		names:       make(map[int]string),
	}
}

// OnEvent implements engine.EventSubscriber
func (v *View) OnEvent(event engine.GameEvent) {
	switch e := event.(type) {
	case engine.HandStartEvent:
		v.handStart(e)
	case engine.PhaseChangeEvent:
		v.phase = e.Phase
		v.r.RenderCards(Board(), e.Board)
		v.r.UpdateStatus(fmt.Sprintf("%s dealt", e.Phase), e.Phase, e.Pot)
	case engine.PlayerActionEvent:
		v.playerAction(e)
	case engine.ActionRequestEvent:
		v.actionRequest(e)
	case engine.ShowdownEvent:
		v.showdown(e)
	case engine.HandEndEvent:
		v.handEnd(e)
	}
}

func (v *View) handStart(e engine.HandStartEvent) {
	v.phase = engine.Preflop
	v.r.RenderCards(Board(), nil)

	pot := 0
	for _, p := range e.Players {
		v.names[p.ID] = p.Name
		v.chips[p.ID] = p.Chips
		pot += p.CurrentBet
		v.r.UpdateChips(p.ID, p.Chips)

		if len(p.Hole) == 0 {
			continue // sitting out this hand
		}
		if p.ID == v.perspective {
			v.r.RenderCards(Target{Seat: p.ID, Name: "You"}, p.Hole)
		} else {
			v.r.RenderCards(Target{Seat: p.ID, Name: p.Name, FaceDown: true}, nil)
		}
	}
	v.r.UpdateStatus(fmt.Sprintf("hand #%d, blinds %d/%d", e.HandNum, e.SmallBlind, e.BigBlind), engine.Preflop, pot)
}

func (v *View) playerAction(e engine.PlayerActionEvent) {
	if e.Amount > 0 {
		v.chips[e.PlayerID] -= e.Amount
		v.r.UpdateChips(e.PlayerID, v.chips[e.PlayerID])
	}

	var text string
	switch e.Action {
	case engine.Fold:
		text = fmt.Sprintf("%s folds", e.Name)
	case engine.Check:
		text = fmt.Sprintf("%s checks", e.Name)
	case engine.Call:
		text = fmt.Sprintf("%s calls %d", e.Name, e.Amount)
	case engine.Raise:
		text = fmt.Sprintf("%s raises %d", e.Name, e.Amount)
	}
	if e.AllIn {
		text += " (all in)"
	}
	v.r.UpdateStatus(text, e.Phase, e.PotAfter)
}

func (v *View) actionRequest(e engine.ActionRequestEvent) {
	if e.PlayerID != v.perspective {
		return
	}
	var text string
	if e.ToCall > 0 {
		text = fmt.Sprintf("your turn: call %d, raise (min %d) or fold", e.ToCall, e.MinRaise)
	} else {
		text = fmt.Sprintf("your turn: check or raise (min %d)", e.MinRaise)
	}
	v.r.UpdateStatus(text, e.Phase, e.Pot)
}

func (v *View) showdown(e engine.ShowdownEvent) {
	v.phase = engine.Showdown
	v.r.RenderCards(Board(), e.Board)

	total := 0
	for _, pot := range e.Pots {
		total += pot.Amount
	}
	for _, reveal := range e.Reveals {
		name := reveal.Name
		if reveal.PlayerID == v.perspective {
			name = "You"
		}
		v.r.RenderCards(Target{Seat: reveal.PlayerID, Name: name}, reveal.Hole)
		v.r.UpdateStatus(fmt.Sprintf("%s shows %s", reveal.Name, reveal.HandDesc), engine.Showdown, total)
	}
}

func (v *View) handEnd(e engine.HandEndEvent) {
	ids := make([]int, 0, len(e.Payouts))
	for id := range e.Payouts {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if e.Payouts[id] > 0 {
			v.chips[id] += e.Payouts[id]
			v.r.UpdateChips(id, v.chips[id])
		}
	}

	for _, w := range e.Winners {
		var text string
		switch {
		case e.Foldout:
			text = fmt.Sprintf("%s takes %d uncontested", w.Name, w.Amount)
		case w.HandDesc != "":
			text = fmt.Sprintf("%s wins %d with %s", w.Name, w.Amount, w.HandDesc)
		default:
			text = fmt.Sprintf("%s wins %d", w.Name, w.Amount)
		}
		v.r.UpdateStatus(text, v.phase, e.Pot)
	}
	v.r.UpdateStatus("stacks: "+v.stackLine(), v.phase, 0)
}

func (v *View) stackLine() string {
	ids := make([]int, 0, len(v.chips))
	for id := range v.chips {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		name := v.names[id]
		if id == v.perspective {
			name = "You"
		}
		parts = append(parts, fmt.Sprintf("%s %d", name, v.chips[id]))
	}
	return strings.Join(parts, ", ")
}
