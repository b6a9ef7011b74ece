package render

import (
	"strings"
	"testing"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
)

type cardPush struct {
	target Target
	cards  []deck.Card
}

type statusPush struct {
	text  string
	phase engine.Phase
	pot   int
}

type chipPush struct {
	playerID int
	chips    int
}

type pushRecorder struct {
	cards    []cardPush
	statuses []statusPush
	chips    []chipPush
}

func (r *pushRecorder) RenderCards(target Target, cards []deck.Card) {
	r.cards = append(r.cards, cardPush{target: target, cards: cards})
}

func (r *pushRecorder) UpdateStatus(text string, phase engine.Phase, pot int) {
	r.statuses = append(r.statuses, statusPush{text: text, phase: phase, pot: pot})
}

func (r *pushRecorder) UpdateChips(playerID, chips int) {
	r.chips = append(r.chips, chipPush{playerID: playerID, chips: chips})
}

func (r *pushRecorder) lastStatus(t *testing.T) statusPush {
	t.Helper()
	if len(r.statuses) == 0 {
		t.Fatal("no status pushes recorded")
	}
	return r.statuses[len(r.statuses)-1]
}

func startPlayers() []engine.Player {
	return []engine.Player{
		{ID: 0, Name: "Hero", Chips: 995, Hole: deck.MustParseCards("AsKd"), CurrentBet: 5},
		{ID: 1, Name: "Bob", Chips: 990, Hole: deck.MustParseCards("QhQc"), CurrentBet: 10},
		{ID: 2, Name: "Carol", Chips: 1000, Hole: deck.MustParseCards("7s7d")},
	}
}

func TestViewDealsOwnCardsFaceUpOthersFaceDown(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)

	v.OnEvent(engine.NewHandStartEvent("h1", 1, startPlayers(), 2, 5, 10))

	var own, hidden []cardPush
	for _, push := range rec.cards {
		if push.target.Seat == BoardSeat {
			continue
		}
		if push.target.FaceDown {
			hidden = append(hidden, push)
		} else {
			own = append(own, push)
		}
	}

	if len(own) != 1 || own[0].target.Seat != 0 || own[0].target.Name != "You" {
		t.Fatalf("own card pushes = %+v, want one face-up push for seat 0", own)
	}
	if deck.Cards(own[0].cards).Codes() != "AsKd" {
		t.Errorf("own cards = %v, want AsKd", own[0].cards)
	}

	if len(hidden) != 2 {
		t.Fatalf("got %d face-down pushes, want 2", len(hidden))
	}
	for _, push := range hidden {
		// Face-down pushes must never carry card values.
		if len(push.cards) != 0 {
			t.Errorf("face-down push for seat %d leaked cards %v", push.target.Seat, push.cards)
		}
	}

	last := rec.lastStatus(t)
	if last.text != "hand #1, blinds 5/10" || last.phase != engine.Preflop || last.pot != 15 {
		t.Errorf("hand start status = %+v", last)
	}

	if len(rec.chips) != 3 {
		t.Fatalf("got %d chip pushes, want 3", len(rec.chips))
	}
	if rec.chips[0] != (chipPush{0, 995}) || rec.chips[1] != (chipPush{1, 990}) || rec.chips[2] != (chipPush{2, 1000}) {
		t.Errorf("chip pushes = %+v", rec.chips)
	}
}

func TestViewSkipsSeatsWithoutCards(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)

	players := startPlayers()
	players[2].Hole = nil // busted seat sits out

	v.OnEvent(engine.NewHandStartEvent("h1", 1, players, 1, 5, 10))

	for _, push := range rec.cards {
		if push.target.Seat == 2 {
			t.Errorf("sitting-out seat got a card push: %+v", push)
		}
	}
}

func TestViewTracksChipsThroughHand(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)
	v.OnEvent(engine.NewHandStartEvent("h1", 1, startPlayers(), 2, 5, 10))

	v.OnEvent(engine.NewPlayerActionEvent("h1",
		engine.Player{ID: 1, Name: "Bob"}, engine.Call, engine.Call, 10, false, "", engine.Preflop, 25))

	got := rec.chips[len(rec.chips)-1]
	if got != (chipPush{1, 980}) {
		t.Errorf("chip push after call = %+v, want Bob at 980", got)
	}
	if s := rec.lastStatus(t); s.text != "Bob calls 10" || s.pot != 25 {
		t.Errorf("status after call = %+v", s)
	}

	winners := []engine.WinnerInfo{{PlayerID: 1, Name: "Bob", Amount: 30, HandDesc: "a pair of queens"}}
	v.OnEvent(engine.NewHandEndEvent("h1", 30, false, winners, map[int]int{1: 30}, map[int]int{1: 10}))

	var final *chipPush
	for i := range rec.chips {
		if rec.chips[i].playerID == 1 {
			final = &rec.chips[i]
		}
	}
	if final == nil || final.chips != 1010 {
		t.Fatalf("final chip push = %+v, want Bob at 1010", final)
	}

	var sawWin bool
	for _, s := range rec.statuses {
		if s.text == "Bob wins 30 with a pair of queens" {
			sawWin = true
		}
	}
	if !sawWin {
		t.Errorf("no winner status, got %+v", rec.statuses)
	}
	if s := rec.lastStatus(t); !strings.Contains(s.text, "Bob 1010") {
		t.Errorf("stack line = %q, want Bob at 1010", s.text)
	}
}

func TestViewAllInSuffix(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)

	v.OnEvent(engine.NewPlayerActionEvent("h1",
		engine.Player{ID: 1, Name: "Bob", AllIn: true}, engine.Call, engine.Raise, 80, false, "", engine.Turn, 200))

	if s := rec.lastStatus(t); s.text != "Bob calls 80 (all in)" {
		t.Errorf("status = %q, want all-in suffix", s.text)
	}
}

func TestViewActionRequestOnlyForOwnSeat(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)

	v.OnEvent(engine.NewActionRequestEvent("h1", engine.Player{ID: 1, Name: "Bob"}, 20, 10, engine.Flop, 60))
	if len(rec.statuses) != 0 {
		t.Fatalf("someone else's turn produced a status: %+v", rec.statuses)
	}

	v.OnEvent(engine.NewActionRequestEvent("h1", engine.Player{ID: 0, Name: "Hero"}, 20, 10, engine.Flop, 60))
	if s := rec.lastStatus(t); s.text != "your turn: call 20, raise (min 10) or fold" {
		t.Errorf("status = %q", s.text)
	}

	v.OnEvent(engine.NewActionRequestEvent("h1", engine.Player{ID: 0, Name: "Hero"}, 0, 10, engine.Flop, 60))
	if s := rec.lastStatus(t); s.text != "your turn: check or raise (min 10)" {
		t.Errorf("status = %q", s.text)
	}
}

func TestViewPhaseChangeRendersBoard(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)

	board := deck.MustParseCards("Ah7d2c")
	v.OnEvent(engine.NewPhaseChangeEvent("h1", engine.Flop, board, 60))

	last := rec.cards[len(rec.cards)-1]
	if last.target.Seat != BoardSeat || deck.Cards(last.cards).Codes() != "Ah7d2c" {
		t.Errorf("board push = %+v", last)
	}
	if s := rec.lastStatus(t); s.text != "flop dealt" || s.phase != engine.Flop || s.pot != 60 {
		t.Errorf("status = %+v", s)
	}
}

func TestViewShowdownRevealsEveryHand(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)

	reveals := []engine.Reveal{
		{PlayerID: 0, Name: "Hero", Hole: deck.MustParseCards("AsKd"), HandDesc: "a pair of aces"},
		{PlayerID: 1, Name: "Bob", Hole: deck.MustParseCards("QhQc"), HandDesc: "three queens"},
	}
	board := deck.MustParseCards("AhQd7c2s9h")
	pots := []engine.Pot{{Amount: 200, Eligible: []int{0, 1}}}
	v.OnEvent(engine.NewShowdownEvent("h1", board, pots, reveals))

	faceUp := 0
	for _, push := range rec.cards {
		if push.target.Seat != BoardSeat && !push.target.FaceDown {
			faceUp++
			if len(push.cards) != 2 {
				t.Errorf("reveal push missing cards: %+v", push)
			}
		}
	}
	if faceUp != 2 {
		t.Errorf("got %d face-up reveals, want 2", faceUp)
	}

	var sawShow bool
	for _, s := range rec.statuses {
		if s.text == "Bob shows three queens" && s.pot == 200 {
			sawShow = true
		}
	}
	if !sawShow {
		t.Errorf("no showdown status for Bob, got %+v", rec.statuses)
	}
}

func TestViewFoldoutText(t *testing.T) {
	rec := &pushRecorder{}
	v := NewView(rec, 0)
	v.OnEvent(engine.NewHandStartEvent("h1", 1, startPlayers(), 2, 5, 10))

	winners := []engine.WinnerInfo{{PlayerID: 2, Name: "Carol", Amount: 15}}
	v.OnEvent(engine.NewHandEndEvent("h1", 15, true, winners, map[int]int{2: 15}, map[int]int{2: 15}))

	var sawTake bool
	for _, s := range rec.statuses {
		if s.text == "Carol takes 15 uncontested" {
			sawTake = true
		}
	}
	if !sawTake {
		t.Errorf("no foldout status, got %+v", rec.statuses)
	}
}
