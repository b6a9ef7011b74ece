package ai

import (
	"testing"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/randutil"
)

// testCtx builds a three-seat snapshot with one folded seat. The hero
// sits at seat 0; the villain's current bet sets the price of a call.
func testCtx(hole, board string, selfBet, villainBet, pot, minBet int, pos engine.Position) engine.GameContext {
	var boardCards []deck.Card
	if board != "" {
		boardCards = deck.MustParseCards(board)
	}
	phase := engine.Preflop
	switch len(boardCards) {
	case 3:
		phase = engine.Flop
	case 4:
		phase = engine.Turn
	case 5:
		phase = engine.River
	}
	return engine.GameContext{
		Player: engine.Player{ID: 0, Name: "Hero", Chips: 1000, Hole: deck.MustParseCards(hole), CurrentBet: selfBet},
		Players: []engine.Player{
			{ID: 0, Chips: 1000, CurrentBet: selfBet},
			{ID: 1, Chips: 1000, CurrentBet: villainBet},
			{ID: 2, Chips: 1000, Folded: true},
		},
		Board:      boardCards,
		Pot:        pot,
		MinimumBet: minBet,
		Phase:      phase,
		Position:   pos,
	}
}

func TestParsePersonality(t *testing.T) {
	for _, p := range Personalities {
		got, err := ParsePersonality(p.String())
		if err != nil {
			t.Fatalf("ParsePersonality(%q) error: %v", p, err)
		}
		if got != p {
			t.Errorf("ParsePersonality(%q) = %v, want %v", p, got, p)
		}
	}
	if _, err := ParsePersonality("maniac"); err == nil {
		t.Error("expected error for unknown personality")
	}
}

func TestProfileShape(t *testing.T) {
	for _, p := range Personalities {
		prof := p.Profile()
		for name, v := range map[string]float64{
			"bluff":      prof.BluffFrequency,
			"aggression": prof.AggressionLevel,
			"fold":       prof.FoldThreshold,
			"raise":      prof.RaiseThreshold,
		} {
			if v < 0 || v > 1 {
				t.Errorf("%v %s = %v, want within [0,1]", p, name, v)
			}
		}
		if prof.FoldThreshold >= prof.RaiseThreshold {
			t.Errorf("%v fold threshold %v not below raise threshold %v", p, prof.FoldThreshold, prof.RaiseThreshold)
		}
	}

	// Tight styles demand more to continue, aggressive styles bluff and
	// bet more than their passive counterparts.
	if TightAggressive.Profile().FoldThreshold <= LooseAggressive.Profile().FoldThreshold {
		t.Error("tight-aggressive should fold more easily than loose-aggressive")
	}
	if TightAggressive.Profile().AggressionLevel <= TightPassive.Profile().AggressionLevel {
		t.Error("tight-aggressive should out-aggress tight-passive")
	}
	if LooseAggressive.Profile().BluffFrequency <= TightAggressive.Profile().BluffFrequency {
		t.Error("loose-aggressive should bluff more than tight-aggressive")
	}
}

func TestNeverChecksFacingBet(t *testing.T) {
	for _, p := range Personalities {
		for seed := int64(0); seed < 100; seed++ {
			for _, hole := range []string{"9h4c", "AsAh"} {
				e := NewEngine(randutil.New(seed), p)
				ctx := testCtx(hole, "", 0, 20, 30, 10, engine.MiddlePosition)

				d := e.MakeDecision(ctx)
				if d.Action == engine.Check {
					t.Fatalf("%v seed %d hole %s checked facing a bet", p, seed, hole)
				}
				if d.Action == engine.Raise && d.Amount < ctx.MinimumBet {
					t.Fatalf("%v seed %d raised %d below minimum %d", p, seed, d.Amount, ctx.MinimumBet)
				}
				if d.Confidence < 0 || d.Confidence > 1 {
					t.Fatalf("%v seed %d confidence %v outside [0,1]", p, seed, d.Confidence)
				}
				if d.Reasoning == "" {
					t.Fatalf("%v seed %d decision has no reasoning", p, seed)
				}
			}
		}
	}
}

func TestWeakHandChecksWhenFree(t *testing.T) {
	for _, p := range Personalities {
		for seed := int64(0); seed < 100; seed++ {
			e := NewEngine(randutil.New(seed), p)
			ctx := testCtx("9h4c", "", 0, 0, 30, 10, engine.EarlyPosition)

			if d := e.MakeDecision(ctx); d.Action != engine.Check {
				t.Fatalf("%v seed %d: got %v, want check with nothing to call", p, seed, d.Action)
			}
		}
	}
}

func TestStrongHandRaisesWhenFree(t *testing.T) {
	for _, p := range Personalities {
		for seed := int64(0); seed < 100; seed++ {
			e := NewEngine(randutil.New(seed), p)
			// Royal flush on the flop, checked to the hero.
			ctx := testCtx("AsKs", "QsJsTs", 0, 0, 60, 10, engine.EarlyPosition)

			d := e.MakeDecision(ctx)
			if d.Action != engine.Raise {
				t.Fatalf("%v seed %d: got %v, want raise with the nuts", p, seed, d.Action)
			}
			if d.Amount < ctx.MinimumBet {
				t.Fatalf("%v seed %d: raise %d below minimum %d", p, seed, d.Amount, ctx.MinimumBet)
			}
		}
	}
}

func TestStrongHandNeverFoldsFacingBet(t *testing.T) {
	for _, p := range Personalities {
		for seed := int64(0); seed < 100; seed++ {
			e := NewEngine(randutil.New(seed), p)
			ctx := testCtx("AsAh", "", 10, 30, 55, 20, engine.EarlyPosition)

			if d := e.MakeDecision(ctx); d.Action == engine.Fold {
				t.Fatalf("%v seed %d folded pocket aces preflop", p, seed)
			}
		}
	}
}

func TestThresholdShiftByPosition(t *testing.T) {
	e := &Engine{profile: Profile{FoldThreshold: 0.30, RaiseThreshold: 0.60}}

	tests := []struct {
		pos     engine.Position
		foldAt  float64
		raiseAt float64
	}{
		{engine.EarlyPosition, 0.40, 0.70},
		{engine.MiddlePosition, 0.30, 0.60},
		{engine.LatePosition, 0.25, 0.55},
	}
	for _, tt := range tests {
		foldAt, raiseAt := e.thresholds(tt.pos)
		if foldAt != tt.foldAt || raiseAt != tt.raiseAt {
			t.Errorf("%v thresholds = (%v, %v), want (%v, %v)", tt.pos, foldAt, raiseAt, tt.foldAt, tt.raiseAt)
		}
	}
}

func TestBluffsComeOnlyFromLatePosition(t *testing.T) {
	// Certain bluff, raise bar out of reach: any raise must be a bluff.
	profile := Profile{BluffFrequency: 1, AggressionLevel: 0.5, FoldThreshold: 0.30, RaiseThreshold: 0.95}

	for seed := int64(0); seed < 50; seed++ {
		e := &Engine{rng: randutil.New(seed), profile: profile}

		free := testCtx("9h4c", "", 0, 0, 30, 10, engine.LatePosition)
		if d := e.MakeDecision(free); d.Action != engine.Raise {
			t.Fatalf("seed %d: late position guaranteed bluff got %v", seed, d.Action)
		}

		e = &Engine{rng: randutil.New(seed), profile: profile}
		early := testCtx("9h4c", "", 0, 0, 30, 10, engine.EarlyPosition)
		if d := e.MakeDecision(early); d.Action != engine.Check {
			t.Fatalf("seed %d: early position must not bluff, got %v", seed, d.Action)
		}
	}
}

func TestRaiseSizing(t *testing.T) {
	e := &Engine{profile: Profile{AggressionLevel: 0.5}}

	tests := []struct {
		name     string
		pot      int
		minBet   int
		strength float64
		bluff    bool
		want     int
	}{
		{"base", 1000, 10, 0.50, false, 35},
		{"strong hands size up", 1000, 10, 0.85, false, 52},
		{"thin bluffs size down", 1000, 10, 0.30, true, 24},
		{"capped at three quarter pot", 40, 10, 0.50, false, 30},
		{"floored at the minimum", 10, 10, 0.50, false, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := engine.GameContext{Pot: tt.pot, MinimumBet: tt.minBet}
			if got := e.raiseSize(ctx, tt.strength, tt.bluff); got != tt.want {
				t.Errorf("raiseSize = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCountOuts(t *testing.T) {
	tests := []struct {
		name  string
		hole  string
		board string
		want  int
	}{
		{"flush draw plus overcard", "As7s", "Ks2s9d", 12},
		{"open ended with overcards", "9h8d", "7c6s2d", 14},
		{"gutshot with overcards", "9h8d", "5c6s2d", 10},
		{"wheel draw", "Ah2d", "3c4s9d", 7},
		{"made straight adds nothing", "9h8d", "7c6s5d", 6},
		{"overcard only", "Kd2c", "7h7s3h", 3},
		{"preflop counts nothing", "AsKs", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var board []deck.Card
			if tt.board != "" {
				board = deck.MustParseCards(tt.board)
			}
			if got := countOuts(deck.MustParseCards(tt.hole), board); got != tt.want {
				t.Errorf("countOuts = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDrawEquityByStreet(t *testing.T) {
	e := &Engine{}
	hole := deck.MustParseCards("As7s")

	flop := engine.GameContext{Player: engine.Player{Hole: hole}, Board: deck.MustParseCards("Ks2s9d")}
	if got := e.drawEquity(flop); got != 0.48 {
		t.Errorf("flop equity = %v, want 0.48", got)
	}

	turn := engine.GameContext{Player: engine.Player{Hole: hole}, Board: deck.MustParseCards("Ks2s9d4h")}
	if got := e.drawEquity(turn); got != 0.24 {
		t.Errorf("turn equity = %v, want 0.24", got)
	}

	river := engine.GameContext{Player: engine.Player{Hole: hole}, Board: deck.MustParseCards("Ks2s9d4h8c")}
	if got := e.drawEquity(river); got != 0 {
		t.Errorf("river equity = %v, want 0", got)
	}
}

func TestPotOdds(t *testing.T) {
	if got := potOdds(100, 25); got != 0.2 {
		t.Errorf("potOdds(100, 25) = %v, want 0.2", got)
	}
	if got := potOdds(100, 0); got != 0 {
		t.Errorf("potOdds(100, 0) = %v, want 0", got)
	}
}

func TestBigDrawIsPricedIn(t *testing.T) {
	for _, p := range Personalities {
		for seed := int64(0); seed < 100; seed++ {
			e := NewEngine(randutil.New(seed), p)
			// Nine high, but an open-ended straight flush draw getting
			// three to one.
			ctx := testCtx("9s8s", "7s6s2d", 0, 20, 60, 10, engine.MiddlePosition)

			if d := e.MakeDecision(ctx); d.Action == engine.Fold {
				t.Fatalf("%v seed %d folded a monster draw getting odds", p, seed)
			}
		}
	}

	// With the tight-passive thresholds the call is odds-driven, not
	// strength-driven.
	e := NewEngine(randutil.New(7), TightPassive)
	d := e.MakeDecision(testCtx("9s8s", "7s6s2d", 0, 20, 60, 10, engine.MiddlePosition))
	if d.Action != engine.Call {
		t.Fatalf("got %v, want call", d.Action)
	}
	if d.Reasoning != "priced in to chase the draw" {
		t.Errorf("reasoning = %q, want the draw call", d.Reasoning)
	}
}

func TestWeakHandFoldsToBigBet(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		e := NewEngine(randutil.New(seed), TightPassive)
		ctx := testCtx("9h4c", "", 0, 200, 300, 10, engine.MiddlePosition)

		d := e.MakeDecision(ctx)
		if d.Action != engine.Fold {
			t.Fatalf("seed %d: got %v, want fold", seed, d.Action)
		}
		if d.Confidence < 0.6 {
			t.Errorf("seed %d: fold confidence %v suspiciously low", seed, d.Confidence)
		}
	}
}

func TestJitterMixesBorderlineHands(t *testing.T) {
	// J9o scores right on the tight-aggressive fold threshold, so the
	// ten percent jitter should produce both calls and folds.
	folds, calls := 0, 0
	for seed := int64(0); seed < 200; seed++ {
		e := NewEngine(randutil.New(seed), TightAggressive)
		ctx := testCtx("Jh9c", "", 0, 100, 150, 10, engine.MiddlePosition)

		switch d := e.MakeDecision(ctx); d.Action {
		case engine.Fold:
			folds++
		case engine.Call:
			calls++
		}
	}
	if folds == 0 || calls == 0 {
		t.Errorf("borderline hand never mixed: %d folds, %d calls", folds, calls)
	}
}

func TestPersonalitiesDiverge(t *testing.T) {
	// J9o lands between the loose and tight fold thresholds, so
	// loose-aggressive keeps coming along while tight-passive lets the
	// hand go.
	continues := func(p Personality) int {
		n := 0
		for seed := int64(0); seed < 200; seed++ {
			e := NewEngine(randutil.New(seed), p)
			ctx := testCtx("Jh9c", "", 0, 100, 150, 10, engine.MiddlePosition)
			if d := e.MakeDecision(ctx); d.Action != engine.Fold {
				n++
			}
		}
		return n
	}

	loose := continues(LooseAggressive)
	tight := continues(TightPassive)
	if loose <= tight {
		t.Errorf("loose-aggressive continued %d times, tight-passive %d; expected loose > tight", loose, tight)
	}
}
