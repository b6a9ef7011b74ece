package ai

import (
	rand "math/rand/v2"

	"github.com/feltline/cardroom/internal/deck"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/evaluator"
	"github.com/feltline/cardroom/internal/randutil"
)

// strengthJitter blurs hand-strength scores by up to ten percent so the
// same cards do not always produce the same action.
const strengthJitter = 0.10

// Engine is the rule-based decision maker. One Engine drives one seat.
// It is not safe for concurrent use because it owns its rng.
type Engine struct {
	rng         *rand.Rand
	profile     Profile
	personality Personality
}

// NewEngine returns a decision engine playing the given personality
func NewEngine(rng *rand.Rand, p Personality) *Engine {
	if rng == nil {
		panic("rng is required for the decision engine")
	}
	return &Engine{rng: rng, profile: p.Profile(), personality: p}
}

// Personality returns the playing style this engine was built with
func (e *Engine) Personality() Personality {
	return e.personality
}

// MakeDecision scores the hand, shifts the personality thresholds by
// position, and picks fold, check, call or raise. Raises carry the
// increment over the table's highest bet; the table enforces legality,
// so a raise the seat cannot afford simply becomes an all-in call.
func (e *Engine) MakeDecision(ctx engine.GameContext) engine.Decision {
	strength := e.handStrength(ctx)
	foldAt, raiseAt := e.thresholds(ctx.Position)
	toCall := ctx.CallAmount()

	// Bluffs only come from late position, where a raise tells the
	// least about the hand.
	bluffing := ctx.Position == engine.LatePosition && e.rng.Float64() < e.profile.BluffFrequency

	if toCall == 0 {
		switch {
		case bluffing:
			return engine.Decision{
				Action:     engine.Raise,
				Amount:     e.raiseSize(ctx, strength, true),
				Confidence: e.profile.BluffFrequency,
				Reasoning:  "taking a stab from late position",
			}
		case strength >= raiseAt:
			return engine.Decision{
				Action:     engine.Raise,
				Amount:     e.raiseSize(ctx, strength, false),
				Confidence: strength,
				Reasoning:  "strong enough to bet",
			}
		default:
			return engine.Decision{
				Action:     engine.Check,
				Confidence: clamp01(1 - strength),
				Reasoning:  "nothing worth betting",
			}
		}
	}

	switch {
	case bluffing:
		return engine.Decision{
			Action:     engine.Raise,
			Amount:     e.raiseSize(ctx, strength, true),
			Confidence: e.profile.BluffFrequency,
			Reasoning:  "raising to take it away",
		}
	case strength >= raiseAt:
		return engine.Decision{
			Action:     engine.Raise,
			Amount:     e.raiseSize(ctx, strength, false),
			Confidence: strength,
			Reasoning:  "raising for value",
		}
	case strength >= foldAt:
		return engine.Decision{
			Action:     engine.Call,
			Confidence: strength,
			Reasoning:  "calling with a made hand",
		}
	}

	// Too weak to call on strength alone, but a live draw can still be
	// priced in.
	if equity := e.drawEquity(ctx); equity > potOdds(ctx.Pot, toCall) {
		return engine.Decision{
			Action:     engine.Call,
			Confidence: equity,
			Reasoning:  "priced in to chase the draw",
		}
	}

	return engine.Decision{
		Action:     engine.Fold,
		Confidence: clamp01(1 - strength),
		Reasoning:  "too weak to continue",
	}
}

// handStrength scores the current hand in [0,1] with jitter applied
func (e *Engine) handStrength(ctx engine.GameContext) float64 {
	var s float64
	if len(ctx.Board) < 3 {
		s = evaluator.PreflopStrength(ctx.Player.Hole)
	} else {
		s = evaluator.PostflopStrength(ctx.Player.Hole, ctx.Board)
	}
	return clamp01(randutil.Jitter(e.rng, s, strengthJitter))
}

// thresholds returns the fold and raise bars after the position shift.
// Early seats play tighter on both counts; late seats loosen up.
func (e *Engine) thresholds(pos engine.Position) (foldAt, raiseAt float64) {
	foldAt = e.profile.FoldThreshold
	raiseAt = e.profile.RaiseThreshold
	switch pos {
	case engine.EarlyPosition:
		foldAt += 0.10
		raiseAt += 0.10
	case engine.LatePosition:
		foldAt -= 0.05
		raiseAt -= 0.05
	}
	return foldAt, raiseAt
}

// raiseSize turns personality and pot into a raise increment. Base is
// the table minimum scaled by aggression, bumped for very strong hands
// and trimmed for thin bluffs, then capped at three quarters of the pot
// and floored back at the minimum.
func (e *Engine) raiseSize(ctx engine.GameContext, strength float64, bluff bool) int {
	base := float64(ctx.MinimumBet) * (2 + e.profile.AggressionLevel*3)
	if strength >= 0.80 {
		base *= 1.5
	} else if bluff && strength < 0.40 {
		base *= 0.7
	}
	if limit := 0.75 * float64(ctx.Pot); base > limit {
		base = limit
	}
	size := int(base)
	if size < ctx.MinimumBet {
		size = ctx.MinimumBet
	}
	return size
}

// drawEquity estimates the chance of improving by the river using the
// rule of two: each out is worth about two percent per card to come.
// Monster draws can push the estimate past certainty, so it is capped.
func (e *Engine) drawEquity(ctx engine.GameContext) float64 {
	outs := countOuts(ctx.Player.Hole, ctx.Board)
	toCome := 0
	switch len(ctx.Board) {
	case 3:
		toCome = 2
	case 4:
		toCome = 1
	}
	return min(1, float64(outs)*0.02*float64(toCome))
}

// countOuts counts cards that would improve the hand: nine for a flush
// draw, eight for an open-ended straight draw, four for a gutshot,
// three per overcard. Deliberately coarse, like the strength scores.
func countOuts(hole, board []deck.Card) int {
	if len(board) < 3 {
		return 0
	}
	all := make([]deck.Card, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)

	outs := 0

	var suitCount [4]int
	for _, c := range all {
		suitCount[c.Suit]++
	}
	for _, n := range suitCount {
		if n == 4 {
			outs += 9
			break
		}
	}

	// Rank bitmask with the ace doubled at the bottom for the wheel.
	var mask uint
	for _, c := range all {
		mask |= 1 << uint(c.Rank)
		if c.Rank == deck.Ace {
			mask |= 1 << 1
		}
	}
	made := false
	fills := make(map[int]bool)
	for lo := 1; lo+4 <= 14; lo++ {
		missing, missingRank := 0, 0
		for r := lo; r < lo+5; r++ {
			if mask&(1<<uint(r)) == 0 {
				missing++
				missingRank = r
			}
		}
		if missing == 0 {
			made = true
			break
		}
		if missing == 1 {
			fills[missingRank] = true
		}
	}
	if !made {
		switch {
		case len(fills) >= 2:
			outs += 8
		case len(fills) == 1:
			outs += 4
		}
	}

	var topBoard deck.Rank
	for _, c := range board {
		if c.Rank > topBoard {
			topBoard = c.Rank
		}
	}
	counted := make(map[deck.Rank]bool)
	for _, c := range hole {
		if c.Rank > topBoard && !counted[c.Rank] {
			outs += 3
			counted[c.Rank] = true
		}
	}

	return outs
}

// potOdds is the price of a call as a fraction of the resulting pot
func potOdds(pot, toCall int) float64 {
	if toCall <= 0 {
		return 0
	}
	return float64(toCall) / float64(pot+toCall)
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
