// Package economy posts per-hand results to the platform's chip
// ledger. The game engine itself never touches persistence; this is
// the outbound edge.
package economy

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/feltline/cardroom/internal/engine"
)

// Outcome labels for a recorded hand
const (
	OutcomeWin  = "win"
	OutcomeLoss = "loss"
	OutcomePush = "push"
)

// GameType identifies this game to the shared ledger
const GameType = "poker"

// Result is one player's outcome for one finished hand
type Result struct {
	GameType  string `json:"gameType"`
	Outcome   string `json:"outcome"`
	ChipDelta int    `json:"chipDelta"`
}

// Recorder receives a result after every hand
type Recorder interface {
	Record(ctx context.Context, result Result) error
}

// Noop drops results. Simulations run with it.
type Noop struct{}

func (Noop) Record(context.Context, Result) error { return nil }

// Ledger watches a table and records one seat's outcome at the end of
// every hand. Recording runs on its own goroutine; event callbacks
// fire inside the table's critical section and must never block on a
// slow backend. A failed record is logged and dropped, never replayed:
// the ledger is advisory, the chips on the table are the truth.
type Ledger struct {
	rec      Recorder
	playerID int
	log      *log.Logger
	timeout  time.Duration
}

// NewLedger builds a ledger following the given seat
func NewLedger(rec Recorder, playerID int, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Ledger{rec: rec, playerID: playerID, log: logger, timeout: 10 * time.Second}
}

// OnEvent implements engine.EventSubscriber
func (l *Ledger) OnEvent(event engine.GameEvent) {
	e, ok := event.(engine.HandEndEvent)
	if !ok {
		return
	}
	net, ok := e.Net[l.playerID]
	if !ok {
		return
	}
	go l.record(e.HandID, net)
}

func (l *Ledger) record(handID string, net int) {
	outcome := OutcomePush
	switch {
	case net > 0:
		outcome = OutcomeWin
	case net < 0:
		outcome = OutcomeLoss
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	result := Result{GameType: GameType, Outcome: outcome, ChipDelta: net}
	if err := l.rec.Record(ctx, result); err != nil {
		l.log.Warn("Failed to record hand result",
			"hand", handID,
			"outcome", outcome,
			"delta", net,
			"error", err)
		return
	}
	l.log.Debug("Recorded hand result", "hand", handID, "outcome", outcome, "delta", net)
}
