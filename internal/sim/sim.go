// Package sim plays batches of AI-vs-AI hands to calibrate the decision
// engine's heuristics. Every hand gets its own table and an independent
// seed derived from the batch seed, so a batch produces the same results
// however many workers share it.
package sim

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/feltline/cardroom/internal/ai"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/randutil"
)

// Config describes a simulation batch
type Config struct {
	Hands         int
	Workers       int // defaults to GOMAXPROCS
	Seed          int64
	StartingChips int
	SmallBlind    int
	BigBlind      int
	// Personalities seats one AI per entry. Empty means all four styles.
	Personalities []ai.Personality
	Logger        *log.Logger
}

// Simulator runs hands and aggregates per-personality results
type Simulator struct {
	cfg Config
	log *log.Logger
}

// New creates a simulator. The config is validated at Run.
func New(cfg Config) *Simulator {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if len(cfg.Personalities) == 0 {
		cfg.Personalities = ai.Personalities
	}
	return &Simulator{cfg: cfg, log: logger.WithPrefix("sim")}
}

func (s *Simulator) validate() error {
	if s.cfg.Hands <= 0 {
		return fmt.Errorf("sim: hands must be positive, got %d", s.cfg.Hands)
	}
	if len(s.cfg.Personalities) < 2 {
		return fmt.Errorf("sim: need at least two seats, got %d", len(s.cfg.Personalities))
	}
	if s.cfg.StartingChips <= 0 || s.cfg.SmallBlind <= 0 || s.cfg.BigBlind < s.cfg.SmallBlind {
		return fmt.Errorf("sim: bad stakes %d/%d with %d chips", s.cfg.SmallBlind, s.cfg.BigBlind, s.cfg.StartingChips)
	}
	return nil
}

// Run plays the batch across a worker pool and merges the results.
// Hands are striped over workers by index, so the split never changes
// which seed a hand plays with.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > s.cfg.Hands {
		workers = s.cfg.Hands
	}
	s.log.Info("Starting batch",
		"hands", s.cfg.Hands,
		"workers", workers,
		"seed", s.cfg.Seed,
		"seats", len(s.cfg.Personalities))

	tallies := make([]*tally, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		t := newTally()
		tallies[w] = t
		g.Go(func() error {
			for hand := w; hand < s.cfg.Hands; hand += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := s.playHand(hand, t); err != nil {
					return fmt.Errorf("sim: hand %d: %w", hand, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := buildReport(s.cfg, tallies)
	s.log.Info("Batch complete", "hands", report.Hands, "foldouts", report.Foldouts)
	return report, nil
}

// playHand plays one fully seeded hand on a fresh table and records it.
// Seat order rotates with the hand index so no personality camps on the
// button.
func (s *Simulator) playHand(hand int, t *tally) error {
	rng := randutil.New(s.cfg.Seed + int64(hand))

	n := len(s.cfg.Personalities)
	styles := make([]ai.Personality, n)
	seats := make([]engine.Seat, n)
	for i := range seats {
		styles[i] = s.cfg.Personalities[(i+hand)%n]
		seats[i] = engine.Seat{
			Name:  fmt.Sprintf("%s-%d", styles[i], i+1),
			Chips: s.cfg.StartingChips,
			Agent: ai.NewEngine(rng, styles[i]),
		}
	}

	table, err := engine.NewTable(rng, engine.Config{
		Seats:      seats,
		SmallBlind: s.cfg.SmallBlind,
		BigBlind:   s.cfg.BigBlind,
		// zero think delay: the hand plays out inside StartHand
	})
	if err != nil {
		return err
	}

	var end collector
	table.Events().Subscribe(&end)
	if err := table.StartHand(); err != nil {
		return err
	}
	if !end.done {
		return fmt.Errorf("hand %s never finished", table.HandID())
	}

	total := 0
	for _, p := range table.Players() {
		total += p.Chips
	}
	if want := n * s.cfg.StartingChips; total != want {
		return fmt.Errorf("chips not conserved: have %d, want %d", total, want)
	}

	t.record(styles, end.event, s.cfg.BigBlind)
	return nil
}

// collector keeps the hand-end event off the bus
type collector struct {
	event engine.HandEndEvent
	done  bool
}

func (c *collector) OnEvent(ev engine.GameEvent) {
	if e, ok := ev.(engine.HandEndEvent); ok {
		c.event = e
		c.done = true
	}
}
