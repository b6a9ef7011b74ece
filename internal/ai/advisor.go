package ai

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/feltline/cardroom/internal/engine"
)

// DefaultAdviceTimeout bounds how long a seat waits on an external
// advisor before the rule-based engine takes over.
const DefaultAdviceTimeout = 10 * time.Second

// Advisor produces a decision from outside the process, typically a
// language model behind an HTTP API.
type Advisor interface {
	Advise(ctx context.Context, snapshot engine.GameContext) (engine.Decision, error)
}

// AdvisorFunc adapts a function to the Advisor interface
type AdvisorFunc func(ctx context.Context, snapshot engine.GameContext) (engine.Decision, error)

func (f AdvisorFunc) Advise(ctx context.Context, snapshot engine.GameContext) (engine.Decision, error) {
	return f(ctx, snapshot)
}

// AdvisedAgent asks an external advisor first and falls back to a local
// agent when the advisor errors out, times out, or returns something
// unusable. Fallback decisions are tagged so a table watcher can tell
// advisor play from rule-based play. The hand never stalls on a dead
// advisor.
type AdvisedAgent struct {
	advisor  Advisor
	fallback engine.Agent
	log      *log.Logger
	timeout  time.Duration
	clock    quartz.Clock
}

// AdvisedOption tweaks an AdvisedAgent at construction
type AdvisedOption func(*AdvisedAgent)

// WithAdviceClock substitutes the clock that times out slow advisors.
// Tests use it to expire advice without waiting in real time.
func WithAdviceClock(clock quartz.Clock) AdvisedOption {
	return func(a *AdvisedAgent) { a.clock = clock }
}

// NewAdvisedAgent wires an advisor in front of a fallback agent. A
// non-positive timeout gets the default.
func NewAdvisedAgent(advisor Advisor, fallback engine.Agent, logger *log.Logger, timeout time.Duration, opts ...AdvisedOption) *AdvisedAgent {
	if advisor == nil || fallback == nil {
		panic("advisor and fallback are both required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = DefaultAdviceTimeout
	}
	a := &AdvisedAgent{advisor: advisor, fallback: fallback, log: logger, timeout: timeout, clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MakeDecision implements engine.Agent. Advisor decisions pass through
// untouched; the table still coerces anything illegal, so a confused
// advisor costs at worst a check or a fold.
func (a *AdvisedAgent) MakeDecision(snapshot engine.GameContext) engine.Decision {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	timer := a.clock.AfterFunc(a.timeout, cancel)
	defer timer.Stop()

	decision, err := a.advisor.Advise(ctx, snapshot)
	if err != nil {
		a.log.Warn("Advisor failed, falling back to rules",
			"player", snapshot.Player.Name,
			"phase", snapshot.Phase,
			"error", err)
		decision = a.fallback.MakeDecision(snapshot)
		decision.Fallback = true
		return decision
	}
	return decision
}
