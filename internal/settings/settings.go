// Package settings supplies the table parameters the game fetches
// before every deal: stakes, starting stacks, AI pacing and styles,
// and whether the external advisor is in play. Fetching per deal means
// edits land at the next hand and never mid-hand.
package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/feltline/cardroom/internal/ai"
	"github.com/feltline/cardroom/internal/engine"
)

// AI speed profiles. Instant exists for simulations and tests.
const (
	SpeedInstant = "instant"
	SpeedFast    = "fast"
	SpeedNormal  = "normal"
	SpeedSlow    = "slow"
)

// Settings holds one deal's worth of table configuration
type Settings struct {
	StartingChips int
	SmallBlind    int
	BigBlind      int
	AISpeed       string
	// Personalities names the playing style per AI seat, in seat order.
	// Empty means the caller picks at random.
	Personalities []string
	UseExternalAI bool
	AdvisorURL    string
	AdvisorModel  string
}

// Provider yields the settings for the next hand
type Provider interface {
	Fetch(ctx context.Context) (Settings, error)
}

// Static is a Provider that always returns the same settings
type Static struct {
	Settings Settings
}

func (s Static) Fetch(context.Context) (Settings, error) {
	return s.Settings, nil
}

// Default returns the out-of-the-box table: 5/10 blinds, 1000 chip
// stacks, normal AI pacing, rule-based AI with randomly drawn styles.
func Default() Settings {
	return Settings{
		StartingChips: 1000,
		SmallBlind:    5,
		BigBlind:      10,
		AISpeed:       SpeedNormal,
	}
}

// Validate checks the settings are playable
func (s Settings) Validate() error {
	if s.StartingChips <= 0 {
		return fmt.Errorf("starting chips must be positive, got %d", s.StartingChips)
	}
	if s.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", s.SmallBlind)
	}
	if s.BigBlind <= s.SmallBlind {
		return fmt.Errorf("big blind %d must exceed small blind %d", s.BigBlind, s.SmallBlind)
	}
	if s.StartingChips < s.BigBlind {
		return fmt.Errorf("starting chips %d cannot cover the big blind %d", s.StartingChips, s.BigBlind)
	}
	switch s.AISpeed {
	case SpeedInstant, SpeedFast, SpeedNormal, SpeedSlow:
	default:
		return fmt.Errorf("unknown ai speed %q", s.AISpeed)
	}
	for _, name := range s.Personalities {
		if _, err := ai.ParsePersonality(name); err != nil {
			return err
		}
	}
	if s.UseExternalAI && s.AdvisorURL == "" {
		return fmt.Errorf("external ai enabled without an advisor url")
	}
	return nil
}

// ThinkDelay maps the speed profile to the table's think-delay bounds
func (s Settings) ThinkDelay() engine.DelayProfile {
	switch s.AISpeed {
	case SpeedInstant:
		return engine.DelayProfile{}
	case SpeedFast:
		return engine.DelayProfile{Min: 300 * time.Millisecond, Max: 800 * time.Millisecond}
	case SpeedSlow:
		return engine.DelayProfile{Min: time.Second, Max: 2500 * time.Millisecond}
	default:
		return engine.DelayProfile{Min: 600 * time.Millisecond, Max: 1500 * time.Millisecond}
	}
}
