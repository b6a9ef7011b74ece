// Package ai implements the rule-based poker decision engine and the
// optional external advisor that decorates it.
package ai

import "fmt"

// Personality is one of the four canned playing styles
type Personality int

const (
	TightAggressive Personality = iota
	TightPassive
	LooseAggressive
	LoosePassive
)

// Personalities lists every playing style, for seat assignment and flag
// parsing.
var Personalities = []Personality{
	TightAggressive,
	TightPassive,
	LooseAggressive,
	LoosePassive,
}

func (p Personality) String() string {
	switch p {
	case TightAggressive:
		return "tight-aggressive"
	case TightPassive:
		return "tight-passive"
	case LooseAggressive:
		return "loose-aggressive"
	case LoosePassive:
		return "loose-passive"
	default:
		return "unknown"
	}
}

// ParsePersonality maps a config string to a Personality
func ParsePersonality(s string) (Personality, error) {
	for _, p := range Personalities {
		if p.String() == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown personality %q", s)
}

// Profile holds the tunables behind a personality. BluffFrequency and
// AggressionLevel are in [0,1]; the thresholds are hand-strength bars
// for folding and raising before any position shift.
type Profile struct {
	BluffFrequency  float64
	AggressionLevel float64
	FoldThreshold   float64
	RaiseThreshold  float64
}

// Profile returns the tuning for a personality. Tight styles demand
// stronger hands; aggressive styles bluff more and size bets bigger.
func (p Personality) Profile() Profile {
	switch p {
	case TightAggressive:
		return Profile{BluffFrequency: 0.10, AggressionLevel: 0.80, FoldThreshold: 0.35, RaiseThreshold: 0.65}
	case TightPassive:
		return Profile{BluffFrequency: 0.05, AggressionLevel: 0.25, FoldThreshold: 0.40, RaiseThreshold: 0.75}
	case LooseAggressive:
		return Profile{BluffFrequency: 0.30, AggressionLevel: 0.85, FoldThreshold: 0.20, RaiseThreshold: 0.55}
	case LoosePassive:
		return Profile{BluffFrequency: 0.15, AggressionLevel: 0.30, FoldThreshold: 0.25, RaiseThreshold: 0.70}
	default:
		return Profile{BluffFrequency: 0.10, AggressionLevel: 0.50, FoldThreshold: 0.30, RaiseThreshold: 0.65}
	}
}
