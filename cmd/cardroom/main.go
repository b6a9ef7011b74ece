package main

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/feltline/cardroom/internal/ai"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/settings"
)

// version is set by ldflags during build
var version = "dev"

// humanSeat is the table position the local player always holds
const humanSeat = 0

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" help:"Play against AI opponents in the terminal"`
	Web      WebCmd           `cmd:"" help:"Serve the table to a local browser"`
	Simulate SimulateCmd      `cmd:"" help:"Run AI-vs-AI batches to calibrate the decision engine"`
}

func main() {
	// A missing .env is fine; it only ever carries advisor credentials
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cardroom"),
		kong.Description("Texas hold'em engine with rule-based and advised AI opponents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// settingsProvider returns the file-backed provider when a path is
// given and the built-in defaults otherwise
func settingsProvider(path string) settings.Provider {
	if path != "" {
		return settings.NewFileProvider(path)
	}
	return settings.Static{Settings: settings.Default()}
}

// fetchSettings loads and validates the next deal's settings
func fetchSettings(ctx context.Context, provider settings.Provider) (settings.Settings, error) {
	s, err := provider.Fetch(ctx)
	if err != nil {
		return settings.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return settings.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

// buildTable seats the human at position 0 plus the requested number
// of AI opponents. Personalities come from the settings in seat order;
// unassigned seats draw a random style.
func buildTable(rng *rand.Rand, s settings.Settings, opponents int, logger *log.Logger) (*engine.Table, error) {
	if opponents < 1 || opponents > 9 {
		return nil, fmt.Errorf("opponents must be between 1 and 9, got %d", opponents)
	}

	seats := make([]engine.Seat, 0, opponents+1)
	seats = append(seats, engine.Seat{Name: "You", Chips: s.StartingChips})
	for i := 0; i < opponents; i++ {
		style := ai.Personalities[rng.IntN(len(ai.Personalities))]
		if i < len(s.Personalities) {
			// validated by fetchSettings
			style, _ = ai.ParsePersonality(s.Personalities[i])
		}

		var agent engine.Agent = ai.NewEngine(rng, style)
		if s.UseExternalAI {
			advisor := ai.NewChatAdvisor(s.AdvisorURL, os.Getenv("CARDROOM_ADVISOR_API_KEY"), s.AdvisorModel)
			agent = ai.NewAdvisedAgent(advisor, agent, logger, ai.DefaultAdviceTimeout)
		}
		seats = append(seats, engine.Seat{
			Name:  fmt.Sprintf("%s-%d", style, i+1),
			Chips: s.StartingChips,
			Agent: agent,
		})
	}

	return engine.NewTable(rng, engine.Config{
		Seats:      seats,
		SmallBlind: s.SmallBlind,
		BigBlind:   s.BigBlind,
		ThinkDelay: s.ThinkDelay(),
	}, engine.WithLogger(logger))
}

// seatNames maps seat IDs to display names for the terminal renderer
func seatNames(table *engine.Table) map[int]string {
	names := make(map[int]string)
	for _, p := range table.Players() {
		names[p.ID] = p.Name
	}
	names[humanSeat] = "You"
	return names
}
