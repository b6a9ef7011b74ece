package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/feltline/cardroom/internal/ai"
	"github.com/feltline/cardroom/internal/sim"
)

// SimulateCmd plays AI-vs-AI batches and reports how the playing
// styles fare against each other.
type SimulateCmd struct {
	Hands      int      `default:"10000" help:"Number of hands to play"`
	Workers    int      `default:"0" help:"Worker goroutines, 0 means GOMAXPROCS"`
	Seed       int64    `default:"1" help:"Batch seed; hand n plays with seed+n"`
	Chips      int      `default:"1000" help:"Starting stack per seat"`
	SmallBlind int      `default:"5" help:"Small blind"`
	BigBlind   int      `default:"10" help:"Big blind"`
	Styles     []string `help:"Personalities to seat (defaults to all four)"`
	Out        string   `type:"path" optional:"" help:"Also write the report as JSON to this path"`
	Verbose    bool     `help:"Log batch progress to stderr"`
}

func (c *SimulateCmd) Run() error {
	logger := log.New(io.Discard)
	if c.Verbose {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
		})
	}

	styles := make([]ai.Personality, 0, len(c.Styles))
	for _, name := range c.Styles {
		style, err := ai.ParsePersonality(name)
		if err != nil {
			return err
		}
		styles = append(styles, style)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := sim.New(sim.Config{
		Hands:         c.Hands,
		Workers:       c.Workers,
		Seed:          c.Seed,
		StartingChips: c.Chips,
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		Personalities: styles,
		Logger:        logger,
	}).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Print(report)
	if c.Out != "" {
		if err := report.WriteFile(c.Out); err != nil {
			return err
		}
		fmt.Printf("report written to %s\n", c.Out)
	}
	return nil
}
