package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/feltline/cardroom/internal/economy"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/randutil"
	"github.com/feltline/cardroom/internal/render"
)

// PlayCmd runs an interactive hand loop in the terminal. Engine logs go
// to a file so the table output stays readable.
type PlayCmd struct {
	Config    string `short:"c" type:"existingfile" optional:"" help:"HCL settings file"`
	Opponents int    `default:"2" help:"Number of AI opponents (1-9)"`
	Seed      int64  `default:"0" help:"RNG seed, 0 seeds from the clock"`
	LogFile   string `default:"cardroom.log" help:"Engine log destination during play"`
	LedgerURL string `help:"POST per-hand results to this platform endpoint"`
}

// turnWatcher surfaces the human's turns and hand completion to the
// input loop. Channels are buffered so publishing never blocks the
// table.
type turnWatcher struct {
	turns chan engine.ActionRequestEvent
	ends  chan engine.HandEndEvent
}

func newTurnWatcher() *turnWatcher {
	return &turnWatcher{
		turns: make(chan engine.ActionRequestEvent, 4),
		ends:  make(chan engine.HandEndEvent, 1),
	}
}

func (w *turnWatcher) OnEvent(event engine.GameEvent) {
	switch e := event.(type) {
	case engine.ActionRequestEvent:
		if e.PlayerID == humanSeat {
			select {
			case w.turns <- e:
			default:
			}
		}
	case engine.HandEndEvent:
		select {
		case w.ends <- e:
		default:
		}
	}
}

func (c *PlayCmd) Run() error {
	logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := settingsProvider(c.Config)
	s, err := fetchSettings(ctx, provider)
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.NewFromTime().Int64()
	}
	rng := randutil.New(seed)
	logger.Info("Starting session", "seed", seed, "opponents", c.Opponents)

	table, err := buildTable(rng, s, c.Opponents, logger)
	if err != nil {
		return err
	}

	view := render.NewView(render.NewTerminal(os.Stdout, render.DefaultStyles(), seatNames(table)), humanSeat)
	table.Events().Subscribe(view)

	var recorder economy.Recorder = economy.Noop{}
	if c.LedgerURL != "" {
		recorder = economy.NewHTTPRecorder(c.LedgerURL, os.Getenv("CARDROOM_LEDGER_TOKEN"))
	}
	table.Events().Subscribe(economy.NewLedger(recorder, humanSeat, logger))

	watcher := newTurnWatcher()
	table.Events().Subscribe(watcher)

	stdin := bufio.NewScanner(os.Stdin)
	if err := table.StartHand(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nleaving the table")
			return nil

		case turn := <-watcher.turns:
			if done := c.humanTurn(ctx, table, stdin, turn); done {
				return nil
			}

		case <-watcher.ends:
			fmt.Print("press enter to deal again, q to leave: ")
			if !stdin.Scan() || strings.TrimSpace(stdin.Text()) == "q" {
				return nil
			}

			// settings edits land here, between hands
			if next, err := fetchSettings(ctx, provider); err != nil {
				logger.Warn("Keeping previous settings", "error", err)
			} else if err := table.Reconfigure(next.SmallBlind, next.BigBlind, next.ThinkDelay()); err != nil {
				logger.Warn("Could not apply settings", "error", err)
			}

			if err := table.StartHand(); err != nil {
				if errors.Is(err, engine.ErrNotEnoughPlayers) {
					fmt.Println("not enough stacks to continue, session over")
					return nil
				}
				return err
			}
		}
	}
}

// humanTurn prompts until a move is accepted. Returns true when the
// player quits.
func (c *PlayCmd) humanTurn(ctx context.Context, table *engine.Table, stdin *bufio.Scanner, turn engine.ActionRequestEvent) bool {
	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return true
		}
		input := strings.TrimSpace(stdin.Text())
		if input == "q" || input == "quit" {
			return true
		}

		action, amount, err := parseMove(input, turn.ToCall)
		if err != nil {
			fmt.Println(err)
			fmt.Println("moves: check, call, fold, raise <amount>, quit")
			continue
		}
		if err := table.SubmitAction(humanSeat, action, amount); err != nil {
			fmt.Printf("move rejected: %v\n", err)
			if ctx.Err() != nil {
				return true
			}
			continue
		}
		return false
	}
}

// parseMove reads a terminal command. A bare "c" means call when
// facing a bet and check otherwise.
func parseMove(input string, toCall int) (engine.Action, int, error) {
	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return 0, 0, fmt.Errorf("empty move")
	}

	switch fields[0] {
	case "f", "fold":
		return engine.Fold, 0, nil
	case "k", "check":
		return engine.Check, 0, nil
	case "c", "call":
		if toCall == 0 {
			return engine.Check, 0, nil
		}
		return engine.Call, 0, nil
	case "r", "raise", "b", "bet":
		if len(fields) < 2 {
			return 0, 0, fmt.Errorf("raise needs an amount")
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount <= 0 {
			return 0, 0, fmt.Errorf("bad raise amount %q", fields[1])
		}
		return engine.Raise, amount, nil
	default:
		return 0, 0, fmt.Errorf("unknown move %q", fields[0])
	}
}
