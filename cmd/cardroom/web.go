package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/feltline/cardroom/internal/bridge"
	"github.com/feltline/cardroom/internal/economy"
	"github.com/feltline/cardroom/internal/engine"
	"github.com/feltline/cardroom/internal/randutil"
	"github.com/feltline/cardroom/internal/render"
)

// WebCmd serves the table to a local browser. The page renders state
// frames pushed over a websocket and submits the local player's moves
// back; it is a renderer with buttons, not a multiplayer lobby.
type WebCmd struct {
	Config    string        `short:"c" type:"existingfile" optional:"" help:"HCL settings file"`
	Addr      string        `default:"localhost:8080" help:"Listen address"`
	Opponents int           `default:"2" help:"Number of AI opponents (1-9)"`
	Seed      int64         `default:"0" help:"RNG seed, 0 seeds from the clock"`
	DealDelay time.Duration `default:"3s" help:"Pause before dealing the next hand"`
	LedgerURL string        `help:"POST per-hand results to this platform endpoint"`
}

// promptWatcher drives the browser's action buttons: they light up when
// the table waits on the human seat and go dark once it has acted.
type promptWatcher struct {
	srv  *bridge.Server
	ends chan engine.HandEndEvent
}

func (w *promptWatcher) OnEvent(event engine.GameEvent) {
	switch e := event.(type) {
	case engine.ActionRequestEvent:
		if e.PlayerID == humanSeat {
			w.srv.Prompt(e.ToCall, e.MinRaise)
		}
	case engine.PlayerActionEvent:
		if e.PlayerID == humanSeat {
			w.srv.ClearPrompt()
		}
	case engine.HandEndEvent:
		w.srv.ClearPrompt()
		select {
		case w.ends <- e:
		default:
		}
	}
}

func (c *WebCmd) Run() error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
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

	table, err := buildTable(rng, s, c.Opponents, logger)
	if err != nil {
		return err
	}

	srv := bridge.NewServer(logger)
	defer srv.Close()
	table.Events().Subscribe(render.NewView(srv, humanSeat))

	var recorder economy.Recorder = economy.Noop{}
	if c.LedgerURL != "" {
		recorder = economy.NewHTTPRecorder(c.LedgerURL, os.Getenv("CARDROOM_LEDGER_TOKEN"))
	}
	table.Events().Subscribe(economy.NewLedger(recorder, humanSeat, logger))

	watcher := &promptWatcher{srv: srv, ends: make(chan engine.HandEndEvent, 1)}
	table.Events().Subscribe(watcher)

	httpSrv := &http.Server{Addr: c.Addr, Handler: srv.Router()}
	httpErr := make(chan error, 1)
	go func() {
		httpErr <- httpSrv.ListenAndServe()
	}()
	defer httpSrv.Shutdown(context.Background())

	logger.Info("Table is up", "url", "http://"+c.Addr, "seed", seed)
	if err := table.StartHand(); err != nil {
		return err
	}

	deal := time.NewTimer(0)
	if !deal.Stop() {
		<-deal.C
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutting down")
			return nil

		case err := <-httpErr:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)

		case move := <-srv.Actions():
			if err := table.SubmitAction(humanSeat, move.Action, move.Amount); err != nil {
				logger.Warn("Browser move rejected", "action", move.Action, "error", err)
			}

		case <-watcher.ends:
			deal.Reset(c.DealDelay)

		case <-deal.C:
			if next, err := fetchSettings(ctx, provider); err != nil {
				logger.Warn("Keeping previous settings", "error", err)
			} else if err := table.Reconfigure(next.SmallBlind, next.BigBlind, next.ThinkDelay()); err != nil {
				logger.Warn("Could not apply settings", "error", err)
			}

			if err := table.StartHand(); err != nil {
				if errors.Is(err, engine.ErrNotEnoughPlayers) {
					srv.UpdateStatus("session over: not enough stacks to continue", engine.Showdown, 0)
					logger.Info("Session over")
					continue
				}
				return err
			}
		}
	}
}
