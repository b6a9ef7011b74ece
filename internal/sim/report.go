package sim

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/feltline/cardroom/internal/ai"
	"github.com/feltline/cardroom/internal/engine"
)

// StyleStats aggregates one personality's results across a batch. SumBB
// and SumBB2 accumulate net big blinds and their squares so the report
// can derive mean and spread without keeping every hand.
type StyleStats struct {
	Style    ai.Personality
	Seats    int // seat-hands played (a style can hold several seats)
	Wins     int // seat-hands ending with a positive net
	NetChips int
	SumBB    float64
	SumBB2   float64
}

// MeanBB returns the average net big blinds per seat-hand
func (s StyleStats) MeanBB() float64 {
	if s.Seats == 0 {
		return 0
	}
	return s.SumBB / float64(s.Seats)
}

// StdDevBB returns the sample standard deviation of net big blinds
func (s StyleStats) StdDevBB() float64 {
	if s.Seats < 2 {
		return 0
	}
	mean := s.MeanBB()
	variance := (s.SumBB2 - float64(s.Seats)*mean*mean) / float64(s.Seats-1)
	if variance < 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// Report is the merged outcome of a simulation batch
type Report struct {
	Hands    int
	Foldouts int
	BigBlind int
	Styles   []StyleStats // sorted by MeanBB descending
}

// String renders the report as an aligned text table
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d hands, %d ended on a fold (%.1f%%)\n",
		r.Hands, r.Foldouts, percent(r.Foldouts, r.Hands))
	fmt.Fprintf(&b, "%-18s %8s %8s %10s %10s %9s\n",
		"style", "seats", "wins", "net chips", "bb/hand", "stddev")
	for _, s := range r.Styles {
		fmt.Fprintf(&b, "%-18s %8d %8d %10d %+10.3f %9.2f\n",
			s.Style, s.Seats, s.Wins, s.NetChips, s.MeanBB(), s.StdDevBB())
	}
	return b.String()
}

// WriteFile saves the report as JSON. The write is atomic so a watcher
// tailing the path never reads a half-written report.
func (r *Report) WriteFile(path string) error {
	type styleJSON struct {
		Style    string  `json:"style"`
		Seats    int     `json:"seats"`
		Wins     int     `json:"wins"`
		NetChips int     `json:"netChips"`
		MeanBB   float64 `json:"bbPerHand"`
		StdDevBB float64 `json:"stdDevBB"`
	}
	out := struct {
		Hands    int         `json:"hands"`
		Foldouts int         `json:"foldouts"`
		BigBlind int         `json:"bigBlind"`
		Styles   []styleJSON `json:"styles"`
	}{Hands: r.Hands, Foldouts: r.Foldouts, BigBlind: r.BigBlind}
	for _, s := range r.Styles {
		out.Styles = append(out.Styles, styleJSON{
			Style:    s.Style.String(),
			Seats:    s.Seats,
			Wins:     s.Wins,
			NetChips: s.NetChips,
			MeanBB:   s.MeanBB(),
			StdDevBB: s.StdDevBB(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("sim: encoding report: %w", err)
	}
	return writeAtomic(path, append(data, '\n'), 0644)
}

// writeAtomic stages the report in a temp file beside path and renames
// it into place, so the destination only ever holds a complete report.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("sim: staging report: %w", err)
	}
	name := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(name)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("sim: writing report: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sim: syncing report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("sim: closing report: %w", err)
	}
	tmp = nil

	if err := os.Chmod(name, perm); err != nil {
		os.Remove(name)
		return fmt.Errorf("sim: setting report permissions: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("sim: publishing report: %w", err)
	}
	return nil
}

// tally is one worker's private aggregate; workers never share one
type tally struct {
	hands    int
	foldouts int
	byStyle  map[ai.Personality]*StyleStats
}

func newTally() *tally {
	return &tally{byStyle: make(map[ai.Personality]*StyleStats)}
}

// record folds one finished hand into the tally. Seat IDs match seat
// indexes, so styles[id] names the personality behind each net result.
func (t *tally) record(styles []ai.Personality, end engine.HandEndEvent, bigBlind int) {
	t.hands++
	if end.Foldout {
		t.foldouts++
	}
	for id, style := range styles {
		s := t.byStyle[style]
		if s == nil {
			s = &StyleStats{Style: style}
			t.byStyle[style] = s
		}
		net := end.Net[id]
		bb := float64(net) / float64(bigBlind)
		s.Seats++
		s.NetChips += net
		s.SumBB += bb
		s.SumBB2 += bb * bb
		if net > 0 {
			s.Wins++
		}
	}
}

// buildReport merges the worker tallies into one sorted report
func buildReport(cfg Config, tallies []*tally) *Report {
	report := &Report{BigBlind: cfg.BigBlind}
	merged := make(map[ai.Personality]*StyleStats)
	for _, t := range tallies {
		report.Hands += t.hands
		report.Foldouts += t.foldouts
		for style, s := range t.byStyle {
			m := merged[style]
			if m == nil {
				m = &StyleStats{Style: style}
				merged[style] = m
			}
			m.Seats += s.Seats
			m.Wins += s.Wins
			m.NetChips += s.NetChips
			m.SumBB += s.SumBB
			m.SumBB2 += s.SumBB2
		}
	}
	for _, s := range merged {
		report.Styles = append(report.Styles, *s)
	}
	sort.Slice(report.Styles, func(i, j int) bool {
		if report.Styles[i].MeanBB() != report.Styles[j].MeanBB() {
			return report.Styles[i].MeanBB() > report.Styles[j].MeanBB()
		}
		return report.Styles[i].Style < report.Styles[j].Style
	})
	return report
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
