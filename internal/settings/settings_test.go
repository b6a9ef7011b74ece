package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cardroom.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileProviderFullConfig(t *testing.T) {
	path := writeConfig(t, `
table {
  starting_chips = 2000
  small_blind    = 10
  big_blind      = 20
}

ai {
  speed         = "fast"
  personalities = ["loose-aggressive", "tight-passive"]
  use_external  = true
  advisor_url   = "http://localhost:11434/v1"
  advisor_model = "llama3"
}
`)

	s, err := NewFileProvider(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if s.StartingChips != 2000 || s.SmallBlind != 10 || s.BigBlind != 20 {
		t.Errorf("table settings = %+v, want 2000 chips at 10/20", s)
	}
	if s.AISpeed != SpeedFast {
		t.Errorf("speed = %q, want fast", s.AISpeed)
	}
	if len(s.Personalities) != 2 || s.Personalities[0] != "loose-aggressive" {
		t.Errorf("personalities = %v", s.Personalities)
	}
	if !s.UseExternalAI || s.AdvisorURL != "http://localhost:11434/v1" || s.AdvisorModel != "llama3" {
		t.Errorf("advisor settings = %+v", s)
	}
}

func TestFileProviderPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
table {
  big_blind = 50
}
`)

	s, err := NewFileProvider(path).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	want := Default()
	if s.BigBlind != 50 {
		t.Errorf("big blind = %d, want 50", s.BigBlind)
	}
	if s.StartingChips != want.StartingChips || s.SmallBlind != want.SmallBlind || s.AISpeed != want.AISpeed {
		t.Errorf("defaults not preserved: %+v", s)
	}
}

func TestFileProviderMissingFileUsesDefaults(t *testing.T) {
	s, err := NewFileProvider(filepath.Join(t.TempDir(), "nope.hcl")).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	want := Default()
	if s.StartingChips != want.StartingChips || s.SmallBlind != want.SmallBlind ||
		s.BigBlind != want.BigBlind || s.AISpeed != want.AISpeed {
		t.Errorf("got %+v, want defaults", s)
	}
}

func TestFileProviderRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed hcl", `table { starting_chips = `},
		{"inverted blinds", "table {\n  small_blind = 20\n  big_blind = 10\n}"},
		{"unknown personality", "ai {\n  personalities = [\"maniac\"]\n}"},
		{"unknown speed", "ai {\n  speed = \"ludicrous\"\n}"},
		{"external without url", "ai {\n  use_external = true\n}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := NewFileProvider(path).Fetch(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFileProviderPicksUpEdits(t *testing.T) {
	path := writeConfig(t, "table {\n  big_blind = 20\n  small_blind = 10\n}")
	p := NewFileProvider(path)

	s, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.BigBlind != 20 {
		t.Fatalf("big blind = %d, want 20", s.BigBlind)
	}

	// The next fetch sees the rewritten file: stakes change between
	// hands, never within one.
	if err := os.WriteFile(path, []byte("table {\n  big_blind = 100\n  small_blind = 50\n}"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = p.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.BigBlind != 100 || s.SmallBlind != 50 {
		t.Errorf("got %d/%d, want 50/100 after edit", s.SmallBlind, s.BigBlind)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults pass", func(*Settings) {}, false},
		{"zero chips", func(s *Settings) { s.StartingChips = 0 }, true},
		{"zero small blind", func(s *Settings) { s.SmallBlind = 0 }, true},
		{"blinds inverted", func(s *Settings) { s.SmallBlind, s.BigBlind = 10, 5 }, true},
		{"stack below big blind", func(s *Settings) { s.StartingChips = 5 }, true},
		{"bad speed", func(s *Settings) { s.AISpeed = "warp" }, true},
		{"good personalities", func(s *Settings) { s.Personalities = []string{"tight-aggressive"} }, false},
		{"bad personality", func(s *Settings) { s.Personalities = []string{"gto-wizard"} }, true},
		{"external needs url", func(s *Settings) { s.UseExternalAI = true }, true},
		{"external with url", func(s *Settings) { s.UseExternalAI = true; s.AdvisorURL = "http://x" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(&s)
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestThinkDelayProfiles(t *testing.T) {
	instant := Settings{AISpeed: SpeedInstant}.ThinkDelay()
	if instant.Min != 0 || instant.Max != 0 {
		t.Errorf("instant profile = %+v, want zero", instant)
	}

	for _, speed := range []string{SpeedFast, SpeedNormal, SpeedSlow} {
		d := Settings{AISpeed: speed}.ThinkDelay()
		if d.Min <= 0 || d.Max < d.Min {
			t.Errorf("%s profile = %+v, want 0 < min <= max", speed, d)
		}
		if d.Min < 300*time.Millisecond || d.Max > 2500*time.Millisecond {
			t.Errorf("%s profile = %+v outside the 300ms-2.5s band", speed, d)
		}
	}

	fast := Settings{AISpeed: SpeedFast}.ThinkDelay()
	slow := Settings{AISpeed: SpeedSlow}.ThinkDelay()
	if fast.Max >= slow.Min {
		t.Errorf("fast max %v should sit below slow min %v", fast.Max, slow.Min)
	}
}
