package settings

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// fileConfig mirrors the HCL layout:
//
//	table {
//	  starting_chips = 1000
//	  small_blind    = 5
//	  big_blind      = 10
//	}
//
//	ai {
//	  speed         = "normal"
//	  personalities = ["tight-aggressive", "loose-passive"]
//	  use_external  = false
//	  advisor_url   = "http://localhost:11434/v1"
//	  advisor_model = "llama3"
//	}
type fileConfig struct {
	Table *tableBlock `hcl:"table,block"`
	AI    *aiBlock    `hcl:"ai,block"`
}

type tableBlock struct {
	StartingChips int `hcl:"starting_chips,optional"`
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
}

type aiBlock struct {
	Speed         string   `hcl:"speed,optional"`
	Personalities []string `hcl:"personalities,optional"`
	UseExternal   bool     `hcl:"use_external,optional"`
	AdvisorURL    string   `hcl:"advisor_url,optional"`
	AdvisorModel  string   `hcl:"advisor_model,optional"`
}

// FileProvider reads settings from an HCL file on every fetch, so
// editing the file changes the game from the next hand. A missing file
// is not an error: play starts with defaults and the file can appear
// later.
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Fetch implements Provider
func (f *FileProvider) Fetch(context.Context) (Settings, error) {
	if _, err := os.Stat(f.Path); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(f.Path)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to parse %s: %s", f.Path, diags.Error())
	}

	var config fileConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &config); diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to decode %s: %s", f.Path, diags.Error())
	}

	s := Default()
	if t := config.Table; t != nil {
		if t.StartingChips != 0 {
			s.StartingChips = t.StartingChips
		}
		if t.SmallBlind != 0 {
			s.SmallBlind = t.SmallBlind
		}
		if t.BigBlind != 0 {
			s.BigBlind = t.BigBlind
		}
	}
	if a := config.AI; a != nil {
		if a.Speed != "" {
			s.AISpeed = a.Speed
		}
		s.Personalities = a.Personalities
		s.UseExternalAI = a.UseExternal
		s.AdvisorURL = a.AdvisorURL
		s.AdvisorModel = a.AdvisorModel
	}

	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings in %s: %w", f.Path, err)
	}
	return s, nil
}
