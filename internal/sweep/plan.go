package sweep

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"quincunx/internal/galton"
)

// Plan lists the experiments a sweep runs.
//
//	name: skill-vs-luck
//	description: "Compare decision modes"
//	workers: 4
//	seed: 7
//	experiments:
//	  - name: luck-500
//	    beads: 500
//	    mode: luck
//	  - name: skill-500
//	    beads: 500
//	    mode: skill
//	    repeats: 2
//	    trim: upper
type Plan struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Workers caps the number of experiments run at once. Zero means one per CPU.
	Workers int `yaml:"workers,omitempty"`

	// Seed is the base seed; experiments without their own seed use Seed+index.
	Seed int64 `yaml:"seed,omitempty"`

	Experiments []Experiment `yaml:"experiments"`
}

// Experiment is a single machine configuration within a plan.
type Experiment struct {
	Name  string `yaml:"name"`
	Beads int    `yaml:"beads"`
	Mode  string `yaml:"mode"`

	// Slots defaults to 10.
	Slots int   `yaml:"slots,omitempty"`
	Seed  int64 `yaml:"seed,omitempty"`

	// Repeats replays the experiment this many extra times with the same beads.
	Repeats int `yaml:"repeats,omitempty"`

	// Trim is applied after every round: "", "upper" or "lower".
	Trim string `yaml:"trim,omitempty"`
}

// Trim modes.
const (
	TrimNone  = ""
	TrimUpper = "upper"
	TrimLower = "lower"
)

// LoadPlan reads and parses a plan YAML file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a plan, rejecting unknown fields, and validates it.
func ParsePlan(data []byte) (*Plan, error) {
	var plan Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	return &plan, nil
}

// Validate checks required fields and value ranges.
func (p *Plan) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", p.Workers)
	}
	if len(p.Experiments) == 0 {
		return fmt.Errorf("experiments list is required and must be non-empty")
	}
	seen := make(map[string]bool, len(p.Experiments))
	for i, e := range p.Experiments {
		if e.Name == "" {
			return fmt.Errorf("experiments[%d]: name is required", i)
		}
		if seen[e.Name] {
			return fmt.Errorf("experiments[%d]: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
		if e.Beads < 0 {
			return fmt.Errorf("experiments[%d]: beads must be >= 0, got %d", i, e.Beads)
		}
		if _, err := galton.ParseMode(e.Mode); err != nil {
			return fmt.Errorf("experiments[%d]: %w", i, err)
		}
		if e.Slots < 0 {
			return fmt.Errorf("experiments[%d]: slots must be >= 0, got %d", i, e.Slots)
		}
		if e.Repeats < 0 {
			return fmt.Errorf("experiments[%d]: repeats must be >= 0, got %d", i, e.Repeats)
		}
		switch e.Trim {
		case TrimNone, TrimUpper, TrimLower:
		default:
			return fmt.Errorf("experiments[%d]: trim must be upper or lower, got %q", i, e.Trim)
		}
	}
	return nil
}

// config resolves an experiment against the plan defaults.
func (p *Plan) config(i int) galton.Config {
	e := p.Experiments[i]
	cfg := galton.DefaultConfig()
	cfg.Beads = e.Beads
	cfg.Mode, _ = galton.ParseMode(e.Mode)
	if e.Slots > 0 {
		cfg.Slots = e.Slots
		cfg.SkillAverage, cfg.SkillStdev = galton.SkillFor(e.Slots)
	}
	cfg.Seed = e.Seed
	if cfg.Seed == 0 {
		cfg.Seed = p.Seed + int64(i)
	}
	return cfg
}
