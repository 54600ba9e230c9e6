package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"gopkg.in/yaml.v3"
)

// BatchConfig controls one generation run.
type BatchConfig struct {
	Settings  []domain.Setting `yaml:"settings"`
	Sequences []domain.Plan    `yaml:"sequences"`

	// PoolPerSetting is split evenly across Sequences.
	PoolPerSetting         int    `yaml:"pool_per_setting"`
	MinPool                int    `yaml:"min_pool"`
	SampleSize             int    `yaml:"sample_size"`
	MaxAttemptsPerSequence int    `yaml:"max_attempts_per_sequence"`
	Seed                   uint64 `yaml:"seed"`
}

func DefaultBatch() BatchConfig {
	return BatchConfig{
		Settings:               domain.DefaultSettings(),
		Sequences:              domain.DefaultPlans(),
		PoolPerSetting:         10000,
		MinPool:                1000,
		SampleSize:             1000,
		MaxAttemptsPerSequence: 200000,
	}
}

// PerSequenceTarget is the number of accepted stories sought for each plan.
func (c BatchConfig) PerSequenceTarget() int {
	if len(c.Sequences) == 0 {
		return 0
	}
	return c.PoolPerSetting / len(c.Sequences)
}

// Normalize fills in the location count of settings that leave it out.
func (c *BatchConfig) Normalize() {
	for i := range c.Settings {
		if c.Settings[i].Locations == 0 {
			c.Settings[i].Locations = domain.DefaultLocations
		}
		if strings.TrimSpace(c.Settings[i].Label) == "" {
			s := c.Settings[i]
			c.Settings[i].Label = fmt.Sprintf("A%d_O%d_C%d", s.Agents, s.Objects, s.Containers)
		}
	}
}

func (c BatchConfig) Validate() error {
	var errs []error
	if len(c.Settings) == 0 {
		errs = append(errs, errors.New("no settings"))
	}
	seen := make(map[string]bool, len(c.Settings))
	for _, s := range c.Settings {
		if seen[s.Label] {
			errs = append(errs, fmt.Errorf("setting %s: duplicate label", s.Label))
		}
		seen[s.Label] = true
		if s.Agents < 1 || s.Objects < 1 || s.Containers < 1 || s.Locations < 1 {
			errs = append(errs, fmt.Errorf("setting %s: every entity count must be positive", s.Label))
		}
	}
	if len(c.Sequences) == 0 {
		errs = append(errs, errors.New("no sequences"))
	}
	for i, p := range c.Sequences {
		if len(p) == 0 {
			errs = append(errs, fmt.Errorf("sequence %d: empty", i))
		}
		for _, k := range p {
			if !k.IsValid() {
				errs = append(errs, fmt.Errorf("sequence %d: unknown action kind %q", i, k))
			}
		}
	}
	if c.PoolPerSetting < len(c.Sequences) {
		errs = append(errs, fmt.Errorf("pool_per_setting %d is smaller than the number of sequences", c.PoolPerSetting))
	}
	if c.MinPool < 1 || c.MinPool > c.PoolPerSetting {
		errs = append(errs, fmt.Errorf("min_pool %d must be in [1, pool_per_setting]", c.MinPool))
	}
	if c.SampleSize < 1 || c.SampleSize > c.MinPool {
		errs = append(errs, fmt.Errorf("sample_size %d must be in [1, min_pool]", c.SampleSize))
	}
	if c.MaxAttemptsPerSequence < 1 {
		errs = append(errs, errors.New("max_attempts_per_sequence must be positive"))
	}
	return errors.Join(errs...)
}

// LoadBatch reads a YAML batch file over DefaultBatch. An empty path yields
// the defaults.
func LoadBatch(path string) (BatchConfig, error) {
	cfg := DefaultBatch()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
