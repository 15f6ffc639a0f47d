package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of forecast configuration files
type InputParser struct {
	// Strict rejects unknown keys, which catches misspelled assumptions early
	Strict bool
}

// NewInputParser creates a new input parser that rejects unknown keys
func NewInputParser() *InputParser {
	return &InputParser{Strict: true}
}

// LoadFromFile loads a configuration from a YAML file, applies defaults and validates it
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	config, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}
	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return config, nil
}

// Parse decodes YAML bytes into a validated configuration
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(ip.Strict)
	if err := dec.Decode(&config); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML: empty configuration")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ip.ApplyDefaults(&config)
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &config, nil
}

// LoadScenarios loads several configuration files for side-by-side comparison.
// Each scenario is named after its configuration, or its file when the configuration has no name.
func (ip *InputParser) LoadScenarios(filenames []string) ([]domain.NamedConfiguration, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no scenario files provided")
	}
	scenarios := make([]domain.NamedConfiguration, 0, len(filenames))
	seen := make(map[string]string, len(filenames))
	for _, filename := range filenames {
		config, err := ip.LoadFromFile(filename)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", filename, err)
		}
		if prev, dup := seen[config.Name]; dup {
			return nil, fmt.Errorf("scenario name %q is used by both %s and %s", config.Name, prev, filename)
		}
		seen[config.Name] = filename
		scenarios = append(scenarios, domain.NamedConfiguration{Name: config.Name, Config: config})
	}
	return scenarios, nil
}

// ApplyDefaults fills omitted policy fields
func (ip *InputParser) ApplyDefaults(config *domain.Configuration) {
	config.ApplyDefaults()
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return &domain.ConfigurationError{Scope: "configuration", Reason: "is required"}
	}
	return config.Validate()
}

// SaveToFile writes a configuration as YAML
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration: three committee durations
// over three slabs, a 60 month horizon starting January 2025
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	horizon := domain.DefaultHorizonMonths
	slab := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }
	pct := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }

	return &domain.Configuration{
		Name: "example",
		Market: domain.MarketAssumptions{
			TotalMarket:      decimal.NewFromInt(20000000),
			TAMPercent:       pct("10"),
			StartUserPercent: pct("10"),
		},
		Growth: domain.GrowthAssumptions{
			MonthlyRate:        pct("0.02"),
			YearlyBumpRate:     pct("0.01"),
			YearlyBumpInterval: domain.DefaultYearlyBumpInterval,
			Model:              domain.GrowthFreshInflow,
		},
		Pricing: domain.PricingAssumptions{
			KIBOR:                 pct("14"),
			Spread:                pct("3"),
			DefaultRate:           pct("1"),
			DefaultPenaltyPercent: pct("10"),
			FeeUpfront:            true,
			DefaultLossBasis:      domain.DefaultLossOnPayout,
		},
		Lifecycle: domain.LifecycleSettings{
			RestPeriodMonths: 1,
			HorizonMonths:    &horizon,
			FanOutMode:       domain.FanOutEvenSplit,
			StartMonth:       "2025-01",
		},
		Slabs: []decimal.Decimal{slab(1000), slab(2500), slab(5000)},
		Committees: []domain.CommitteeConfig{
			{
				Duration:          3,
				AllocationPercent: pct("40"),
				SlabAllocation: []domain.SlabShare{
					{Slab: slab(1000), Percent: pct("60")},
					{Slab: slab(2500), Percent: pct("30")},
					{Slab: slab(5000), Percent: pct("10")},
				},
				Slots: map[int]domain.SlotSetting{
					1: {FeePercent: pct("3")},
					2: {FeePercent: pct("2")},
					3: {FeePercent: pct("1")},
				},
			},
			{
				Duration:          6,
				AllocationPercent: pct("35"),
				SlabAllocation: []domain.SlabShare{
					{Slab: slab(1000), Percent: pct("50")},
					{Slab: slab(2500), Percent: pct("50")},
				},
				Slots: map[int]domain.SlotSetting{
					1: {FeePercent: pct("4")},
					2: {FeePercent: pct("3")},
					3: {FeePercent: pct("2")},
					6: {Blocked: true},
				},
			},
			{
				Duration:          12,
				AllocationPercent: pct("25"),
				SlabAllocation: []domain.SlabShare{
					{Slab: slab(2500), Percent: pct("40")},
					{Slab: slab(5000), Percent: pct("60")},
				},
				Slots: map[int]domain.SlotSetting{
					1:  {FeePercent: pct("5")},
					2:  {FeePercent: pct("4")},
					12: {Blocked: true},
				},
			},
		},
	}
}
