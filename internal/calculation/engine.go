package calculation

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rosca/committee-forecast/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ForecastEngine orchestrates matrix resolution, simulation and aggregation
type ForecastEngine struct {
	Workers int // concurrent cell groups per month; 1 computes sequentially
	Logger  Logger
}

// NewForecastEngine creates a new forecast engine
func NewForecastEngine() *ForecastEngine {
	return &ForecastEngine{
		Workers: runtime.NumCPU(),
		Logger:  NopLogger{},
	}
}

// SetLogger sets the logger for the forecast engine. If nil is provided, a no-op logger is used.
func (fe *ForecastEngine) SetLogger(l Logger) {
	if l == nil {
		fe.Logger = NopLogger{}
		return
	}
	fe.Logger = l
}

// Run forecasts a single configuration. The configuration is copied before defaults are applied,
// so the caller's value is never modified.
func (fe *ForecastEngine) Run(ctx context.Context, cfg *domain.Configuration) (*domain.ForecastResult, error) {
	if cfg == nil {
		return nil, &domain.ConfigurationError{Scope: "configuration", Reason: "is required"}
	}
	working := *cfg
	working.ApplyDefaults()

	matrix, warnings, err := ResolveMatrix(&working)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fe.Logger.Warnf("%s: %s", scenarioLabel(working.Name), w)
	}

	sim, err := NewSimulator(&working, matrix)
	if err != nil {
		return nil, err
	}
	sim.Workers = fe.Workers
	sim.Logger = fe.Logger

	fe.Logger.Infof("forecasting %s: tam=%s starting_users=%s horizon=%d durations=%v",
		scenarioLabel(working.Name), sim.tam.StringFixed(2), sim.initial.StringFixed(2),
		working.Lifecycle.Horizon(), matrix.Durations())

	result, err := sim.Run(ctx)
	if err != nil {
		return nil, err
	}
	result.Warnings = warnings
	result.Monthly = MonthlySummary(result.Records)
	result.Yearly = YearlySummary(result.Records)
	result.Totals = Totals(result.Records)

	fe.Logger.Debugf("%s: %d records, total profit %s", scenarioLabel(working.Name),
		len(result.Records), result.Totals.Profit.StringFixed(2))
	return result, nil
}

// RunScenarios forecasts independent configurations concurrently and ranks them.
// The first failing scenario cancels the others.
func (fe *ForecastEngine) RunScenarios(ctx context.Context, scenarios []domain.NamedConfiguration) (*domain.ScenarioComparison, error) {
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to compare")
	}

	results := make([]*domain.ForecastResult, len(scenarios))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, fe.Workers))
	for i, sc := range scenarios {
		i, sc := i, sc
		eg.Go(func() error {
			if sc.Config == nil {
				return fmt.Errorf("scenario %q: %w", sc.Name, &domain.ConfigurationError{Scope: "configuration", Reason: "is required"})
			}
			cfg := *sc.Config
			if sc.Name != "" {
				cfg.Name = sc.Name
			}
			res, err := fe.Run(egctx, &cfg)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", cfg.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return CompareScenarios(results), nil
}

func scenarioLabel(name string) string {
	if name == "" {
		return "forecast"
	}
	return name
}
