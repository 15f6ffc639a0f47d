package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(v int) *int { return &v }

// createTestConfiguration returns a single 3-month committee at 100% with one 1,000 slab,
// a 2% upfront fee on every slot and no growth after month 1.
func createTestConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Name: "baseline",
		Market: domain.MarketAssumptions{
			TotalMarket:      dec("20000000"),
			TAMPercent:       dec("10"),
			StartUserPercent: dec("10"),
		},
		Growth: domain.GrowthAssumptions{
			MonthlyRate: decimal.Zero,
		},
		Pricing: domain.PricingAssumptions{
			KIBOR:                 dec("14"),
			Spread:                dec("3"),
			DefaultRate:           dec("1"),
			DefaultPenaltyPercent: dec("10"),
			FeeUpfront:            true,
		},
		Lifecycle: domain.LifecycleSettings{
			RestPeriodMonths: 1,
			HorizonMonths:    intPtr(12),
		},
		Slabs: []decimal.Decimal{dec("1000")},
		Committees: []domain.CommitteeConfig{
			{
				Duration:          3,
				AllocationPercent: dec("100"),
				SlabAllocation:    []domain.SlabShare{{Slab: dec("1000"), Percent: dec("100")}},
				Slots: map[int]domain.SlotSetting{
					1: {FeePercent: dec("2")},
					2: {FeePercent: dec("2")},
					3: {FeePercent: dec("2")},
				},
			},
		},
	}
}

// createMultiDurationConfiguration offers 3, 4 and 6 month committees with two slabs each
func createMultiDurationConfiguration() *domain.Configuration {
	cfg := createTestConfiguration()
	cfg.Name = "multi"
	cfg.Growth.MonthlyRate = dec("0.05")
	cfg.Growth.YearlyBumpRate = dec("0.02")
	cfg.Lifecycle.HorizonMonths = intPtr(24)
	cfg.Slabs = []decimal.Decimal{dec("1000"), dec("5000")}
	cfg.Committees = []domain.CommitteeConfig{
		{
			Duration:          6,
			AllocationPercent: dec("30"),
			SlabAllocation: []domain.SlabShare{
				{Slab: dec("5000"), Percent: dec("40")},
				{Slab: dec("1000"), Percent: dec("60")},
			},
			Slots: map[int]domain.SlotSetting{1: {FeePercent: dec("5")}, 6: {FeePercent: dec("1"), Blocked: true}},
		},
		{
			Duration:          3,
			AllocationPercent: dec("50"),
			SlabAllocation: []domain.SlabShare{
				{Slab: dec("1000"), Percent: dec("70")},
				{Slab: dec("5000"), Percent: dec("30")},
			},
			Slots: map[int]domain.SlotSetting{1: {FeePercent: dec("3")}, 2: {FeePercent: dec("2")}},
		},
		{
			Duration:          4,
			AllocationPercent: dec("20"),
			SlabAllocation:    []domain.SlabShare{{Slab: dec("1000"), Percent: dec("100")}},
		},
	}
	return cfg
}

func TestFullForecastCalculation(t *testing.T) {
	engine := NewForecastEngine()

	t.Run("baseline month 1", func(t *testing.T) {
		result, err := engine.Run(context.Background(), createTestConfiguration())
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.True(t, result.TAM.Equal(dec("2000000")), "tam = %s", result.TAM)
		assert.True(t, result.StartingUsers.Equal(dec("200000")), "starting users = %s", result.StartingUsers)
		assert.Empty(t, result.Warnings)
		assert.Len(t, result.Records, 12*3)

		month1 := result.RecordsForMonth(1)
		require.Len(t, month1, 3)
		for i, rec := range month1 {
			assert.Equal(t, i+1, rec.Slot)
			assert.Equal(t, domain.CellActive, rec.State)
			assert.Equal(t, "66666.67", rec.UsersInCell.StringFixed(2))
			assert.Equal(t, "200000000.00", rec.Deposit.StringFixed(2))
			assert.Equal(t, "66666666.67", rec.Payout.StringFixed(2))
			assert.Equal(t, "4000000.00", rec.FeeCollected.StringFixed(2))
			assert.Equal(t, "2833333.33", rec.NetInterestIncome.StringFixed(2))
			assert.Equal(t, "666666.67", rec.DefaultLoss.StringFixed(2))
			assert.Equal(t, "180000000.00", rec.Refund.StringFixed(2))
			assert.Equal(t, "6166666.67", rec.Profit.StringFixed(2))
		}
	})

	t.Run("rejoin lands after duration plus rest", func(t *testing.T) {
		result, err := engine.Run(context.Background(), createTestConfiguration())
		require.NoError(t, err)

		assert.True(t, result.RejoinSchedule[5].Equal(dec("200000")), "rejoin[5] = %s", result.RejoinSchedule[5])
		for m := 2; m <= 4; m++ {
			assert.True(t, result.Flows[m-1].Admitted.IsZero(), "month %d admitted %s", m, result.Flows[m-1].Admitted)
		}
		assert.True(t, result.Flows[4].RejoiningUsers.Equal(dec("200000")))
		assert.True(t, result.Flows[4].Admitted.Equal(dec("200000")))
		assert.True(t, result.Flows[3].Completing.Equal(dec("200000")), "completion at month 4")
		assert.True(t, result.Flows[0].NewUsers.Equal(dec("200000")))
	})

	t.Run("caller configuration is not modified", func(t *testing.T) {
		cfg := createTestConfiguration()
		cfg.Lifecycle.HorizonMonths = nil
		_, err := engine.Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.Nil(t, cfg.Lifecycle.HorizonMonths)
		assert.Empty(t, cfg.Lifecycle.FanOutMode)
	})

	t.Run("default horizon", func(t *testing.T) {
		cfg := createTestConfiguration()
		cfg.Lifecycle.HorizonMonths = nil
		result, err := engine.Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultHorizonMonths, result.Horizon)
		assert.Len(t, result.Flows, domain.DefaultHorizonMonths)
		assert.Len(t, result.Yearly, 5)
	})
}

func TestForecastEngineErrors(t *testing.T) {
	engine := NewForecastEngine()

	t.Run("nil configuration", func(t *testing.T) {
		_, err := engine.Run(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("slot out of range aborts before simulation", func(t *testing.T) {
		cfg := createTestConfiguration()
		cfg.Committees[0].Slots[4] = domain.SlotSetting{FeePercent: dec("1")}
		result, err := engine.Run(context.Background(), cfg)
		require.Error(t, err)
		assert.Nil(t, result)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "duration 3", cfgErr.Scope)
		assert.Contains(t, cfgErr.Reason, "slot 4")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := engine.Run(ctx, createTestConfiguration())
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
	})
}

type recordingLogger struct {
	NopLogger
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.warnings = append(l.warnings, format)
}

func TestForecastEngineLogsWarnings(t *testing.T) {
	cfg := createTestConfiguration()
	cfg.Committees[0].AllocationPercent = dec("90")

	logger := &recordingLogger{}
	engine := NewForecastEngine()
	engine.SetLogger(logger)

	result, err := engine.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "durations", result.Warnings[0].Scope)
	assert.True(t, result.Warnings[0].ActualTotal.Equal(dec("90")))
	assert.Len(t, logger.warnings, 1)

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestParallelMatchesSequential(t *testing.T) {
	cfg := createMultiDurationConfiguration()

	sequential := NewForecastEngine()
	sequential.Workers = 1
	parallel := NewForecastEngine()
	parallel.Workers = 8

	want, err := sequential.Run(context.Background(), cfg)
	require.NoError(t, err)
	got, err := parallel.Run(context.Background(), cfg)
	require.NoError(t, err)

	require.Equal(t, len(want.Records), len(got.Records))
	for i := range want.Records {
		w, g := want.Records[i], got.Records[i]
		assert.Equal(t, w.Month, g.Month)
		assert.Equal(t, w.Duration, g.Duration)
		assert.Equal(t, w.Slot, g.Slot)
		assert.True(t, w.Slab.Equal(g.Slab))
		assert.True(t, w.Profit.Equal(g.Profit), "row %d profit %s vs %s", i, w.Profit, g.Profit)
	}
	assert.True(t, want.Totals.Profit.Equal(got.Totals.Profit))
}

func TestRunScenarios(t *testing.T) {
	engine := NewForecastEngine()

	low := createTestConfiguration()
	high := createTestConfiguration()
	high.Committees[0].Slots[1] = domain.SlotSetting{FeePercent: dec("6")}
	bigger := createTestConfiguration()
	bigger.Market.TotalMarket = dec("40000000")

	comparison, err := engine.RunScenarios(context.Background(), []domain.NamedConfiguration{
		{Name: "low fee", Config: low},
		{Name: "high fee", Config: high},
		{Name: "bigger market", Config: bigger},
	})
	require.NoError(t, err)
	require.Len(t, comparison.Scenarios, 3)

	assert.Equal(t, "low fee", comparison.Scenarios[0].Name)
	assert.Equal(t, "bigger market", comparison.BestScenarioForDeposit)
	assert.Equal(t, "bigger market", comparison.BestScenarioForProfit)
	assert.True(t, comparison.Scenarios[1].TotalFees.GreaterThan(comparison.Scenarios[0].TotalFees))
	assert.NotNil(t, comparison.Scenarios[0].Result)

	t.Run("empty", func(t *testing.T) {
		_, err := engine.RunScenarios(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("one failing scenario fails the comparison", func(t *testing.T) {
		bad := createTestConfiguration()
		bad.Lifecycle.FanOutMode = "round_robin"
		_, err := engine.RunScenarios(context.Background(), []domain.NamedConfiguration{
			{Name: "ok", Config: low},
			{Name: "bad", Config: bad},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
		assert.Contains(t, err.Error(), `scenario "bad"`)
	})
}
