package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeForecast(t *testing.T) {
	h := AnalyzeForecast(buildTestResult())

	assert.Equal(t, 1, h.PeakMonth.Period)
	assert.Equal(t, 1, h.FirstProfitableMonth)
	assert.Equal(t, "6937.50", h.AverageMonthlyProfit.StringFixed(2))
	assert.Equal(t, "3.08", h.ProfitMargin.StringFixed(2))
	assert.Equal(t, "25.00", h.TAMPenetration.StringFixed(2))
	assert.Equal(t, "-50.00", h.LastYearChange.StringFixed(2))

	empty := AnalyzeForecast(&domain.ForecastResult{})
	assert.Equal(t, 0, empty.FirstProfitableMonth)
	assert.True(t, empty.ProfitMargin.IsZero())
	assert.True(t, empty.TAMPenetration.IsZero())
}

func buildTestComparison() *domain.ScenarioComparison {
	return &domain.ScenarioComparison{
		Scenarios: []domain.ScenarioSummary{
			{Name: "A", TotalDeposit: d("900000"), TotalFees: d("9000"), TotalProfit: d("10000"), PeakMonth: 3},
			{Name: "B", TotalDeposit: d("800000"), TotalFees: d("12000"), TotalProfit: d("12500"), PeakMonth: 5},
			{Name: "C", TotalDeposit: d("100000"), TotalFees: d("1000"), TotalProfit: d("2000"), PeakMonth: 1},
		},
		BestScenarioForProfit:  "B",
		BestScenarioForDeposit: "A",
	}
}

func TestAnalyzeScenarios_SelectsHighestTotalProfit(t *testing.T) {
	rec := AnalyzeScenarios(buildTestComparison())
	assert.Equal(t, "B", rec.ScenarioName)
	assert.True(t, rec.TotalProfit.Equal(d("12500")))
	assert.True(t, rec.ProfitChange.Equal(d("2500")), "lead over A, got %s", rec.ProfitChange)
	assert.Equal(t, "25.00", rec.PercentChange.StringFixed(2))

	assert.Empty(t, AnalyzeScenarios(&domain.ScenarioComparison{}).ScenarioName)
	assert.Empty(t, AnalyzeScenarios(nil).ScenarioName)
}

func TestFormatComparison(t *testing.T) {
	cmp := buildTestComparison()

	out, err := FormatComparison(cmp, "console")
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "SCENARIO COMPARISON")
	assert.Contains(t, content, "Best for profit:  B")
	assert.Contains(t, content, "Recommended: B")

	out, err = FormatComparison(cmp, "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "A,"), "rows keep scenario order")

	out, err = FormatComparison(cmp, "json")
	require.NoError(t, err)
	var decoded domain.ScenarioComparison
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "A", decoded.BestScenarioForDeposit)

	_, err = FormatComparison(cmp, "detailed-csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestGenerateAssumptions(t *testing.T) {
	assert.Nil(t, GenerateAssumptions(nil))

	cfg := &domain.Configuration{}
	cfg.Market.TotalMarket = d("20000000")
	cfg.Market.TAMPercent = d("10")
	cfg.Growth.MonthlyRate = d("0.02")
	cfg.Pricing.KIBOR = d("14")
	cfg.Pricing.Spread = d("3")
	cfg.Pricing.FeeUpfront = true

	got := GenerateAssumptions(cfg)
	joined := strings.Join(got, "\n")
	assert.Contains(t, joined, "Addressable market: 10% of 20,000,000.00")
	assert.Contains(t, joined, "Monthly growth: 2% of the admitted population (fresh_inflow)")
	assert.Contains(t, joined, "KIBOR 14% + spread 3%")
	assert.Contains(t, joined, "Fees charged on deposit (upfront)")
	assert.Contains(t, joined, "every 12 months")
	assert.Contains(t, joined, "slot fan-out: even_split")
	assert.Contains(t, joined, "of payout")
}
