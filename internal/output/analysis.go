package output

import (
	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/rosca/committee-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

// Highlights condenses a forecast into the figures the console reports lead with.
type Highlights struct {
	PeakMonth            domain.PeriodSummary
	FirstProfitableMonth int // 0 when no month is profitable
	AverageMonthlyProfit decimal.Decimal
	ProfitMargin         decimal.Decimal // profit as a percent of deposits
	TAMPenetration       decimal.Decimal // percent of the TAM admitted as new users
	LastYearChange       decimal.Decimal // YoY profit change of the final year
}

// AnalyzeForecast derives the report highlights from a forecast result.
// Extracted from embedded console logic for testability.
func AnalyzeForecast(result *domain.ForecastResult) Highlights {
	var h Highlights
	for i, ms := range result.Monthly {
		if i == 0 || ms.Profit.GreaterThan(h.PeakMonth.Profit) {
			h.PeakMonth = ms
		}
		if h.FirstProfitableMonth == 0 && ms.Profit.IsPositive() {
			h.FirstProfitableMonth = ms.Period
		}
	}
	if n := len(result.Monthly); n > 0 {
		h.AverageMonthlyProfit = result.Totals.Profit.Div(decimal.NewFromInt(int64(n)))
	}
	if !result.Totals.Deposit.IsZero() {
		h.ProfitMargin = result.Totals.Profit.Div(result.Totals.Deposit).Mul(decimalHundred)
	}
	if !result.TAM.IsZero() {
		h.TAMPenetration = result.TAMUsed.Div(result.TAM).Mul(decimalHundred)
	}
	if n := len(result.Yearly); n > 1 {
		h.LastYearChange = money.ChangePercent(result.Yearly[n-2].Profit, result.Yearly[n-1].Profit)
	}
	return h
}

// Recommendation encapsulates the selection result of the best scenario.
type Recommendation struct {
	ScenarioName  string
	TotalProfit   decimal.Decimal
	ProfitChange  decimal.Decimal // against the runner-up
	PercentChange decimal.Decimal
}

// AnalyzeScenarios picks the scenario with the highest total profit and its lead over the runner-up.
func AnalyzeScenarios(cmp *domain.ScenarioComparison) Recommendation {
	if cmp == nil || len(cmp.Scenarios) == 0 {
		return Recommendation{}
	}
	best, runnerUp := -1, -1
	for i, sc := range cmp.Scenarios {
		switch {
		case best < 0 || sc.TotalProfit.GreaterThan(cmp.Scenarios[best].TotalProfit):
			runnerUp, best = best, i
		case runnerUp < 0 || sc.TotalProfit.GreaterThan(cmp.Scenarios[runnerUp].TotalProfit):
			runnerUp = i
		}
	}
	rec := Recommendation{
		ScenarioName: cmp.Scenarios[best].Name,
		TotalProfit:  cmp.Scenarios[best].TotalProfit,
	}
	if runnerUp >= 0 {
		other := cmp.Scenarios[runnerUp].TotalProfit
		rec.ProfitChange = rec.TotalProfit.Sub(other)
		rec.PercentChange = money.ChangePercent(other, rec.TotalProfit)
	}
	return rec
}
