package calculation

import (
	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// SummarizeScenario condenses one forecast result for comparison
func SummarizeScenario(result *domain.ForecastResult) domain.ScenarioSummary {
	summary := domain.ScenarioSummary{
		Name:         result.Name,
		TAM:          result.TAM,
		TAMUsed:      result.TAMUsed,
		TotalDeposit: result.Totals.Deposit,
		TotalFees:    result.Totals.FeeCollected,
		TotalNII:     result.Totals.NetInterestIncome,
		TotalLoss:    result.Totals.DefaultLoss,
		TotalProfit:  result.Totals.Profit,
		WarningCount: len(result.Warnings),
		Result:       result,
	}
	if n := len(result.Yearly); n > 0 {
		summary.FinalYearProfit = result.Yearly[n-1].Profit
	}

	var peak decimal.Decimal
	for _, ms := range result.Monthly {
		if summary.PeakMonth == 0 || ms.Profit.GreaterThan(peak) {
			peak = ms.Profit
			summary.PeakMonth = ms.Period
		}
	}
	return summary
}

// CompareScenarios summarizes each result and picks the best scenario by total profit and by total deposits.
// Ties keep the earlier scenario.
func CompareScenarios(results []*domain.ForecastResult) *domain.ScenarioComparison {
	comparison := &domain.ScenarioComparison{
		Scenarios: make([]domain.ScenarioSummary, 0, len(results)),
	}

	var bestProfit, bestDeposit decimal.Decimal
	for i, res := range results {
		s := SummarizeScenario(res)
		if i == 0 || s.TotalProfit.GreaterThan(bestProfit) {
			bestProfit = s.TotalProfit
			comparison.BestScenarioForProfit = s.Name
		}
		if i == 0 || s.TotalDeposit.GreaterThan(bestDeposit) {
			bestDeposit = s.TotalDeposit
			comparison.BestScenarioForDeposit = s.Name
		}
		comparison.Scenarios = append(comparison.Scenarios, s)
	}
	return comparison
}
