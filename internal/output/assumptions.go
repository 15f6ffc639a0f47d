package output

import (
	"fmt"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// GenerateAssumptions creates the assumptions list rendered in reports from the configuration used for a run
func GenerateAssumptions(cfg *domain.Configuration) []string {
	if cfg == nil {
		return nil
	}
	feeBasis := "payout (deferred)"
	if cfg.Pricing.FeeUpfront {
		feeBasis = "deposit (upfront)"
	}
	lossBasis := cfg.Pricing.DefaultLossBasis
	if lossBasis == "" {
		lossBasis = domain.DefaultLossOnPayout
	}
	fanOut := cfg.Lifecycle.FanOutMode
	if fanOut == "" {
		fanOut = domain.FanOutEvenSplit
	}
	model := cfg.Growth.Model
	if model == "" {
		model = domain.GrowthFreshInflow
	}
	bumpInterval := cfg.Growth.YearlyBumpInterval
	if bumpInterval == 0 {
		bumpInterval = domain.DefaultYearlyBumpInterval
	}

	return []string{
		fmt.Sprintf("Addressable market: %s%% of %s", cfg.Market.TAMPercent.String(), FormatUsers(cfg.Market.TotalMarket)),
		fmt.Sprintf("Month 1 users: %s%% of TAM", cfg.Market.StartUserPercent.String()),
		fmt.Sprintf("Monthly growth: %s%% of the admitted population (%s)", cfg.Growth.MonthlyRate.Mul(decimalHundred).String(), model),
		fmt.Sprintf("Anniversary bump: %s%% of TAM every %d months", cfg.Growth.YearlyBumpRate.Mul(decimalHundred).String(), bumpInterval),
		fmt.Sprintf("Float yield: KIBOR %s%% + spread %s%% annually", cfg.Pricing.KIBOR.String(), cfg.Pricing.Spread.String()),
		fmt.Sprintf("Fees charged on %s", feeBasis),
		fmt.Sprintf("Default rate: %s%% of %s", cfg.Pricing.DefaultRate.String(), lossBasis),
		fmt.Sprintf("Early exit refund: deposit less %s%% penalty", cfg.Pricing.DefaultPenaltyPercent.String()),
		fmt.Sprintf("Rest period: %d months; slot fan-out: %s", cfg.Lifecycle.RestPeriodMonths, fanOut),
	}
}
