package calculation

import (
	"fmt"
	"sort"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/rosca/committee-forecast/pkg/money"
)

// MonthlySummary sums records per month, ordered by month, with the month-over-month profit change
func MonthlySummary(records []domain.ForecastRecord) []domain.PeriodSummary {
	summaries := groupBy(records, func(r domain.ForecastRecord) int { return r.Month })
	for i := range summaries {
		if summaries[i].Label == "" {
			summaries[i].Label = fmt.Sprintf("M%02d", summaries[i].Period)
		}
	}
	return summaries
}

// YearlySummary sums records per forecast year, ordered by year, with the year-over-year profit change
func YearlySummary(records []domain.ForecastRecord) []domain.PeriodSummary {
	summaries := groupBy(records, func(r domain.ForecastRecord) int { return r.Year })
	for i := range summaries {
		summaries[i].Label = fmt.Sprintf("Year %d", summaries[i].Period)
	}
	return summaries
}

// Totals sums every record of a run
func Totals(records []domain.ForecastRecord) domain.PeriodSummary {
	var total domain.PeriodSummary
	for _, r := range records {
		total.Add(r)
	}
	total.Label = "Total"
	return total
}

func groupBy(records []domain.ForecastRecord, key func(domain.ForecastRecord) int) []domain.PeriodSummary {
	if len(records) == 0 {
		return []domain.PeriodSummary{}
	}
	byKey := make(map[int]*domain.PeriodSummary)
	for _, r := range records {
		k := key(r)
		ps, ok := byKey[k]
		if !ok {
			ps = &domain.PeriodSummary{Period: k, Label: r.Period}
			byKey[k] = ps
		}
		ps.Add(r)
	}

	out := make([]domain.PeriodSummary, 0, len(byKey))
	for _, ps := range byKey {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })

	for i := 1; i < len(out); i++ {
		out[i].ProfitChangePercent = money.ChangePercent(out[i-1].Profit, out[i].Profit)
	}
	return out
}
