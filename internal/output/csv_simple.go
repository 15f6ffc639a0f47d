package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rosca/committee-forecast/internal/domain"
)

var summaryHeader = []string{"Period", "Label", "Users", "Deposit", "Payout", "FeeCollected", "NetInterestIncome", "DefaultLoss", "Refund", "Profit", "ProfitChangePercent"}

// CSVMonthlySummarizer writes one row per forecast month (the Monthly partition).
type CSVMonthlySummarizer struct{}

func (c CSVMonthlySummarizer) Name() string { return "csv" }

func (c CSVMonthlySummarizer) Format(result *domain.ForecastResult) ([]byte, error) {
	return writeSummaryCSV(result.Monthly)
}

// CSVYearlySummarizer writes one row per forecast year (the Yearly partition).
type CSVYearlySummarizer struct{}

func (c CSVYearlySummarizer) Name() string { return "yearly-csv" }

func (c CSVYearlySummarizer) Format(result *domain.ForecastResult) ([]byte, error) {
	return writeSummaryCSV(result.Yearly)
}

func writeSummaryCSV(rows []domain.PeriodSummary) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}
	for _, ps := range rows {
		row := []string{
			intToString(ps.Period),
			ps.Label,
			ps.Users.StringFixed(2),
			ps.Deposit.StringFixed(2),
			ps.Payout.StringFixed(2),
			ps.FeeCollected.StringFixed(2),
			ps.NetInterestIncome.StringFixed(2),
			ps.DefaultLoss.StringFixed(2),
			ps.Refund.StringFixed(2),
			ps.Profit.StringFixed(2),
			ps.ProfitChangePercent.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
