package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rosca/committee-forecast/internal/domain"
)

// CSVForecastExporter writes every (month, duration, slab, slot) row (the Forecast partition).
type CSVForecastExporter struct{}

func (c CSVForecastExporter) Name() string { return "detailed-csv" }

func (c CSVForecastExporter) Format(result *domain.ForecastResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Year", "Period", "Duration", "Slab", "Slot", "State", "Blocked", "UsersInCell", "FeePercent", "Deposit", "Payout", "FeeCollected", "NetInterestIncome", "DefaultLoss", "Refund", "Profit"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, r := range result.Records {
		row := []string{
			intToString(r.Month),
			intToString(r.Year),
			r.Period,
			intToString(r.Duration),
			r.Slab.String(),
			intToString(r.Slot),
			string(r.State),
			boolToString(r.Blocked),
			r.UsersInCell.StringFixed(2),
			r.FeePercent.String(),
			r.Deposit.StringFixed(2),
			r.Payout.StringFixed(2),
			r.FeeCollected.StringFixed(2),
			r.NetInterestIncome.StringFixed(2),
			r.DefaultLoss.StringFixed(2),
			r.Refund.StringFixed(2),
			r.Profit.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// CSVFlowsExporter writes the monthly cohort movements (the Flows partition).
type CSVFlowsExporter struct{}

func (c CSVFlowsExporter) Name() string { return "flows-csv" }

func (c CSVFlowsExporter) Format(result *domain.ForecastResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Month", "Year", "Period", "NewUsers", "RejoiningUsers", "Admitted", "Enrolled", "Completing", "ActiveMembers", "RestingMembers", "Population", "TAMUsed", "TAMHeadroom"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, f := range result.Flows {
		row := []string{
			intToString(f.Month),
			intToString(f.Year),
			f.Period,
			f.NewUsers.StringFixed(2),
			f.RejoiningUsers.StringFixed(2),
			f.Admitted.StringFixed(2),
			f.Enrolled.StringFixed(2),
			f.Completing.StringFixed(2),
			f.ActiveMembers.StringFixed(2),
			f.RestingMembers.StringFixed(2),
			f.Population.StringFixed(2),
			f.TAMUsed.StringFixed(2),
			f.TAMHeadroom.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
