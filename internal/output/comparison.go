package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rosca/committee-forecast/internal/domain"
)

// FormatComparison renders a scenario comparison as console text, JSON or CSV
func FormatComparison(cmp *domain.ScenarioComparison, format string) ([]byte, error) {
	switch NormalizeFormatName(format) {
	case "console", "console-lite":
		return comparisonConsole(cmp), nil
	case "json":
		return json.MarshalIndent(cmp, "", "  ")
	case "csv":
		return comparisonCSV(cmp)
	default:
		return nil, fmt.Errorf("%w for comparison: %q. Try one of: console, json, csv", ErrUnsupportedFormat, format)
	}
}

func comparisonConsole(cmp *domain.ScenarioComparison) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "SCENARIO COMPARISON")
	fmt.Fprintln(&buf, strings.Repeat("=", 100))
	fmt.Fprintf(&buf, "%-24s %22s %18s %18s %18s %8s\n", "Scenario", "Deposit", "Fees", "Profit", "Final Year", "Peak")
	for _, sc := range cmp.Scenarios {
		fmt.Fprintf(&buf, "%-24s %22s %18s %18s %18s %8d\n",
			sc.Name,
			FormatCurrency(sc.TotalDeposit),
			FormatCurrency(sc.TotalFees),
			FormatCurrency(sc.TotalProfit),
			FormatCurrency(sc.FinalYearProfit),
			sc.PeakMonth,
		)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Best for profit:  %s\n", cmp.BestScenarioForProfit)
	fmt.Fprintf(&buf, "Best for deposit: %s\n", cmp.BestScenarioForDeposit)

	rec := AnalyzeScenarios(cmp)
	if rec.ScenarioName != "" && len(cmp.Scenarios) > 1 {
		fmt.Fprintf(&buf, "Recommended: %s (Δ %s / %s over runner-up)\n", rec.ScenarioName, FormatCurrency(rec.ProfitChange), FormatPercentage(rec.PercentChange))
	}
	return buf.Bytes()
}

func comparisonCSV(cmp *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "TAM", "TAMUsed", "TotalDeposit", "TotalFees", "TotalNII", "TotalLoss", "TotalProfit", "FinalYearProfit", "PeakMonth", "Warnings"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, sc := range cmp.Scenarios {
		row := []string{
			sc.Name,
			sc.TAM.StringFixed(2),
			sc.TAMUsed.StringFixed(2),
			sc.TotalDeposit.StringFixed(2),
			sc.TotalFees.StringFixed(2),
			sc.TotalNII.StringFixed(2),
			sc.TotalLoss.StringFixed(2),
			sc.TotalProfit.StringFixed(2),
			sc.FinalYearProfit.StringFixed(2),
			intToString(sc.PeakMonth),
			intToString(sc.WarningCount),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
