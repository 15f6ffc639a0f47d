package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rosca/committee-forecast/internal/domain"
)

// ConsoleFormatter renders the detailed console report: assumptions, warnings, yearly table and highlights.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 110)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "ROSCA COMMITTEE FORECAST: %s\n", displayName(result))
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "TAM:            %s users\n", FormatUsers(result.TAM))
	fmt.Fprintf(&buf, "Starting users: %s\n", FormatUsers(result.StartingUsers))
	fmt.Fprintf(&buf, "TAM used:       %s\n", FormatUsers(result.TAMUsed))
	fmt.Fprintf(&buf, "Horizon:        %d months\n", result.Horizon)
	fmt.Fprintln(&buf)

	if len(result.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range result.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(&buf, "WARNINGS:")
		for _, w := range result.Warnings {
			fmt.Fprintf(&buf, "! %s\n", w)
		}
		fmt.Fprintln(&buf)
	}

	fmt.Fprintln(&buf, "YEARLY SUMMARY")
	fmt.Fprintln(&buf, strings.Repeat("-", 110))
	writeSummaryTable(&buf, result.Yearly, result.Totals)
	fmt.Fprintln(&buf)

	h := AnalyzeForecast(result)
	fmt.Fprintln(&buf, "HIGHLIGHTS")
	fmt.Fprintln(&buf, strings.Repeat("-", 110))
	if len(result.Monthly) == 0 {
		fmt.Fprintln(&buf, "No committee activity in this forecast.")
		return buf.Bytes(), nil
	}
	fmt.Fprintf(&buf, "Peak month:             %s (%s)\n", h.PeakMonth.Label, FormatCurrency(h.PeakMonth.Profit))
	if h.FirstProfitableMonth > 0 {
		fmt.Fprintf(&buf, "First profitable month: %d\n", h.FirstProfitableMonth)
	} else {
		fmt.Fprintln(&buf, "First profitable month: none")
	}
	fmt.Fprintf(&buf, "Average monthly profit: %s\n", FormatCurrency(h.AverageMonthlyProfit))
	fmt.Fprintf(&buf, "Profit margin:          %s of deposits\n", FormatPercentage(h.ProfitMargin))
	fmt.Fprintf(&buf, "TAM penetration:        %s\n", FormatPercentage(h.TAMPenetration))
	if len(result.Yearly) > 1 {
		fmt.Fprintf(&buf, "Final year change:      %s\n", FormatPercentage(h.LastYearChange))
	}
	return buf.Bytes(), nil
}

func writeSummaryTable(buf *bytes.Buffer, rows []domain.PeriodSummary, total domain.PeriodSummary) {
	fmt.Fprintf(buf, "%-10s %16s %22s %18s %18s %16s %18s %9s\n", "Period", "Users", "Deposit", "Fees", "NII", "Default Loss", "Profit", "Change")
	for _, ps := range rows {
		fmt.Fprintf(buf, "%-10s %16s %22s %18s %18s %16s %18s %9s\n",
			ps.Label,
			FormatUsers(ps.Users),
			FormatCurrency(ps.Deposit),
			FormatCurrency(ps.FeeCollected),
			FormatCurrency(ps.NetInterestIncome),
			FormatCurrency(ps.DefaultLoss),
			FormatCurrency(ps.Profit),
			FormatPercentage(ps.ProfitChangePercent),
		)
	}
	fmt.Fprintf(buf, "%-10s %16s %22s %18s %18s %16s %18s\n",
		"TOTAL",
		FormatUsers(total.Users),
		FormatCurrency(total.Deposit),
		FormatCurrency(total.FeeCollected),
		FormatCurrency(total.NetInterestIncome),
		FormatCurrency(total.DefaultLoss),
		FormatCurrency(total.Profit),
	)
}

// ConsoleSummaryFormatter provides a concise console style summary via the formatter interface.
type ConsoleSummaryFormatter struct{}

func (c ConsoleSummaryFormatter) Name() string { return "console-lite" }

func (c ConsoleSummaryFormatter) Format(result *domain.ForecastResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s: %d months, %d rows, %d warnings\n", displayName(result), result.Horizon, len(result.Records), len(result.Warnings))
	fmt.Fprintf(&buf, "  Deposit=%s Fees=%s NII=%s Loss=%s Profit=%s\n",
		FormatCurrency(result.Totals.Deposit),
		FormatCurrency(result.Totals.FeeCollected),
		FormatCurrency(result.Totals.NetInterestIncome),
		FormatCurrency(result.Totals.DefaultLoss),
		FormatCurrency(result.Totals.Profit),
	)
	fmt.Fprintf(&buf, "  TAMUsed=%s of %s\n", FormatUsers(result.TAMUsed), FormatUsers(result.TAM))
	return buf.Bytes(), nil
}

func displayName(result *domain.ForecastResult) string {
	if result.Name == "" {
		return "Forecast"
	}
	return result.Name
}
