package output

import (
	"strconv"

	"github.com/rosca/committee-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every rendered amount.
var CurrencySymbol = "Rs "

// FormatCurrency formats a decimal as currency with thousands separators and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format(CurrencySymbol)
}

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatUsers formats a fractional population with thousands separators.
func FormatUsers(users decimal.Decimal) string {
	return money.NewMoneyFromDecimal(users).Grouped()
}

func intToString(v int) string { return strconv.Itoa(v) }

func boolToString(v bool) string { return strconv.FormatBool(v) }
