package domain

import (
	"github.com/shopspring/decimal"
)

// CellState labels a forecast row
type CellState string

const (
	CellActive  CellState = "Active"
	CellBlocked CellState = "Blocked"
)

// ForecastRecord is the outcome of one (month, duration, slab, slot) cell
type ForecastRecord struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Period   string          `json:"period"`
	Duration int             `json:"duration"`
	Slab     decimal.Decimal `json:"slab"`
	Slot     int             `json:"slot"`
	State    CellState       `json:"state"`
	Blocked  bool            `json:"blocked"`

	UsersInCell       decimal.Decimal `json:"users_in_cell"`
	FeePercent        decimal.Decimal `json:"fee_percent"`
	Deposit           decimal.Decimal `json:"deposit"`
	Payout            decimal.Decimal `json:"payout"`
	FeeCollected      decimal.Decimal `json:"fee_collected"`
	NetInterestIncome decimal.Decimal `json:"net_interest_income"`
	DefaultLoss       decimal.Decimal `json:"default_loss"`
	Refund            decimal.Decimal `json:"refund"` // cash-flow event, not deducted from profit
	Profit            decimal.Decimal `json:"profit"`
}

// PeriodSummary sums forecast records over one month or one year
type PeriodSummary struct {
	Period int    `json:"period"` // month index for monthly summaries, year index for yearly
	Label  string `json:"label,omitempty"`

	Users             decimal.Decimal `json:"users"`
	Deposit           decimal.Decimal `json:"deposit"`
	Payout            decimal.Decimal `json:"payout"`
	FeeCollected      decimal.Decimal `json:"fee_collected"`
	NetInterestIncome decimal.Decimal `json:"net_interest_income"`
	DefaultLoss       decimal.Decimal `json:"default_loss"`
	Refund            decimal.Decimal `json:"refund"`
	Profit            decimal.Decimal `json:"profit"`

	// ProfitChangePercent is the change against the previous period (MoM or YoY); zero for the first period
	ProfitChangePercent decimal.Decimal `json:"profit_change_percent"`
}

// Add accumulates one record into the summary
func (ps *PeriodSummary) Add(r ForecastRecord) {
	ps.Users = ps.Users.Add(r.UsersInCell)
	ps.Deposit = ps.Deposit.Add(r.Deposit)
	ps.Payout = ps.Payout.Add(r.Payout)
	ps.FeeCollected = ps.FeeCollected.Add(r.FeeCollected)
	ps.NetInterestIncome = ps.NetInterestIncome.Add(r.NetInterestIncome)
	ps.DefaultLoss = ps.DefaultLoss.Add(r.DefaultLoss)
	ps.Refund = ps.Refund.Add(r.Refund)
	ps.Profit = ps.Profit.Add(r.Profit)
}

// CohortFlow tracks the population movements of a single month
type CohortFlow struct {
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Period string `json:"period"`

	NewUsers       decimal.Decimal `json:"new_users"`
	RejoiningUsers decimal.Decimal `json:"rejoining_users"`
	Admitted       decimal.Decimal `json:"admitted"`
	Enrolled       decimal.Decimal `json:"enrolled"` // mass actually placed into the allocation matrix
	Completing     decimal.Decimal `json:"completing"`
	ActiveMembers  decimal.Decimal `json:"active_members"`
	RestingMembers decimal.Decimal `json:"resting_members"`
	Population     decimal.Decimal `json:"population"` // growth base carried into the next month
	TAMUsed        decimal.Decimal `json:"tam_used"`
	TAMHeadroom    decimal.Decimal `json:"tam_headroom"`
}

// ForecastResult is everything one run hands to its host
type ForecastResult struct {
	Name          string                 `json:"name,omitempty"`
	TAM           decimal.Decimal        `json:"tam"`
	StartingUsers decimal.Decimal        `json:"starting_users"`
	TAMUsed       decimal.Decimal        `json:"tam_used"`
	Horizon       int                    `json:"horizon"`
	Records       []ForecastRecord       `json:"records"`
	Monthly       []PeriodSummary        `json:"monthly"`
	Yearly        []PeriodSummary        `json:"yearly"`
	Flows         []CohortFlow           `json:"flows"`
	Warnings      []ConfigurationWarning `json:"warnings"`
	Totals        PeriodSummary          `json:"totals"`
	Assumptions   []string               `json:"assumptions,omitempty"`

	// RejoinSchedule is indexed by absolute month; entries past the horizon are rejoins that fall outside the run
	RejoinSchedule []decimal.Decimal `json:"rejoin_schedule"`
}

// RecordsForMonth returns the rows emitted for month m
func (fr *ForecastResult) RecordsForMonth(m int) []ForecastRecord {
	var out []ForecastRecord
	for _, r := range fr.Records {
		if r.Month == m {
			out = append(out, r)
		}
	}
	return out
}

// ScenarioSummary condenses one forecast run for comparison
type ScenarioSummary struct {
	Name            string          `json:"name"`
	TAM             decimal.Decimal `json:"tam"`
	TAMUsed         decimal.Decimal `json:"tam_used"`
	TotalDeposit    decimal.Decimal `json:"total_deposit"`
	TotalFees       decimal.Decimal `json:"total_fees"`
	TotalNII        decimal.Decimal `json:"total_nii"`
	TotalLoss       decimal.Decimal `json:"total_loss"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	FinalYearProfit decimal.Decimal `json:"final_year_profit"`
	PeakMonth       int             `json:"peak_month"`
	WarningCount    int             `json:"warning_count"`
	Result          *ForecastResult `json:"-"`
}

// ScenarioComparison ranks several independent runs
type ScenarioComparison struct {
	Scenarios              []ScenarioSummary `json:"scenarios"`
	BestScenarioForProfit  string            `json:"best_scenario_for_profit"`
	BestScenarioForDeposit string            `json:"best_scenario_for_deposit"`
}
