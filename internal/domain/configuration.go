package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// FanOutMode selects how a slab's population is placed into the slots of its committee
type FanOutMode string

const (
	// FanOutEvenSplit divides a slab's mass equally across the duration's slots
	FanOutEvenSplit FanOutMode = "even_split"
	// FanOutIndependent places the full slab mass into every slot
	FanOutIndependent FanOutMode = "independent_per_slot"
)

// GrowthModel selects how the monthly growth base evolves
type GrowthModel string

const (
	// GrowthFreshInflow admits only this month's new and rejoining users; next month grows off that inflow
	GrowthFreshInflow GrowthModel = "fresh_inflow"
	// GrowthCompoundingStock carries a running population stock forward and admits all of it each month
	GrowthCompoundingStock GrowthModel = "compounding_stock"
)

// DefaultLossBasis selects the exposure that the default rate is applied against
type DefaultLossBasis string

const (
	DefaultLossOnPayout  DefaultLossBasis = "payout"
	DefaultLossOnDeposit DefaultLossBasis = "deposit"
)

// Defaults applied when the corresponding field is omitted
const (
	DefaultHorizonMonths      = 60
	DefaultYearlyBumpInterval = 12
)

// MarketAssumptions sizes the addressable market and the month-1 user base
type MarketAssumptions struct {
	TotalMarket      decimal.Decimal `yaml:"total_market" json:"total_market"`
	TAMPercent       decimal.Decimal `yaml:"tam_percent" json:"tam_percent"`
	StartUserPercent decimal.Decimal `yaml:"start_user_percent" json:"start_user_percent"`
}

// TAM returns the addressable ceiling on cumulative new admissions
func (m MarketAssumptions) TAM() decimal.Decimal {
	return m.TotalMarket.Mul(m.TAMPercent).Div(decimal.NewFromInt(100))
}

// StartingUsers returns the users admitted as new in month 1
func (m MarketAssumptions) StartingUsers() decimal.Decimal {
	return m.TAM().Mul(m.StartUserPercent).Div(decimal.NewFromInt(100))
}

// GrowthAssumptions controls organic growth and the anniversary bump
type GrowthAssumptions struct {
	MonthlyRate        decimal.Decimal `yaml:"monthly_rate" json:"monthly_rate"`                   // fractional, 0.02 = 2%
	YearlyBumpRate     decimal.Decimal `yaml:"yearly_bump_rate" json:"yearly_bump_rate"`           // fractional share of TAM
	YearlyBumpInterval int             `yaml:"yearly_bump_interval,omitempty" json:"yearly_bump_interval,omitempty"`
	Model              GrowthModel     `yaml:"model,omitempty" json:"model,omitempty"`
}

// IsBumpMonth reports whether the anniversary bump applies in month m (13, 25, ... for a 12 month interval)
func (g GrowthAssumptions) IsBumpMonth(m int) bool {
	if g.YearlyBumpInterval <= 0 || m <= 1 {
		return false
	}
	return (m-1)%g.YearlyBumpInterval == 0
}

// PricingAssumptions holds the rates and fee policy applied to each cell. Rates are percents.
type PricingAssumptions struct {
	KIBOR                 decimal.Decimal  `yaml:"kibor" json:"kibor"`
	Spread                decimal.Decimal  `yaml:"spread" json:"spread"`
	DefaultRate           decimal.Decimal  `yaml:"default_rate" json:"default_rate"`
	DefaultPenaltyPercent decimal.Decimal  `yaml:"default_penalty_percent" json:"default_penalty_percent"`
	FeeUpfront            bool             `yaml:"fee_upfront" json:"fee_upfront"`
	DefaultLossBasis      DefaultLossBasis `yaml:"default_loss_basis,omitempty" json:"default_loss_basis,omitempty"`
}

// LifecycleSettings holds timing and fan-out policy for a run
type LifecycleSettings struct {
	RestPeriodMonths int        `yaml:"rest_period_months" json:"rest_period_months"`
	HorizonMonths    *int       `yaml:"horizon_months,omitempty" json:"horizon_months,omitempty"` // nil means DefaultHorizonMonths
	FanOutMode       FanOutMode `yaml:"fan_out_mode,omitempty" json:"fan_out_mode,omitempty"`
	StartMonth       string     `yaml:"start_month,omitempty" json:"start_month,omitempty"` // YYYY-MM label for month 1
}

// Horizon returns the number of simulated months
func (l LifecycleSettings) Horizon() int {
	if l.HorizonMonths == nil {
		return DefaultHorizonMonths
	}
	return *l.HorizonMonths
}

// StartDate parses StartMonth; the zero time is returned when unset
func (l LifecycleSettings) StartDate() (time.Time, error) {
	if l.StartMonth == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01", l.StartMonth)
}

// SlabShare is the share of a committee's population contributing a given slab
type SlabShare struct {
	Slab    decimal.Decimal `yaml:"slab" json:"slab"`
	Percent decimal.Decimal `yaml:"percent" json:"percent"`
}

// SlotSetting holds the per-slot fee and availability
type SlotSetting struct {
	FeePercent decimal.Decimal `yaml:"fee_percent" json:"fee_percent"`
	Blocked    bool            `yaml:"blocked,omitempty" json:"blocked,omitempty"`
}

// CommitteeConfig describes one offered committee duration and its allocation
type CommitteeConfig struct {
	Duration          int                 `yaml:"duration" json:"duration"`
	AllocationPercent decimal.Decimal     `yaml:"allocation_percent" json:"allocation_percent"`
	SlabAllocation    []SlabShare         `yaml:"slab_allocation" json:"slab_allocation"`
	Slots             map[int]SlotSetting `yaml:"slots,omitempty" json:"slots,omitempty"`
}

// SlotNumbers returns the configured slot indexes in ascending order
func (cc CommitteeConfig) SlotNumbers() []int {
	out := make([]int, 0, len(cc.Slots))
	for slot := range cc.Slots {
		out = append(out, slot)
	}
	sort.Ints(out)
	return out
}

// Configuration is the complete, immutable input of one forecast run
type Configuration struct {
	Name       string             `yaml:"name,omitempty" json:"name,omitempty"`
	Market     MarketAssumptions  `yaml:"market" json:"market"`
	Growth     GrowthAssumptions  `yaml:"growth" json:"growth"`
	Pricing    PricingAssumptions `yaml:"pricing" json:"pricing"`
	Lifecycle  LifecycleSettings  `yaml:"lifecycle" json:"lifecycle"`
	Slabs      []decimal.Decimal  `yaml:"slabs" json:"slabs"`
	Committees []CommitteeConfig  `yaml:"committees" json:"committees"`
}

// ApplyDefaults fills omitted policy fields with their canonical values
func (c *Configuration) ApplyDefaults() {
	if c.Growth.Model == "" {
		c.Growth.Model = GrowthFreshInflow
	}
	if c.Growth.YearlyBumpInterval == 0 {
		c.Growth.YearlyBumpInterval = DefaultYearlyBumpInterval
	}
	if c.Pricing.DefaultLossBasis == "" {
		c.Pricing.DefaultLossBasis = DefaultLossOnPayout
	}
	if c.Lifecycle.FanOutMode == "" {
		c.Lifecycle.FanOutMode = FanOutEvenSplit
	}
	if c.Lifecycle.HorizonMonths == nil {
		h := DefaultHorizonMonths
		c.Lifecycle.HorizonMonths = &h
	}
}

// Durations returns the offered committee durations in configuration order
func (c *Configuration) Durations() []int {
	out := make([]int, 0, len(c.Committees))
	for _, cc := range c.Committees {
		out = append(out, cc.Duration)
	}
	return out
}

// NamedConfiguration pairs a configuration with the scenario name it is compared under
type NamedConfiguration struct {
	Name   string
	Config *Configuration
}
