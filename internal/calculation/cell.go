package calculation

import (
	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/rosca/committee-forecast/pkg/dateutil"
	"github.com/rosca/committee-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

// refundWindow is the number of months after a cycle boundary (m mod d) in which early exits are refunded
const refundWindow = 2

// CellPolicy holds the per-run pricing rules applied to every cell
type CellPolicy struct {
	FanOut          domain.FanOutMode
	FeeUpfront      bool
	LossBasis       domain.DefaultLossBasis
	MonthlyNIIRate  decimal.Decimal // (kibor + spread) / 100 / 12
	DefaultFraction decimal.Decimal // default_rate / 100
	RefundFraction  decimal.Decimal // 1 - default_penalty_percent / 100
}

// NewCellPolicy derives the cell policy from a configuration
func NewCellPolicy(cfg *domain.Configuration) CellPolicy {
	p := cfg.Pricing
	return CellPolicy{
		FanOut:          cfg.Lifecycle.FanOutMode,
		FeeUpfront:      p.FeeUpfront,
		LossBasis:       p.DefaultLossBasis,
		MonthlyNIIRate:  money.MonthlyRate(p.KIBOR.Add(p.Spread)),
		DefaultFraction: money.Percent(p.DefaultRate),
		RefundFraction:  decimal.NewFromInt(1).Sub(money.Percent(p.DefaultPenaltyPercent)),
	}
}

// UsersPerSlot returns the population a single slot receives from a slab's mass
func (p CellPolicy) UsersPerSlot(usersSlab decimal.Decimal, duration int) decimal.Decimal {
	if duration <= 0 {
		return decimal.Zero
	}
	if p.FanOut == domain.FanOutIndependent {
		return usersSlab
	}
	return usersSlab.Div(decimal.NewFromInt(int64(duration)))
}

// ComputeCell produces the forecast row for one slot of a (duration, slab) mass in month m
func (p CellPolicy) ComputeCell(m, duration int, slab decimal.Decimal, terms SlotTerms, usersSlab decimal.Decimal) domain.ForecastRecord {
	rec := domain.ForecastRecord{
		Month:    m,
		Year:     dateutil.YearOfMonth(m),
		Duration: duration,
		Slab:     slab,
		Slot:     terms.Slot,
		Blocked:  terms.Blocked,
	}
	if terms.Blocked {
		rec.State = domain.CellBlocked
		return rec
	}
	rec.State = domain.CellActive

	users := money.NonNegative(p.UsersPerSlot(usersSlab, duration))
	deposit := users.Mul(slab).Mul(decimal.NewFromInt(int64(duration)))
	payout := users.Mul(slab) // one slab-unit lump sum per member

	feeBase := payout
	if p.FeeUpfront {
		feeBase = deposit
	}
	lossBase := payout
	if p.LossBasis == domain.DefaultLossOnDeposit {
		lossBase = deposit
	}

	rec.UsersInCell = users
	rec.FeePercent = terms.FeePercent
	rec.Deposit = deposit
	rec.Payout = payout
	rec.FeeCollected = money.OfPercent(feeBase, terms.FeePercent)
	rec.NetInterestIncome = deposit.Mul(p.MonthlyNIIRate)
	rec.DefaultLoss = lossBase.Mul(p.DefaultFraction)
	if dateutil.CyclePosition(m, duration) < refundWindow {
		rec.Refund = deposit.Mul(p.RefundFraction)
	}
	rec.Profit = rec.FeeCollected.Add(rec.NetInterestIncome).Sub(rec.DefaultLoss)
	return rec
}

// cellGroup is the mass of one (duration, slab) pair in a month, spread across that duration's slots
type cellGroup struct {
	committee *ResolvedCommittee
	slab      decimal.Decimal
	users     decimal.Decimal
	offset    int // first row of the group in the month's row slice
}

// fill writes one row per slot into rows[g.offset : g.offset+duration]
func (p CellPolicy) fill(m int, period string, g cellGroup, rows []domain.ForecastRecord) {
	for i, terms := range g.committee.Slots {
		rec := p.ComputeCell(m, g.committee.Duration, g.slab, terms, g.users)
		rec.Period = period
		rows[g.offset+i] = rec
	}
}
