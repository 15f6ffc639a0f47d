package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Validate reports the first fatal problem in the configuration. Allocation totals
// that miss 100 are not errors here; they surface as warnings when the matrix is resolved.
func (c *Configuration) Validate() error {
	if err := c.validateMarket(); err != nil {
		return err
	}
	if err := c.validateGrowth(); err != nil {
		return err
	}
	if err := c.validatePricing(); err != nil {
		return err
	}
	if err := c.validateLifecycle(); err != nil {
		return err
	}
	if err := c.validateSlabs(); err != nil {
		return err
	}
	return c.validateCommittees()
}

func (c *Configuration) validateMarket() error {
	m := c.Market
	if m.TotalMarket.IsNegative() {
		return configErrorf("market.total_market", "cannot be negative, got %s", m.TotalMarket)
	}
	if err := percentInRange("market.tam_percent", m.TAMPercent); err != nil {
		return err
	}
	return percentInRange("market.start_user_percent", m.StartUserPercent)
}

func (c *Configuration) validateGrowth() error {
	g := c.Growth
	if g.MonthlyRate.IsNegative() {
		return configErrorf("growth.monthly_rate", "cannot be negative, got %s", g.MonthlyRate)
	}
	if g.YearlyBumpRate.IsNegative() {
		return configErrorf("growth.yearly_bump_rate", "cannot be negative, got %s", g.YearlyBumpRate)
	}
	if g.YearlyBumpInterval < 0 {
		return configErrorf("growth.yearly_bump_interval", "cannot be negative, got %d", g.YearlyBumpInterval)
	}
	switch g.Model {
	case "", GrowthFreshInflow, GrowthCompoundingStock:
	default:
		return configErrorf("growth.model", "must be %q or %q, got %q", GrowthFreshInflow, GrowthCompoundingStock, g.Model)
	}
	return nil
}

func (c *Configuration) validatePricing() error {
	p := c.Pricing
	rates := []struct {
		scope string
		value decimal.Decimal
	}{
		{"pricing.kibor", p.KIBOR},
		{"pricing.spread", p.Spread},
		{"pricing.default_rate", p.DefaultRate},
	}
	for _, r := range rates {
		if r.value.IsNegative() {
			return configErrorf(r.scope, "cannot be negative, got %s", r.value)
		}
	}
	if err := percentInRange("pricing.default_penalty_percent", p.DefaultPenaltyPercent); err != nil {
		return err
	}
	switch p.DefaultLossBasis {
	case "", DefaultLossOnPayout, DefaultLossOnDeposit:
	default:
		return configErrorf("pricing.default_loss_basis", "must be %q or %q, got %q", DefaultLossOnPayout, DefaultLossOnDeposit, p.DefaultLossBasis)
	}
	return nil
}

func (c *Configuration) validateLifecycle() error {
	l := c.Lifecycle
	if l.RestPeriodMonths < 0 {
		return configErrorf("lifecycle.rest_period_months", "cannot be negative, got %d", l.RestPeriodMonths)
	}
	if l.Horizon() < 0 {
		return configErrorf("lifecycle.horizon_months", "cannot be negative, got %d", l.Horizon())
	}
	switch l.FanOutMode {
	case "", FanOutEvenSplit, FanOutIndependent:
	default:
		return configErrorf("lifecycle.fan_out_mode", "must be %q or %q, got %q", FanOutEvenSplit, FanOutIndependent, l.FanOutMode)
	}
	if _, err := l.StartDate(); err != nil {
		return configErrorf("lifecycle.start_month", "must be formatted YYYY-MM, got %q", l.StartMonth)
	}
	return nil
}

func (c *Configuration) validateSlabs() error {
	for i, s := range c.Slabs {
		if !s.IsPositive() {
			return configErrorf(fmt.Sprintf("slabs[%d]", i), "slab amount must be positive, got %s", s)
		}
		for j := 0; j < i; j++ {
			if c.Slabs[j].Equal(s) {
				return configErrorf(fmt.Sprintf("slabs[%d]", i), "slab %s is listed more than once", s)
			}
		}
	}
	return nil
}

func (c *Configuration) validateCommittees() error {
	seen := make(map[int]bool, len(c.Committees))
	for i, cc := range c.Committees {
		scope := fmt.Sprintf("committees[%d]", i)
		if cc.Duration < 1 {
			return configErrorf(scope, "duration must be at least 1 month, got %d", cc.Duration)
		}
		if seen[cc.Duration] {
			return configErrorf(scope, "duration %d is configured more than once", cc.Duration)
		}
		seen[cc.Duration] = true
		scope = fmt.Sprintf("duration %d", cc.Duration)

		if cc.AllocationPercent.IsNegative() {
			return configErrorf(scope, "allocation_percent cannot be negative, got %s", cc.AllocationPercent)
		}
		for j, share := range cc.SlabAllocation {
			if !c.offersSlab(share.Slab) {
				return configErrorf(scope, "slab_allocation references slab %s which is not offered", share.Slab)
			}
			if share.Percent.IsNegative() {
				return configErrorf(scope, "slab %s share cannot be negative, got %s", share.Slab, share.Percent)
			}
			for k := 0; k < j; k++ {
				if cc.SlabAllocation[k].Slab.Equal(share.Slab) {
					return configErrorf(scope, "slab %s is allocated more than once", share.Slab)
				}
			}
		}
		for _, slot := range cc.SlotNumbers() {
			setting := cc.Slots[slot]
			if slot < 1 || slot > cc.Duration {
				return configErrorf(scope, "slot %d is outside 1..%d", slot, cc.Duration)
			}
			if err := percentInRange(fmt.Sprintf("duration %d slot %d fee_percent", cc.Duration, slot), setting.FeePercent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Configuration) offersSlab(amount decimal.Decimal) bool {
	for _, s := range c.Slabs {
		if s.Equal(amount) {
			return true
		}
	}
	return false
}

func percentInRange(scope string, p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return configErrorf(scope, "must be between 0 and 100, got %s", p)
	}
	return nil
}
