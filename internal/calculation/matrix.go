package calculation

import (
	"fmt"
	"sort"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// SlotTerms are the resolved fee and availability of one payout slot
type SlotTerms struct {
	Slot       int             `json:"slot"`
	FeePercent decimal.Decimal `json:"fee_percent"`
	Blocked    bool            `json:"blocked"`
}

// ResolvedCommittee is one duration of the allocation matrix, ready for the simulator
type ResolvedCommittee struct {
	Duration int                `json:"duration"`
	Share    decimal.Decimal    `json:"share"` // percent of each month's admitted population
	Slabs    []domain.SlabShare `json:"slabs"` // nonzero shares only, ascending by slab
	Slots    []SlotTerms        `json:"slots"` // Slots[i] describes slot i+1
}

// Slot returns the terms of slot s (1-based)
func (rc ResolvedCommittee) Slot(s int) (SlotTerms, bool) {
	if s < 1 || s > len(rc.Slots) {
		return SlotTerms{}, false
	}
	return rc.Slots[s-1], true
}

// OpenSlots counts the unblocked slots
func (rc ResolvedCommittee) OpenSlots() int {
	n := 0
	for _, st := range rc.Slots {
		if !st.Blocked {
			n++
		}
	}
	return n
}

// AllocationMatrix is the validated duration × slab × slot lookup consumed by the simulator
type AllocationMatrix struct {
	Committees []ResolvedCommittee `json:"committees"` // ascending by duration
	byDuration map[int]int
}

// Committee looks up the resolved committee for duration d
func (am *AllocationMatrix) Committee(d int) (ResolvedCommittee, bool) {
	i, ok := am.byDuration[d]
	if !ok {
		return ResolvedCommittee{}, false
	}
	return am.Committees[i], true
}

// Slot looks up the terms of slot s in duration d
func (am *AllocationMatrix) Slot(d, s int) (SlotTerms, bool) {
	rc, ok := am.Committee(d)
	if !ok {
		return SlotTerms{}, false
	}
	return rc.Slot(s)
}

// Durations returns the resolved durations in ascending order
func (am *AllocationMatrix) Durations() []int {
	out := make([]int, len(am.Committees))
	for i, rc := range am.Committees {
		out[i] = rc.Duration
	}
	return out
}

// MaxDuration returns the longest resolved duration, or 0 when none are offered
func (am *AllocationMatrix) MaxDuration() int {
	if len(am.Committees) == 0 {
		return 0
	}
	return am.Committees[len(am.Committees)-1].Duration
}

// ResolveMatrix validates the configuration and builds the allocation matrix.
// Groups whose shares do not total 100 are returned as warnings; they never fail the resolution.
func ResolveMatrix(cfg *domain.Configuration) (*AllocationMatrix, []domain.ConfigurationWarning, error) {
	if cfg == nil {
		return nil, nil, &domain.ConfigurationError{Scope: "configuration", Reason: "is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	committees := append([]domain.CommitteeConfig(nil), cfg.Committees...)
	sort.Slice(committees, func(i, j int) bool { return committees[i].Duration < committees[j].Duration })

	am := &AllocationMatrix{
		Committees: make([]ResolvedCommittee, 0, len(committees)),
		byDuration: make(map[int]int, len(committees)),
	}
	var warnings []domain.ConfigurationWarning

	durationTotal := decimal.Zero
	for _, cc := range committees {
		durationTotal = durationTotal.Add(cc.AllocationPercent)
	}
	if len(committees) > 0 && !durationTotal.Equal(decimalHundred) {
		warnings = append(warnings, domain.ConfigurationWarning{Scope: "durations", ActualTotal: durationTotal})
	}

	for _, cc := range committees {
		rc := ResolvedCommittee{
			Duration: cc.Duration,
			Share:    cc.AllocationPercent,
			Slots:    make([]SlotTerms, cc.Duration),
		}

		slabTotal := decimal.Zero
		for _, share := range cc.SlabAllocation {
			slabTotal = slabTotal.Add(share.Percent)
			if share.Percent.IsPositive() {
				rc.Slabs = append(rc.Slabs, share)
			}
		}
		sort.Slice(rc.Slabs, func(i, j int) bool { return rc.Slabs[i].Slab.LessThan(rc.Slabs[j].Slab) })
		if !slabTotal.Equal(decimalHundred) {
			warnings = append(warnings, domain.ConfigurationWarning{
				Scope:       fmt.Sprintf("duration %d slabs", cc.Duration),
				ActualTotal: slabTotal,
			})
		}

		for s := 1; s <= cc.Duration; s++ {
			setting := cc.Slots[s] // a missing slot is open with no fee
			rc.Slots[s-1] = SlotTerms{Slot: s, FeePercent: setting.FeePercent, Blocked: setting.Blocked}
		}

		am.byDuration[cc.Duration] = len(am.Committees)
		am.Committees = append(am.Committees, rc)
	}

	return am, warnings, nil
}
