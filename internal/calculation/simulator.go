package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/rosca/committee-forecast/internal/domain"
	"github.com/rosca/committee-forecast/pkg/dateutil"
	"github.com/rosca/committee-forecast/pkg/money"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// simulationState is the mutable state of a single run. It is owned by one Simulator.Run call.
type simulationState struct {
	currentPopulation decimal.Decimal // growth base for the next month
	stock             decimal.Decimal // running population, compounding_stock only
	tamUsed           decimal.Decimal
	active            decimal.Decimal
	resting           decimal.Decimal

	rejoinSchedule     []decimal.Decimal // month -> mass re-entering that month
	completionSchedule []decimal.Decimal // month -> mass finishing its cycle that month
}

func newSimulationState(horizon, maxDuration, rest int) *simulationState {
	size := horizon + maxDuration + rest + 1
	return &simulationState{
		rejoinSchedule:     make([]decimal.Decimal, size),
		completionSchedule: make([]decimal.Decimal, size),
	}
}

// Simulator runs the month-by-month cohort lifecycle over a resolved allocation matrix
type Simulator struct {
	cfg     *domain.Configuration
	matrix  *AllocationMatrix
	policy  CellPolicy
	start   time.Time
	tam     decimal.Decimal
	initial decimal.Decimal
	Workers int
	Logger  Logger
}

// NewSimulator prepares a simulator. cfg must already carry defaults and pass validation.
func NewSimulator(cfg *domain.Configuration, matrix *AllocationMatrix) (*Simulator, error) {
	start, err := cfg.Lifecycle.StartDate()
	if err != nil {
		return nil, fmt.Errorf("invalid start month: %w", err)
	}
	return &Simulator{
		cfg:     cfg,
		matrix:  matrix,
		policy:  NewCellPolicy(cfg),
		start:   start,
		tam:     money.NonNegative(cfg.Market.TAM()),
		initial: money.NonNegative(cfg.Market.StartingUsers()),
		Workers: 1,
		Logger:  NopLogger{},
	}, nil
}

// Run simulates every month of the horizon. The context is checked between months;
// a cancelled run returns no partial result.
func (s *Simulator) Run(ctx context.Context) (*domain.ForecastResult, error) {
	horizon := s.cfg.Lifecycle.Horizon()
	st := newSimulationState(horizon, s.matrix.MaxDuration(), s.cfg.Lifecycle.RestPeriodMonths)

	result := &domain.ForecastResult{
		Name:          s.cfg.Name,
		TAM:           s.tam,
		StartingUsers: s.initial,
		Horizon:       horizon,
		Flows:         make([]domain.CohortFlow, 0, horizon),
	}

	for m := 1; m <= horizon; m++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("forecast cancelled before month %d: %w", m, err)
		}
		rows, flow, err := s.step(ctx, st, m)
		if err != nil {
			return nil, err
		}
		result.Records = append(result.Records, rows...)
		result.Flows = append(result.Flows, flow)
	}

	result.TAMUsed = st.tamUsed
	result.RejoinSchedule = st.rejoinSchedule
	return result, nil
}

// step advances the state by one month and returns the month's rows and cohort flow
func (s *Simulator) step(ctx context.Context, st *simulationState, m int) ([]domain.ForecastRecord, domain.CohortFlow, error) {
	newUsers := s.growth(st, m)
	rejoining := st.rejoinSchedule[m]

	var admitted decimal.Decimal
	if s.cfg.Growth.Model == domain.GrowthCompoundingStock {
		st.stock = money.NonNegative(st.stock.Add(newUsers).Add(rejoining))
		admitted = st.stock
	} else {
		admitted = money.NonNegative(newUsers.Add(rejoining))
	}

	groups, enrolled, rowCount := s.fanOut(st, m, admitted)
	rows := make([]domain.ForecastRecord, rowCount)
	if err := s.computeCells(ctx, m, groups, rows); err != nil {
		return nil, domain.CohortFlow{}, err
	}

	completing := st.completionSchedule[m]
	st.active = money.NonNegative(st.active.Add(enrolled).Sub(completing))
	st.resting = money.NonNegative(st.resting.Add(completing).Sub(rejoining))
	st.currentPopulation = admitted

	s.Logger.Debugf("month %d: new=%s rejoining=%s admitted=%s tam_used=%s rows=%d",
		m, newUsers.StringFixed(2), rejoining.StringFixed(2), admitted.StringFixed(2), st.tamUsed.StringFixed(2), rowCount)

	flow := domain.CohortFlow{
		Month:          m,
		Year:           dateutil.YearOfMonth(m),
		Period:         dateutil.PeriodLabel(s.start, m),
		NewUsers:       newUsers,
		RejoiningUsers: rejoining,
		Admitted:       admitted,
		Enrolled:       enrolled,
		Completing:     completing,
		ActiveMembers:  st.active,
		RestingMembers: st.resting,
		Population:     st.currentPopulation,
		TAMUsed:        st.tamUsed,
		TAMHeadroom:    s.tam.Sub(st.tamUsed),
	}
	return rows, flow, nil
}

// growth returns the new users admitted in month m, clamped to the remaining TAM headroom
func (s *Simulator) growth(st *simulationState, m int) decimal.Decimal {
	var g decimal.Decimal
	if m == 1 {
		g = s.initial
	} else {
		g = st.currentPopulation.Mul(s.cfg.Growth.MonthlyRate)
		if s.cfg.Growth.IsBumpMonth(m) {
			g = g.Add(s.tam.Mul(s.cfg.Growth.YearlyBumpRate))
		}
	}
	g = money.Max(decimal.Zero, money.Min(g, s.tam.Sub(st.tamUsed)))
	st.tamUsed = st.tamUsed.Add(g)
	return g
}

// fanOut splits the admitted mass across the matrix and records future completions and rejoins.
// It runs sequentially so schedule writes never race with cell computation.
func (s *Simulator) fanOut(st *simulationState, m int, admitted decimal.Decimal) ([]cellGroup, decimal.Decimal, int) {
	rest := s.cfg.Lifecycle.RestPeriodMonths
	var groups []cellGroup
	enrolled := decimal.Zero
	rows := 0

	for i := range s.matrix.Committees {
		rc := &s.matrix.Committees[i]
		if !rc.Share.IsPositive() || len(rc.Slabs) == 0 {
			continue
		}
		usersD := admitted.Mul(money.Percent(rc.Share))
		for _, share := range rc.Slabs {
			usersSlab := usersD.Mul(money.Percent(share.Percent))
			enrolled = enrolled.Add(usersSlab)

			if idx := m + rc.Duration; idx < len(st.completionSchedule) {
				st.completionSchedule[idx] = st.completionSchedule[idx].Add(usersSlab)
			}
			if idx := m + rc.Duration + rest; idx < len(st.rejoinSchedule) {
				st.rejoinSchedule[idx] = st.rejoinSchedule[idx].Add(usersSlab)
			}

			groups = append(groups, cellGroup{committee: rc, slab: share.Slab, users: usersSlab, offset: rows})
			rows += len(rc.Slots)
		}
	}
	return groups, enrolled, rows
}

// computeCells fills rows for every group. With more than one worker the groups are computed
// concurrently; each group owns a disjoint range of rows.
func (s *Simulator) computeCells(ctx context.Context, m int, groups []cellGroup, rows []domain.ForecastRecord) error {
	period := dateutil.PeriodLabel(s.start, m)
	if s.Workers <= 1 || len(groups) < 2 {
		for _, g := range groups {
			s.policy.fill(m, period, g, rows)
		}
		return nil
	}

	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(s.Workers)
	for _, g := range groups {
		g := g
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			s.policy.fill(m, period, g, rows)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("month %d cell computation: %w", m, err)
	}
	return nil
}
