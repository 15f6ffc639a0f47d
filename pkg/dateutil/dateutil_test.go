package dateutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearOfMonth(t *testing.T) {
	tests := []struct {
		month int
		want  int
	}{
		{0, 0},
		{1, 1},
		{12, 1},
		{13, 2},
		{24, 2},
		{25, 3},
		{60, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, YearOfMonth(tt.month), "month %d", tt.month)
	}
}

func TestMonthsInYear(t *testing.T) {
	first, last := MonthsInYear(1)
	assert.Equal(t, 1, first)
	assert.Equal(t, 12, last)

	first, last = MonthsInYear(5)
	assert.Equal(t, 49, first)
	assert.Equal(t, 60, last)
}

func TestMonthDate(t *testing.T) {
	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), MonthDate(start, 1))
	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), MonthDate(start, 14))
	assert.True(t, MonthDate(time.Time{}, 3).IsZero())
}

func TestPeriodLabel(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jan 2025", PeriodLabel(start, 1))
	assert.Equal(t, "Dec 2029", PeriodLabel(start, 60))
	assert.Equal(t, "M07", PeriodLabel(time.Time{}, 7))
}

func TestCyclePosition(t *testing.T) {
	assert.Equal(t, 1, CyclePosition(4, 3))
	assert.Equal(t, 0, CyclePosition(6, 3))
	assert.Equal(t, 0, CyclePosition(5, 0))
}
