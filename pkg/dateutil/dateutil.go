package dateutil

import (
	"fmt"
	"time"
)

// MonthsPerYear is the number of forecast months folded into one forecast year
const MonthsPerYear = 12

// YearOfMonth returns the 1-based forecast year containing the 1-based month m
func YearOfMonth(m int) int {
	if m < 1 {
		return 0
	}
	return (m-1)/MonthsPerYear + 1
}

// MonthsInYear returns the first and last month index of forecast year y
func MonthsInYear(y int) (first, last int) {
	first = (y-1)*MonthsPerYear + 1
	return first, first + MonthsPerYear - 1
}

// MonthDate returns the first day of forecast month m when month 1 starts at start.
// The zero time is returned when start is zero.
func MonthDate(start time.Time, m int) time.Time {
	if start.IsZero() {
		return time.Time{}
	}
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, m-1, 0)
}

// PeriodLabel renders month m as "Jan 2025" when a start is known, else "M01"
func PeriodLabel(start time.Time, m int) string {
	if start.IsZero() {
		return fmt.Sprintf("M%02d", m)
	}
	return MonthDate(start, m).Format("Jan 2006")
}

// CyclePosition returns m mod duration, the position of month m relative to committee cycle boundaries
func CyclePosition(m, duration int) int {
	if duration <= 0 {
		return 0
	}
	return m % duration
}
