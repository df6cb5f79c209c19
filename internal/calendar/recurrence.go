package calendar

import (
	"fmt"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
)

// HorizonMonths is the number of calendar months, counting the current one,
// over which income schedules are materialized.
const HorizonMonths = 3

// Stepper computes the n-th occurrence of a schedule that starts on start.
// Occurrence 0 is start itself.
type Stepper interface {
	Occurrence(start time.Time, n int) time.Time
}

// DayStepper advances a fixed number of days per occurrence
type DayStepper struct {
	Days int
}

// Occurrence returns start moved forward n*Days days
func (s DayStepper) Occurrence(start time.Time, n int) time.Time {
	return start.AddDate(0, 0, n*s.Days)
}

// MonthStepper advances one calendar month per occurrence, keeping the day of
// month of start and clamping it to the last day of shorter months.
// A schedule starting Jan 31 therefore pays Feb 29, Mar 31, Apr 30.
type MonthStepper struct{}

// Occurrence returns start moved forward n calendar months
func (MonthStepper) Occurrence(start time.Time, n int) time.Time {
	return addMonthsClamped(start, n)
}

var steppers = map[models.Frequency]Stepper{
	models.Weekly:   DayStepper{Days: 7},
	models.BiWeekly: DayStepper{Days: 14},
	models.Monthly:  MonthStepper{},
}

// StepperFor returns the stepper of a frequency
func StepperFor(freq models.Frequency) (Stepper, error) {
	s, ok := steppers[freq]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %q", freq)
	}
	return s, nil
}

// Horizon returns the last day of the window that starts in now's month and
// spans HorizonMonths calendar months, at midnight in now's location.
func Horizon(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month()+HorizonMonths, 0, 0, 0, 0, 0, now.Location())
}

// Expand returns the occurrences of a schedule starting on start that fall in
// the window [first day of now's month, Horizon(now)]. Occurrences before the
// window are skipped, so a schedule started years ago still yields at most
// one window of dates. A start beyond the horizon yields no dates.
func Expand(start time.Time, freq models.Frequency, now time.Time) ([]time.Time, error) {
	stepper, err := StepperFor(freq)
	if err != nil {
		return nil, err
	}

	start = startOfDay(start)
	from := startOfMonth(now)
	until := Horizon(now)

	n := 0
	if ds, ok := stepper.(DayStepper); ok && start.Before(from) {
		// Jump close to the window instead of walking every past occurrence.
		n = daysBetween(start, from) / ds.Days
	}

	var dates []time.Time
	for ; ; n++ {
		d := stepper.Occurrence(start, n)
		if d.After(until) {
			break
		}
		if d.Before(from) {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := lastDayOfMonth(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST offsets
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
