package calendar

import (
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/samber/lo"
)

// MonthBounds returns the first instant of month's month and the first
// instant of the following month, in month's location.
func MonthBounds(month time.Time) (start, end time.Time) {
	start = startOfMonth(month)
	return start, start.AddDate(0, 1, 0)
}

// FilterMonth returns the events dated within the calendar month containing
// month. The whole last day is included. Input order is preserved.
func FilterMonth(events []Event, month time.Time) []Event {
	start, end := MonthBounds(month)
	return lo.Filter(events, func(e Event, _ int) bool {
		return !e.Date.Before(start) && e.Date.Before(end)
	})
}

// EventsOn returns the events falling on the calendar day of day
func EventsOn(events []Event, day time.Time) []Event {
	key := day.Format(models.DateLayout)
	return lo.Filter(events, func(e Event, _ int) bool {
		return e.Date.Format(models.DateLayout) == key
	})
}

// DatesWithEvents returns the distinct days carrying at least one event.
// Sorted input yields sorted output.
func DatesWithEvents(events []Event) []time.Time {
	return lo.UniqBy(lo.Map(events, func(e Event, _ int) time.Time {
		return startOfDay(e.Date)
	}), func(t time.Time) string {
		return t.Format(models.DateLayout)
	})
}

// ParseMonth parses a YYYY-MM month into its first day at midnight in loc
func ParseMonth(value string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01", value, loc)
}
