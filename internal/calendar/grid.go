package calendar

import (
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/samber/lo"
)

// DefaultMaxEventsPerDay is how many events a grid day shows before
// collapsing the rest into a hidden count.
const DefaultMaxEventsPerDay = 3

// Day is one cell of the month grid
type Day struct {
	Date    time.Time `json:"-"`
	Key     string    `json:"date"`
	InMonth bool      `json:"inMonth"`
	IsToday bool      `json:"isToday"`
	Events  []Event   `json:"events"`
	Hidden  int       `json:"hidden"`
}

// MonthView is a Sunday-first grid of whole weeks covering one month
type MonthView struct {
	Month time.Time `json:"-"`
	Key   string    `json:"month"`
	Weeks [][]Day   `json:"weeks"`
}

// BuildMonth lays out the weeks covering the month containing month and
// places each event on its day. Days keep at most maxPerDay events; the rest
// are counted in Hidden. A non-positive maxPerDay uses DefaultMaxEventsPerDay.
func BuildMonth(month time.Time, events []Event, today time.Time, maxPerDay int) MonthView {
	if maxPerDay <= 0 {
		maxPerDay = DefaultMaxEventsPerDay
	}
	monthStart, next := MonthBounds(month)
	monthEnd := next.AddDate(0, 0, -1)
	gridStart := monthStart.AddDate(0, 0, -int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDate(0, 0, int(time.Saturday-monthEnd.Weekday()))

	byDate := lo.GroupBy(events, func(e Event) string {
		return e.Date.Format(models.DateLayout)
	})
	todayKey := today.Format(models.DateLayout)

	view := MonthView{Month: monthStart, Key: monthStart.Format("2006-01")}
	var week []Day
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		dayEvents := byDate[key]
		visible := []Event{}
		if len(dayEvents) > 0 {
			visible = dayEvents
		}
		if len(visible) > maxPerDay {
			visible = visible[:maxPerDay]
		}
		week = append(week, Day{
			Date:    d,
			Key:     key,
			InMonth: d.Month() == monthStart.Month(),
			IsToday: key == todayKey,
			Events:  visible,
			Hidden:  len(dayEvents) - len(visible),
		})
		if len(week) == 7 {
			view.Weeks = append(view.Weeks, week)
			week = nil
		}
	}
	return view
}

// Prev returns the first day of the previous month
func (v MonthView) Prev() time.Time {
	return v.Month.AddDate(0, -1, 0)
}

// Next returns the first day of the following month
func (v MonthView) Next() time.Time {
	return v.Month.AddDate(0, 1, 0)
}
