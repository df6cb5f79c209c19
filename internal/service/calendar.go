package service

import (
	"context"
	"time"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/samber/lo"
)

// CalendarMonth is the calendar page payload: the events of one month, the
// full derived set, and every day that carries an event.
type CalendarMonth struct {
	Month  string           `json:"month"`
	Events []calendar.Event `json:"events"`
	All    []calendar.Event `json:"all"`
	Dates  []string         `json:"dates"`
}

// ParseMonth parses a YYYY-MM value in the calendar location. An empty value
// selects the current month.
func (s *Service) ParseMonth(value string) (time.Time, error) {
	if value == "" {
		now := s.calendar.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	month, err := calendar.ParseMonth(value, s.calendar.Location())
	if err != nil {
		return time.Time{}, validationf("month must be YYYY-MM, got %q", value)
	}
	return month, nil
}

// CalendarMonth derives the user's events and selects those of month
func (s *Service) CalendarMonth(ctx context.Context, month time.Time) (*CalendarMonth, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	all, inMonth := s.calendar.Month(accounts, month)
	return &CalendarMonth{
		Month:  month.Format("2006-01"),
		Events: lo.Ternary(inMonth == nil, []calendar.Event{}, inMonth),
		All:    lo.Ternary(all == nil, []calendar.Event{}, all),
		Dates: lo.Map(calendar.DatesWithEvents(all), func(t time.Time, _ int) string {
			return t.Format(models.DateLayout)
		}),
	}, nil
}

// CalendarGrid lays out the user's events of month as a week grid
func (s *Service) CalendarGrid(ctx context.Context, month time.Time, maxPerDay int) (*calendar.MonthView, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	view := calendar.BuildMonth(month, s.calendar.Events(accounts), s.calendar.Now(), maxPerDay)
	return &view, nil
}

// CalendarDay returns the user's events on the YYYY-MM-DD day value
func (s *Service) CalendarDay(ctx context.Context, value string) ([]calendar.Event, error) {
	day, err := calendar.ParseDate(value, s.calendar.Location())
	if err != nil {
		return nil, validationf("date must be YYYY-MM-DD, got %q", value)
	}
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	events := calendar.EventsOn(s.calendar.Events(accounts), day)
	if events == nil {
		events = []calendar.Event{}
	}
	return events, nil
}
