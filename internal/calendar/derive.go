package calendar

import (
	"fmt"
	"slices"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Skip records an account rule that produced no events because of bad data
type Skip struct {
	AccountID string
	Rule      string
	Err       error
}

func (s Skip) Error() string {
	return fmt.Sprintf("account %s: %s: %v", s.AccountID, s.Rule, s.Err)
}

func (s Skip) Unwrap() error {
	return s.Err
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return t, nil
}

// DueDateEvents emits one due-date event per debt account with a due date.
// The amount is the absolute value of the (negative) debt balance.
func DueDateEvents(accounts []models.Account, loc *time.Location) ([]Event, []Skip) {
	var (
		events  []Event
		skipped []Skip
	)
	for _, account := range accounts {
		if account.Type != models.AccountDebt || account.DueDate == "" {
			continue
		}
		date, err := ParseDate(account.DueDate, loc)
		if err != nil {
			skipped = append(skipped, Skip{AccountID: account.ID, Rule: "due-date", Err: err})
			continue
		}
		events = append(events, Event{
			ID:    fmt.Sprintf("due-%s-%s", account.ID, account.DueDate),
			Title: account.Name + " Due",
			Date:  date,
			Payload: DuePayload{
				Account: account,
				Due:     account.Balance.Abs(),
			},
		})
	}
	return events, skipped
}

// PaymentEvents emits one pay-date event per debt account with a scheduled
// monthly payment, dated on the next payment date.
func PaymentEvents(accounts []models.Account, loc *time.Location) ([]Event, []Skip) {
	var (
		events  []Event
		skipped []Skip
	)
	for _, account := range accounts {
		mp := account.MonthlyPayment
		if account.Type != models.AccountDebt || mp == nil || mp.NextPaymentDate == "" {
			continue
		}
		date, err := ParseDate(mp.NextPaymentDate, loc)
		if err != nil {
			skipped = append(skipped, Skip{AccountID: account.ID, Rule: "monthly-payment", Err: err})
			continue
		}
		events = append(events, Event{
			ID:    fmt.Sprintf("pay-%s-%s", account.ID, mp.NextPaymentDate),
			Title: "Pay " + account.Name,
			Date:  date,
			Payload: PaymentPayload{
				Account:         account,
				Payment:         mp.Amount,
				LinkedAccountID: mp.LinkedAccountID,
			},
		})
	}
	return events, skipped
}

// IncomeEvents expands the income schedule of every savings account into
// pay-date events over the window described by Expand.
// Each occurrence carries the account balance as its amount.
func IncomeEvents(accounts []models.Account, now time.Time) ([]Event, []Skip) {
	var (
		events  []Event
		skipped []Skip
	)
	for _, account := range accounts {
		schedule := account.IncomeSchedule
		if account.Type != models.AccountSavings || schedule == nil || schedule.PayDayDate == "" {
			continue
		}
		start, err := ParseDate(schedule.PayDayDate, now.Location())
		if err != nil {
			skipped = append(skipped, Skip{AccountID: account.ID, Rule: "income-schedule", Err: err})
			continue
		}
		dates, err := Expand(start, schedule.Frequency, now)
		if err != nil {
			skipped = append(skipped, Skip{AccountID: account.ID, Rule: "income-schedule", Err: err})
			continue
		}
		for _, date := range dates {
			events = append(events, Event{
				ID:    fmt.Sprintf("income-%s-%s", account.ID, date.Format(models.DateLayout)),
				Title: account.Name + " Payday",
				Date:  date,
				Payload: IncomePayload{
					Account:   account,
					Earnings:  account.Balance,
					Frequency: schedule.Frequency,
				},
			})
		}
	}
	return events, skipped
}

// Derive combines due-date, payment and income events of all accounts and
// orders them by date. Events on the same day keep rule order (due dates,
// then payments, then income) but no caller should rely on it.
//
// Derive is a pure function of its arguments: the same accounts and the same
// now always produce the same events in the same order.
func Derive(accounts []models.Account, now time.Time) ([]Event, []Skip) {
	due, dueSkipped := DueDateEvents(accounts, now.Location())
	pay, paySkipped := PaymentEvents(accounts, now.Location())
	income, incomeSkipped := IncomeEvents(accounts, now)

	events := slices.Concat(due, pay, income)
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.Date.Compare(b.Date)
	})
	return events, slices.Concat(dueSkipped, paySkipped, incomeSkipped)
}

// Deriver derives events against a clock and a location, logging skipped
// records instead of returning them.
type Deriver struct {
	loc *time.Location
	now func() time.Time
	log logrus.FieldLogger
}

// NewDeriver creates a deriver that normalizes dates to loc
func NewDeriver(loc *time.Location, log logrus.FieldLogger) *Deriver {
	if loc == nil {
		loc = time.Local
	}
	return &Deriver{loc: loc, now: time.Now, log: log}
}

// WithClock returns a copy of the deriver reading the current time from now
func (d *Deriver) WithClock(now func() time.Time) *Deriver {
	c := *d
	c.now = now
	return &c
}

// Now returns the current instant in the deriver's location
func (d *Deriver) Now() time.Time {
	return d.now().In(d.loc)
}

// Location returns the location calendar dates are normalized to
func (d *Deriver) Location() *time.Location {
	return d.loc
}

// Events derives all events for accounts as of the deriver's clock
func (d *Deriver) Events(accounts []models.Account) []Event {
	events, skipped := Derive(accounts, d.Now())
	for _, s := range skipped {
		d.log.WithFields(logrus.Fields{
			"account_id": s.AccountID,
			"rule":       s.Rule,
		}).Warnf("Skipping calendar rule: %v", s.Err)
	}
	return events
}

// Month derives all events and returns both the full set and the events of
// the month containing month.
func (d *Deriver) Month(accounts []models.Account, month time.Time) (all, inMonth []Event) {
	all = d.Events(accounts)
	return all, FilterMonth(all, month.In(d.loc))
}

// Upcoming returns events dated within [from, from+days) in the deriver's location
func (d *Deriver) Upcoming(accounts []models.Account, from time.Time, days int) []Event {
	start := startOfDay(from.In(d.loc))
	end := start.AddDate(0, 0, days)
	return lo.Filter(d.Events(accounts), func(e Event, _ int) bool {
		return !e.Date.Before(start) && e.Date.Before(end)
	})
}
