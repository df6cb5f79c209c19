package notify

import (
	"context"
	"fmt"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Store is the subset of the repository the reminder job reads
type Store interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error)
}

// Reminder e-mails every user about due dates and scheduled payments in the
// next few days
type Reminder struct {
	store     Store
	deriver   *calendar.Deriver
	sender    Sender
	lookahead int
	log       logrus.FieldLogger
}

// Result counts the outcome of one reminder run
type Result struct {
	Users  int
	Sent   int
	Failed int
}

// NewReminder creates a reminder job looking lookaheadDays ahead
func NewReminder(store Store, deriver *calendar.Deriver, sender Sender, lookaheadDays int, log logrus.FieldLogger) *Reminder {
	return &Reminder{store: store, deriver: deriver, sender: sender, lookahead: lookaheadDays, log: log}
}

// obligations keeps the events a user has to pay for
func obligations(events []calendar.Event) []calendar.Event {
	return lo.Filter(events, func(e calendar.Event, _ int) bool {
		switch e.Payload.(type) {
		case calendar.DuePayload, calendar.PaymentPayload:
			return true
		}
		return false
	})
}

// Run sends one reminder per user with upcoming obligations. A failure for
// one user is logged and the run continues with the next.
func (r *Reminder) Run(ctx context.Context) (Result, error) {
	var res Result
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to list users: %w", err)
	}

	now := r.deriver.Now()
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Users++
		log := r.log.WithField("user_id", user.ID)

		accounts, err := r.store.ListAccountsByUser(ctx, user.ID)
		if err != nil {
			res.Failed++
			log.WithError(err).Error("Failed to load accounts for reminder")
			continue
		}

		events := obligations(r.deriver.Upcoming(accounts, now, r.lookahead))
		if len(events) == 0 {
			continue
		}
		if err := r.sender.SendPaymentReminder(user, events); err != nil {
			res.Failed++
			log.WithError(err).Error("Failed to send payment reminder")
			continue
		}
		res.Sent++
	}

	r.log.WithFields(logrus.Fields{
		"users":  res.Users,
		"sent":   res.Sent,
		"failed": res.Failed,
	}).Info("Payment reminders processed")
	return res, nil
}

// Schedule registers the job on a new cron scheduler with a standard
// five-field expression. The caller starts and stops the scheduler.
func (r *Reminder) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(r.deriver.Location()))
	_, err := c.AddFunc(spec, func() {
		if _, err := r.Run(ctx); err != nil {
			r.log.WithError(err).Error("Payment reminder run failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	return c, nil
}
