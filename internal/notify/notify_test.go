package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/Dan9191/finance-planner/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	user   models.User
	events []calendar.Event
}

type fakeSender struct {
	sent    []sent
	failFor string
}

func (f *fakeSender) SendPaymentReminder(user models.User, events []calendar.Event) error {
	if user.Email == f.failFor {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sent{user: user, events: events})
	return nil
}

func seed(t *testing.T, store *repository.MockStore, id, email string, accounts ...models.Account) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, &models.User{ID: id, Email: email}))
	for _, a := range accounts {
		a.UserID = id
		require.NoError(t, store.CreateAccount(ctx, &a))
	}
}

func TestReminderRun(t *testing.T) {
	now := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)
	store := repository.NewMockStore()

	seed(t, store, "u1", "ann@example.com",
		models.Account{ID: "card", Name: "Card", Type: models.AccountDebt, Balance: decimal.NewFromInt(-500), DueDate: "2024-01-12"},
		models.Account{ID: "far", Name: "Loan", Type: models.AccountDebt, Balance: decimal.NewFromInt(-100), DueDate: "2024-01-20"},
		models.Account{ID: "job", Name: "Job", Type: models.AccountSavings, Balance: decimal.NewFromInt(900),
			IncomeSchedule: &models.IncomeSchedule{PayDayDate: "2024-01-11", Frequency: models.Weekly}},
	)
	seed(t, store, "u2", "bob@example.com")
	seed(t, store, "u3", "eve@example.com",
		models.Account{ID: "eve-card", Name: "Card", Type: models.AccountDebt, Balance: decimal.NewFromInt(-5), DueDate: "2024-01-10"},
	)

	log, _ := test.NewNullLogger()
	deriver := calendar.NewDeriver(time.UTC, log).WithClock(func() time.Time { return now })
	sender := &fakeSender{failFor: "eve@example.com"}

	res, err := NewReminder(store, deriver, sender, 3, log).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 3, Sent: 1, Failed: 1}, res)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "u1", sender.sent[0].user.ID)
	require.Len(t, sender.sent[0].events, 1)
	assert.Equal(t, "Card Due", sender.sent[0].events[0].Title)
}

func TestReminderRunListUsersError(t *testing.T) {
	store := repository.NewMockStore()
	store.ListUsersErr = errors.New("db down")
	log, _ := test.NewNullLogger()

	_, err := NewReminder(store, calendar.NewDeriver(time.UTC, log), &fakeSender{}, 3, log).Run(context.Background())
	assert.ErrorContains(t, err, "failed to list users")
}

func TestReminderSchedule(t *testing.T) {
	log, _ := test.NewNullLogger()
	r := NewReminder(repository.NewMockStore(), calendar.NewDeriver(time.UTC, log), &fakeSender{}, 3, log)

	c, err := r.Schedule(context.Background(), "0 8 * * *")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)

	_, err = r.Schedule(context.Background(), "every day")
	assert.Error(t, err)
}

func TestReminderEmail(t *testing.T) {
	card := models.Account{ID: "c", Name: "Card", Type: models.AccountDebt, Balance: decimal.NewFromInt(-500), DueDate: "2024-01-12"}
	events, _ := calendar.DueDateEvents([]models.Account{card}, time.UTC)

	e := reminderEmail("noreply@example.com", models.User{Email: "ann@example.com"}, events)
	assert.Equal(t, []string{"ann@example.com"}, e.To)
	assert.Equal(t, "Upcoming Payment Reminder", e.Subject)
	body := string(e.Text)
	assert.Contains(t, body, "Dear ann@example.com")
	assert.Contains(t, body, "2024-01-12")
	assert.Contains(t, body, "Card Due")
	assert.Contains(t, body, "500.00")
}
