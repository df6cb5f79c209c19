package service

import (
	"errors"
	"testing"
	"time"

	"github.com/Dan9191/finance-planner/internal/calendar"
	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	accounts := []models.Account{
		{Type: models.AccountSavings, Balance: dec("1000.50")},
		{Type: models.AccountSavings, Balance: dec("250")},
		{Type: models.AccountDebt, Balance: dec("-400.25")},
		{Type: models.AccountSavings, Balance: dec("-50")},
	}
	got := Summarize(accounts)
	assert.True(t, dec("1300.50").Equal(got.TotalAssets), "assets %s", got.TotalAssets)
	assert.True(t, dec("400.25").Equal(got.TotalLiabilities), "liabilities %s", got.TotalLiabilities)
	assert.True(t, dec("900.25").Equal(got.NetWorth), "net worth %s", got.NetWorth)
	assert.Equal(t, 3, got.SavingsAccounts)
	assert.Equal(t, 1, got.DebtAccounts)

	empty := Summarize(nil)
	assert.True(t, empty.NetWorth.IsZero())
}

func TestSummaryPropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	f.store.ListAccountsErr = errors.New("db down")
	_, err := f.svc.Summary(f.ctx)
	assert.Error(t, err)
}

// seedCalendar creates a card due 2024-01-20, a loan paid from cash on
// 2024-02-01 and a monthly paycheck starting 2024-01-01.
func seedCalendar(t *testing.T, f *fixture) {
	t.Helper()
	cash := f.savings(t, "Cash", "100")
	_, err := f.svc.CreateAccount(f.ctx, models.Account{Name: "Card", Type: models.AccountDebt, Balance: dec("500"), DueDate: "2024-01-20"})
	require.NoError(t, err)
	_, err = f.svc.CreateAccount(f.ctx, models.Account{Name: "Loan", Type: models.AccountDebt, Balance: dec("1200"),
		MonthlyPayment: &models.MonthlyPayment{Amount: dec("150"), LinkedAccountID: cash.ID, NextPaymentDate: "2024-02-01"}})
	require.NoError(t, err)
	_, err = f.svc.CreateAccount(f.ctx, models.Account{Name: "Job", Type: models.AccountSavings, Balance: dec("3000"),
		IncomeSchedule: &models.IncomeSchedule{PayDayDate: "2024-01-01", EstimatedEarnings: dec("3000"), Frequency: models.Monthly}})
	require.NoError(t, err)
}

func TestCalendarMonth(t *testing.T) {
	f := newFixture(t)
	seedCalendar(t, f)

	month, err := f.svc.ParseMonth("2024-01")
	require.NoError(t, err)
	got, err := f.svc.CalendarMonth(f.ctx, month)
	require.NoError(t, err)

	assert.Equal(t, "2024-01", got.Month)
	titles := make([]string, 0, len(got.Events))
	for _, e := range got.Events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Job Payday", "Card Due"}, titles)
	assert.Len(t, got.All, 5)
	assert.Equal(t, []string{"2024-01-01", "2024-01-20", "2024-02-01", "2024-03-01"}, got.Dates)
}

func TestParseMonth(t *testing.T) {
	f := newFixture(t)

	month, err := f.svc.ParseMonth("")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), month)

	_, err = f.svc.ParseMonth("2024-13")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCalendarGridAndDay(t *testing.T) {
	f := newFixture(t)
	seedCalendar(t, f)

	month, err := f.svc.ParseMonth("2024-02")
	require.NoError(t, err)
	view, err := f.svc.CalendarGrid(f.ctx, month, 0)
	require.NoError(t, err)
	assert.Equal(t, "2024-02", view.Key)
	require.Len(t, view.Weeks, 5)

	// 2024-02-01 is a Thursday
	feb1 := view.Weeks[0][4]
	assert.Equal(t, "2024-02-01", feb1.Key)
	require.Len(t, feb1.Events, 2)

	events, err := f.svc.CalendarDay(f.ctx, "2024-02-01")
	require.NoError(t, err)
	require.Len(t, events, 2)
	kinds := []string{events[0].Payload.Kind(), events[1].Payload.Kind()}
	assert.ElementsMatch(t, []string{"payment", "income"}, kinds)
	assert.Equal(t, calendar.CategoryPayDate, events[0].Category())

	none, err := f.svc.CalendarDay(f.ctx, "2024-02-02")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.svc.CalendarDay(f.ctx, "02/02/2024")
	assert.ErrorIs(t, err, ErrValidation)
}
