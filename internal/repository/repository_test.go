package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueViolation(t *testing.T) {
	assert.True(t, uniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, uniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, uniqueViolation(errors.New("boom")))
	assert.False(t, uniqueViolation(nil))
}

func TestLookupsByMalformedIDAreNotFound(t *testing.T) {
	repo := NewRepository(nil)
	ctx := context.Background()

	_, err := repo.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindAccountByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindTransactionByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJSONColumn(t *testing.T) {
	v, err := jsonColumn(nil, true)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = jsonColumn(&models.IncomeSchedule{PayDayDate: "2024-01-05", Frequency: models.Weekly}, false)
	require.NoError(t, err)
	assert.IsType(t, "", v)
	assert.Contains(t, v, `"frequency":"weekly"`)
}

// openTestDB connects to TEST_DB_CONN and migrates it; the test is skipped
// when no database is configured.
func openTestDB(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("TEST_DB_CONN")
	if dsn == "" {
		t.Skip("TEST_DB_CONN not set")
	}
	require.NoError(t, RunMigrations(dsn))
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestRepositoryAccountRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	user := &models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(ctx, user))

	dup := &models.User{ID: uuid.NewString(), Email: user.Email, PasswordHash: "x"}
	assert.ErrorIs(t, repo.CreateUser(ctx, dup), ErrDuplicate)

	account := &models.Account{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Name:    "Job",
		Type:    models.AccountSavings,
		Balance: decimal.RequireFromString("1250.50"),
		IncomeSchedule: &models.IncomeSchedule{
			PayDayDate:        "2024-01-05",
			EstimatedEarnings: decimal.NewFromInt(1250),
			Frequency:         models.BiWeekly,
		},
	}
	require.NoError(t, repo.CreateAccount(ctx, account))

	got, err := repo.FindAccountByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, account.Balance.Equal(got.Balance))
	require.NotNil(t, got.IncomeSchedule)
	assert.Equal(t, models.BiWeekly, got.IncomeSchedule.Frequency)
	assert.Nil(t, got.MonthlyPayment)

	list, err := repo.ListAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.DeleteAccount(ctx, account.ID))
	_, err = repo.FindAccountByID(ctx, account.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
