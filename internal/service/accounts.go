package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxAccountNameLength = 100
	balanceScale         = 2
)

// normalizeBalance applies the sign convention: debt balances are stored
// negative, savings balances non-negative. Balances are rounded to cents to
// match the balance column.
func normalizeBalance(t models.AccountType, balance decimal.Decimal) decimal.Decimal {
	balance = balance.Round(balanceScale).Abs()
	if t == models.AccountDebt {
		return balance.Neg()
	}
	return balance
}

func validDate(field, value string) error {
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return validationf("%s must be a YYYY-MM-DD date, got %q", field, value)
	}
	return nil
}

// validateAccount checks field formats and that payment schedules match the
// account type: due dates and monthly payments belong to debt accounts,
// income schedules to savings accounts, and no account carries both. The
// linked account of a monthly payment is looked up only when checkLink is set.
func (s *Service) validateAccount(ctx context.Context, account *models.Account, checkLink bool) error {
	account.Name = strings.TrimSpace(account.Name)
	account.Description = strings.TrimSpace(account.Description)

	if account.Name == "" {
		return validationf("name is required")
	}
	if len(account.Name) > maxAccountNameLength {
		return validationf("name cannot exceed %d characters", maxAccountNameLength)
	}
	if !account.Type.Valid() {
		return validationf("type must be savings or debt, got %q", account.Type)
	}

	if account.DueDate != "" {
		if account.Type != models.AccountDebt {
			return validationf("only debt accounts can have a due date")
		}
		if err := validDate("dueDate", account.DueDate); err != nil {
			return err
		}
	}

	if account.MonthlyPayment != nil && account.IncomeSchedule != nil {
		return validationf("an account cannot have both a monthly payment and an income schedule")
	}

	if mp := account.MonthlyPayment; mp != nil {
		if account.Type != models.AccountDebt {
			return validationf("only debt accounts can have a monthly payment")
		}
		if mp.Amount.IsNegative() {
			return validationf("monthly payment amount cannot be negative")
		}
		if err := validDate("monthlyPayment.nextPaymentDate", mp.NextPaymentDate); err != nil {
			return err
		}
		if mp.LinkedAccountID == "" {
			return validationf("monthly payment must be linked to an account")
		}
		if mp.LinkedAccountID == account.ID {
			return validationf("monthly payment cannot be linked to its own account")
		}
		if checkLink {
			linked, err := s.repo.FindAccountByID(ctx, mp.LinkedAccountID)
			if err != nil || linked.UserID != account.UserID {
				return validationf("linked account %s does not exist", mp.LinkedAccountID)
			}
		}
	}

	if is := account.IncomeSchedule; is != nil {
		if account.Type != models.AccountSavings {
			return validationf("only savings accounts can have an income schedule")
		}
		if is.EstimatedEarnings.IsNegative() {
			return validationf("estimated earnings cannot be negative")
		}
		if !is.Frequency.Valid() {
			return validationf("frequency must be weekly, bi-weekly or monthly, got %q", is.Frequency)
		}
		if err := validDate("incomeSchedule.payDayDate", is.PayDayDate); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ownedAccount(ctx context.Context, id string) (*models.Account, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.FindAccountByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "account")
	}
	if account.UserID != userID {
		return nil, fmt.Errorf("account does not belong to user: %w", ErrForbidden)
	}
	return account, nil
}

// CreateAccount creates a new account for the authenticated user
func (s *Service) CreateAccount(ctx context.Context, input models.Account) (*models.Account, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	account := input
	account.ID = uuid.NewString()
	account.UserID = userID
	account.Balance = normalizeBalance(account.Type, account.Balance)
	if err := s.validateAccount(ctx, &account, true); err != nil {
		return nil, err
	}

	if err := s.repo.CreateAccount(ctx, &account); err != nil {
		return nil, err
	}

	s.record(ctx, &account, models.TransactionCreate, nil, &account.Balance,
		fmt.Sprintf("Created %s account %s", account.Type, account.Name))
	s.log.Infof("Account created for user %s: %s", userID, account.ID)
	return &account, nil
}

// GetAccount returns one account of the authenticated user
func (s *Service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.ownedAccount(ctx, id)
}

// ListAccounts returns the accounts of the authenticated user, newest first
func (s *Service) ListAccounts(ctx context.Context) ([]models.Account, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := s.repo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	return accounts, nil
}

// UpdateAccount applies a partial update to an account of the authenticated user
func (s *Service) UpdateAccount(ctx context.Context, id string, update models.AccountUpdate) (*models.Account, error) {
	account, err := s.ownedAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := account.Balance

	if update.Name != nil {
		account.Name = *update.Name
	}
	if update.Description != nil {
		account.Description = *update.Description
	}
	if update.Balance != nil {
		account.Balance = normalizeBalance(account.Type, *update.Balance)
	}
	if update.DueDate != nil {
		account.DueDate = *update.DueDate
	}
	if update.ClearMonthlyPayment {
		account.MonthlyPayment = nil
	}
	if update.MonthlyPayment != nil {
		account.MonthlyPayment = update.MonthlyPayment
	}
	if update.ClearIncomeSchedule {
		account.IncomeSchedule = nil
	}
	if update.IncomeSchedule != nil {
		account.IncomeSchedule = update.IncomeSchedule
	}

	if err := s.validateAccount(ctx, account, update.MonthlyPayment != nil); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return nil, storeErr(err, "account")
	}

	description := fmt.Sprintf("Updated account %s", account.Name)
	if !previous.Equal(account.Balance) {
		description = fmt.Sprintf("Balance of %s changed from %s to %s", account.Name, previous.StringFixed(2), account.Balance.StringFixed(2))
	}
	s.record(ctx, account, models.TransactionUpdate, &previous, &account.Balance, description)
	s.log.Infof("Account updated: %s", account.ID)
	return account, nil
}

// unlinkPayments clears the monthly payments of the user's accounts that are
// paid from the account being deleted.
func (s *Service) unlinkPayments(ctx context.Context, deleted *models.Account) error {
	accounts, err := s.repo.ListAccountsByUser(ctx, deleted.UserID)
	if err != nil {
		return fmt.Errorf("failed to list linked accounts: %w", err)
	}
	for i := range accounts {
		account := &accounts[i]
		if account.MonthlyPayment == nil || account.MonthlyPayment.LinkedAccountID != deleted.ID {
			continue
		}
		account.MonthlyPayment = nil
		if err := s.repo.UpdateAccount(ctx, account); err != nil {
			return fmt.Errorf("failed to unlink monthly payment of %s: %w", account.ID, err)
		}
		s.record(ctx, account, models.TransactionUpdate, &account.Balance, &account.Balance,
			fmt.Sprintf("Monthly payment of %s removed: %s was deleted", account.Name, deleted.Name))
		s.log.WithField("account_id", account.ID).Info("Monthly payment unlinked")
	}
	return nil
}

// DeleteAccount removes an account of the authenticated user. Monthly
// payments drawn from it are removed first.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	account, err := s.ownedAccount(ctx, id)
	if err != nil {
		return err
	}
	if err := s.unlinkPayments(ctx, account); err != nil {
		return err
	}
	if err := s.repo.DeleteAccount(ctx, id); err != nil {
		return storeErr(err, "account")
	}

	s.record(ctx, account, models.TransactionDelete, &account.Balance, nil,
		fmt.Sprintf("Deleted account %s", account.Name))
	s.log.Infof("Account deleted: %s", id)
	return nil
}
