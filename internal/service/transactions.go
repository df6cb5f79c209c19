package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// record writes an audit transaction for an account change. A failure is
// logged and does not fail the account operation.
func (s *Service) record(ctx context.Context, account *models.Account, kind models.TransactionType, previous, next *decimal.Decimal, description string) {
	tx := &models.Transaction{
		ID:              uuid.NewString(),
		AccountID:       account.ID,
		AccountName:     account.Name,
		UserID:          account.UserID,
		Type:            kind,
		PreviousBalance: previous,
		NewBalance:      next,
		Timestamp:       s.now(),
		Description:     description,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		s.log.WithError(err).WithField("account_id", account.ID).Warn("Failed to record transaction")
	}
}

// CreateTransaction records a manual transaction against an account of the
// authenticated user
func (s *Service) CreateTransaction(ctx context.Context, input models.Transaction) (*models.Transaction, error) {
	if !input.Type.Valid() {
		return nil, validationf("type must be create, update or delete, got %q", input.Type)
	}
	if input.AccountID == "" {
		return nil, validationf("accountId is required")
	}
	account, err := s.ownedAccount(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	tx := input
	tx.ID = uuid.NewString()
	tx.UserID = account.UserID
	tx.AccountName = account.Name
	tx.Description = strings.TrimSpace(tx.Description)
	if tx.Description == "" {
		return nil, validationf("description is required")
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = s.now()
	}

	if err := s.repo.CreateTransaction(ctx, &tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.log.Infof("Transaction created for account %s: %s", account.ID, tx.ID)
	return &tx, nil
}

// ListTransactions returns the transactions of the authenticated user, newest first
func (s *Service) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	txs, err := s.repo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// GetTransaction returns one transaction of the authenticated user
func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := s.repo.FindTransactionByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "transaction")
	}
	if tx.UserID != userID {
		return nil, fmt.Errorf("transaction does not belong to user: %w", ErrForbidden)
	}
	return tx, nil
}
