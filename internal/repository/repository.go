package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint is violated
	ErrDuplicate = errors.New("duplicate")
)

// Store is the persistence API used by the service layer
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByCustomID(ctx context.Context, customID string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)

	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)
	ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error)
	UpdateAccount(ctx context.Context, account *models.Account) error
	DeleteAccount(ctx context.Context, id string) error

	CreateTransaction(ctx context.Context, tx *models.Transaction) error
	FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error)
}

// Ensure Repository implements Store
var _ Store = (*Repository)(nil)

// Ensure MockStore implements Store
var _ Store = (*MockStore)(nil)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Ping checks the database connection
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// validID reports whether id can be compared against a UUID column.
// Lookups by anything else cannot match a row.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO finance.users (id, email, name, picture, custom_user_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.Picture, nullString(user.CustomUserID), user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if uniqueViolation(err) {
		return fmt.Errorf("failed to create user: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

const userColumns = `id, email, name, picture, custom_user_id, password_hash, created_at, updated_at`

func (r *Repository) findUser(ctx context.Context, where string, arg any) (*models.User, error) {
	user := &models.User{}
	var customID sql.NullString
	query := `SELECT ` + userColumns + ` FROM finance.users WHERE ` + where
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Email, &user.Name, &user.Picture, &customID, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	user.CustomUserID = customID.String
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	if !validID(id) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	return r.findUser(ctx, "id = $1", id)
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findUser(ctx, "email = $1", email)
}

// FindUserByCustomID retrieves a user by custom user id
func (r *Repository) FindUserByCustomID(ctx context.Context, customID string) (*models.User, error) {
	return r.findUser(ctx, "custom_user_id = $1", customID)
}

// UpdateUser stores the profile fields of user
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	query := `
		UPDATE finance.users
		SET email = $2, name = $3, picture = $4, custom_user_id = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.Picture, nullString(user.CustomUserID)).
		Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	if uniqueViolation(err) {
		return fmt.Errorf("failed to update user: %w", ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListUsers returns every user
func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM finance.users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var (
			user     models.User
			customID sql.NullString
		)
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Picture, &customID, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.CustomUserID = customID.String
		users = append(users, user)
	}
	return users, rows.Err()
}

// jsonColumn marshals an optional sub-document into a JSONB value.
// lib/pq sends []byte as bytea, so the document goes over the wire as text.
func jsonColumn(v any, isNil bool) (any, error) {
	if isNil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func accountArgs(account *models.Account) ([]any, error) {
	payment, err := jsonColumn(account.MonthlyPayment, account.MonthlyPayment == nil)
	if err != nil {
		return nil, fmt.Errorf("encode monthly payment: %w", err)
	}
	schedule, err := jsonColumn(account.IncomeSchedule, account.IncomeSchedule == nil)
	if err != nil {
		return nil, fmt.Errorf("encode income schedule: %w", err)
	}
	return []any{
		account.ID, account.UserID, account.Name, account.Description, string(account.Type),
		account.Balance, nullString(account.DueDate), payment, schedule,
	}, nil
}

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	args, err := accountArgs(account)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	query := `
		INSERT INTO finance.accounts (id, user_id, name, description, type, balance, due_date, monthly_payment, income_schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

const accountColumns = `id, user_id, name, description, type, balance, due_date, monthly_payment, income_schedule, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account           models.Account
		accountType       string
		dueDate           sql.NullString
		payment, schedule []byte
	)
	err := row.Scan(&account.ID, &account.UserID, &account.Name, &account.Description, &accountType,
		&account.Balance, &dueDate, &payment, &schedule, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	account.Type = models.AccountType(accountType)
	account.DueDate = dueDate.String
	if len(payment) > 0 {
		account.MonthlyPayment = &models.MonthlyPayment{}
		if err := json.Unmarshal(payment, account.MonthlyPayment); err != nil {
			return nil, fmt.Errorf("decode monthly payment of account %s: %w", account.ID, err)
		}
	}
	if len(schedule) > 0 {
		account.IncomeSchedule = &models.IncomeSchedule{}
		if err := json.Unmarshal(schedule, account.IncomeSchedule); err != nil {
			return nil, fmt.Errorf("decode income schedule of account %s: %w", account.ID, err)
		}
	}
	return &account, nil
}

// FindAccountByID retrieves an account by id
func (r *Repository) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	if !validID(id) {
		return nil, fmt.Errorf("account: %w", ErrNotFound)
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM finance.accounts WHERE id = $1`, id)
	account, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("account: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ListAccountsByUser returns the accounts of a user, newest first
func (r *Repository) ListAccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM finance.accounts WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}

// UpdateAccount stores every mutable field of account
func (r *Repository) UpdateAccount(ctx context.Context, account *models.Account) error {
	args, err := accountArgs(account)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	query := `
		UPDATE finance.accounts
		SET user_id = $2, name = $3, description = $4, type = $5, balance = $6,
			due_date = $7, monthly_payment = $8, income_schedule = $9, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&account.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// DeleteAccount removes an account
func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM finance.accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// CreateTransaction records an audit transaction
func (r *Repository) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO finance.transactions (id, account_id, account_name, user_id, type, previous_balance, new_balance, timestamp, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, CURRENT_TIMESTAMP)
		RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		tx.ID, tx.AccountID, tx.AccountName, tx.UserID, string(tx.Type),
		nullDecimal(tx.PreviousBalance), nullDecimal(tx.NewBalance), tx.Timestamp, tx.Description).
		Scan(&tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

const transactionColumns = `id, account_id, account_name, user_id, type, previous_balance, new_balance, timestamp, description, created_at`

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx         models.Transaction
		txType     string
		prev, next decimal.NullDecimal
	)
	err := row.Scan(&tx.ID, &tx.AccountID, &tx.AccountName, &tx.UserID, &txType,
		&prev, &next, &tx.Timestamp, &tx.Description, &tx.CreatedAt)
	if err != nil {
		return nil, err
	}
	tx.Type = models.TransactionType(txType)
	if prev.Valid {
		tx.PreviousBalance = &prev.Decimal
	}
	if next.Valid {
		tx.NewBalance = &next.Decimal
	}
	return &tx, nil
}

// FindTransactionByID retrieves a transaction by id
func (r *Repository) FindTransactionByID(ctx context.Context, id string) (*models.Transaction, error) {
	if !validID(id) {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	row := r.db.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM finance.transactions WHERE id = $1`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction: %w", err)
	}
	return tx, nil
}

// ListTransactionsByUser returns the transactions of a user, newest first
func (r *Repository) ListTransactionsByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM finance.transactions WHERE user_id = $1 ORDER BY timestamp DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}
