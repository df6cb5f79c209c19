package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dan9191/finance-planner/internal/models"
)

// MockStore is an in-memory Store for tests
type MockStore struct {
	mu sync.Mutex

	// Mock data storage
	Users        map[string]*models.User
	Accounts     map[string]*models.Account
	Transactions map[string]*models.Transaction

	// Error values to return
	CreateUserErr        error
	CreateAccountErr     error
	ListAccountsErr      error
	UpdateAccountErr     error
	CreateTransactionErr error
	ListUsersErr         error

	// Now stamps created and updated times; defaults to time.Now
	Now func() time.Time
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		Users:        make(map[string]*models.User),
		Accounts:     make(map[string]*models.Account),
		Transactions: make(map[string]*models.Transaction),
		Now:          time.Now,
	}
}

// CreateUser stores a copy of user
func (m *MockStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateUserErr != nil {
		return m.CreateUserErr
	}
	for _, u := range m.Users {
		if u.Email == user.Email || (user.CustomUserID != "" && u.CustomUserID == user.CustomUserID) {
			return fmt.Errorf("failed to create user: %w", ErrDuplicate)
		}
	}
	user.CreatedAt = m.Now()
	user.UpdatedAt = user.CreatedAt
	u := *user
	m.Users[user.ID] = &u
	return nil
}

func (m *MockStore) findUser(match func(u *models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("user: %w", ErrNotFound)
}

// FindUserByID returns the user with id
func (m *MockStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return u.ID == id })
}

// FindUserByEmail returns the user with email
func (m *MockStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return u.Email == email })
}

// FindUserByCustomID returns the user with a custom id
func (m *MockStore) FindUserByCustomID(_ context.Context, customID string) (*models.User, error) {
	return m.findUser(func(u *models.User) bool { return u.CustomUserID != "" && u.CustomUserID == customID })
}

// UpdateUser replaces a stored user
func (m *MockStore) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Users[user.ID]; !ok {
		return fmt.Errorf("user: %w", ErrNotFound)
	}
	for id, u := range m.Users {
		if id == user.ID {
			continue
		}
		if u.Email == user.Email || (user.CustomUserID != "" && u.CustomUserID == user.CustomUserID) {
			return fmt.Errorf("failed to update user: %w", ErrDuplicate)
		}
	}
	user.UpdatedAt = m.Now()
	u := *user
	m.Users[user.ID] = &u
	return nil
}

// ListUsers returns all users ordered by creation time
func (m *MockStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListUsersErr != nil {
		return nil, m.ListUsersErr
	}
	users := make([]models.User, 0, len(m.Users))
	for _, u := range m.Users {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID < users[j].ID
		}
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// CreateAccount stores a copy of account
func (m *MockStore) CreateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateAccountErr != nil {
		return m.CreateAccountErr
	}
	account.CreatedAt = m.Now()
	account.UpdatedAt = account.CreatedAt
	a := *account
	m.Accounts[account.ID] = &a
	return nil
}

// FindAccountByID returns the account with id
func (m *MockStore) FindAccountByID(_ context.Context, id string) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.Accounts[id]
	if !ok {
		return nil, fmt.Errorf("account: %w", ErrNotFound)
	}
	c := *a
	return &c, nil
}

// ListAccountsByUser returns the accounts of a user, newest first
func (m *MockStore) ListAccountsByUser(_ context.Context, userID string) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListAccountsErr != nil {
		return nil, m.ListAccountsErr
	}
	var accounts []models.Account
	for _, a := range m.Accounts {
		if a.UserID == userID {
			accounts = append(accounts, *a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// UpdateAccount replaces a stored account
func (m *MockStore) UpdateAccount(_ context.Context, account *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateAccountErr != nil {
		return m.UpdateAccountErr
	}
	if _, ok := m.Accounts[account.ID]; !ok {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	account.UpdatedAt = m.Now()
	a := *account
	m.Accounts[account.ID] = &a
	return nil
}

// DeleteAccount removes an account
func (m *MockStore) DeleteAccount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Accounts[id]; !ok {
		return fmt.Errorf("account: %w", ErrNotFound)
	}
	delete(m.Accounts, id)
	return nil
}

// CreateTransaction stores a copy of tx
func (m *MockStore) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateTransactionErr != nil {
		return m.CreateTransactionErr
	}
	tx.CreatedAt = m.Now()
	t := *tx
	m.Transactions[tx.ID] = &t
	return nil
}

// FindTransactionByID returns the transaction with id
func (m *MockStore) FindTransactionByID(_ context.Context, id string) (*models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.Transactions[id]
	if !ok {
		return nil, fmt.Errorf("transaction: %w", ErrNotFound)
	}
	c := *t
	return &c, nil
}

// ListTransactionsByUser returns the transactions of a user, newest first
func (m *MockStore) ListTransactionsByUser(_ context.Context, userID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var txs []models.Transaction
	for _, t := range m.Transactions {
		if t.UserID == userID {
			txs = append(txs, *t)
		}
	}
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].Timestamp.Equal(txs[j].Timestamp) {
			return txs[i].ID < txs[j].ID
		}
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
	return txs, nil
}
