package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes savings accounts from debt accounts
type AccountType string

const (
	AccountSavings AccountType = "savings"
	AccountDebt    AccountType = "debt"
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	return t == AccountSavings || t == AccountDebt
}

// Frequency is how often an income schedule pays out
type Frequency string

const (
	Weekly   Frequency = "weekly"
	BiWeekly Frequency = "bi-weekly"
	Monthly  Frequency = "monthly"
)

// Valid reports whether f is a known frequency
func (f Frequency) Valid() bool {
	switch f {
	case Weekly, BiWeekly, Monthly:
		return true
	}
	return false
}

// DateLayout is the wire and storage format of calendar dates
const DateLayout = "2006-01-02"

// Account represents a tracked savings or debt ledger entry
type Account struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Type           AccountType     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	DueDate        string          `json:"dueDate,omitempty"`
	MonthlyPayment *MonthlyPayment `json:"monthlyPayment,omitempty"`
	IncomeSchedule *IncomeSchedule `json:"incomeSchedule,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// MonthlyPayment is a recurring payment scheduled against a debt account
type MonthlyPayment struct {
	Amount          decimal.Decimal `json:"amount"`
	LinkedAccountID string          `json:"linkedAccountId"`
	NextPaymentDate string          `json:"nextPaymentDate"`
}

// IncomeSchedule describes a savings account fed by a recurring paycheck
type IncomeSchedule struct {
	PayDayDate        string          `json:"payDayDate"`
	EstimatedEarnings decimal.Decimal `json:"estimatedEarnings"`
	Frequency         Frequency       `json:"frequency"`
}

// AccountUpdate carries the fields of a partial account update.
// Nil fields are left untouched.
type AccountUpdate struct {
	Name           *string          `json:"name"`
	Description    *string          `json:"description"`
	Balance        *decimal.Decimal `json:"balance"`
	DueDate        *string          `json:"dueDate"`
	MonthlyPayment *MonthlyPayment  `json:"monthlyPayment"`
	IncomeSchedule *IncomeSchedule  `json:"incomeSchedule"`

	// ClearMonthlyPayment and ClearIncomeSchedule remove the schedule entirely
	ClearMonthlyPayment bool `json:"clearMonthlyPayment"`
	ClearIncomeSchedule bool `json:"clearIncomeSchedule"`
}
