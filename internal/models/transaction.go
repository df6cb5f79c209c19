package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of change recorded against an account
type TransactionType string

const (
	TransactionCreate TransactionType = "create"
	TransactionUpdate TransactionType = "update"
	TransactionDelete TransactionType = "delete"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionCreate, TransactionUpdate, TransactionDelete:
		return true
	}
	return false
}

// Transaction is an audit record of a balance change
type Transaction struct {
	ID              string           `json:"id"`
	AccountID       string           `json:"accountId"`
	AccountName     string           `json:"accountName"`
	UserID          string           `json:"userId"`
	Type            TransactionType  `json:"type"`
	PreviousBalance *decimal.Decimal `json:"previousBalance"`
	NewBalance      *decimal.Decimal `json:"newBalance"`
	Timestamp       time.Time        `json:"timestamp"`
	Description     string           `json:"description"`
	CreatedAt       time.Time        `json:"createdAt"`
}
