package models

import "github.com/shopspring/decimal"

// FinancialSummary aggregates balances across all accounts of a user
type FinancialSummary struct {
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	SavingsAccounts  int             `json:"savingsAccounts"`
	DebtAccounts     int             `json:"debtAccounts"`
}
