package service

import (
	"context"

	"github.com/Dan9191/finance-planner/internal/models"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Summarize totals savings as assets and debt as liabilities. Both are
// reported as positive amounts.
func Summarize(accounts []models.Account) models.FinancialSummary {
	savings, debts := lo.FilterReject(accounts, func(a models.Account, _ int) bool {
		return a.Type == models.AccountSavings
	})
	debts = lo.Filter(debts, func(a models.Account, _ int) bool {
		return a.Type == models.AccountDebt
	})

	assets := lo.Reduce(savings, func(sum decimal.Decimal, a models.Account, _ int) decimal.Decimal {
		return sum.Add(a.Balance.Abs())
	}, decimal.Zero)
	liabilities := lo.Reduce(debts, func(sum decimal.Decimal, a models.Account, _ int) decimal.Decimal {
		return sum.Add(a.Balance.Abs())
	}, decimal.Zero)

	return models.FinancialSummary{
		TotalAssets:      assets,
		TotalLiabilities: liabilities,
		NetWorth:         assets.Sub(liabilities),
		SavingsAccounts:  len(savings),
		DebtAccounts:     len(debts),
	}
}

// Summary returns the financial summary of the authenticated user
func (s *Service) Summary(ctx context.Context) (models.FinancialSummary, error) {
	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return models.FinancialSummary{}, err
	}
	return Summarize(accounts), nil
}
