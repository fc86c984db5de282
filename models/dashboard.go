package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MonthFigures struct {
	Revenues decimal.Decimal `json:"revenues"`
	Expenses decimal.Decimal `json:"expenses"`
	Balance  decimal.Decimal `json:"balance"`
}

type FigureChange struct {
	Percent     float64 `json:"percent"`
	Description string  `json:"description"`
}

type FinancialSummary struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Current           MonthFigures    `json:"current"`
	Previous          MonthFigures    `json:"previous"`
	RevenueChange     FigureChange    `json:"revenue_change"`
	ExpenseChange     FigureChange    `json:"expense_change"`
	BalanceChange     FigureChange    `json:"balance_change"`
	TotalWallets      int64           `json:"total_wallets"`
	TotalTransactions int64           `json:"total_transactions"`
	TotalBudget       decimal.Decimal `json:"total_budget"`
}

type ExpenseVsRevenue struct {
	Period      utils.Period    `json:"period"`
	PeriodLabel string          `json:"period_label"`
	StartDate   Date            `json:"start_date"`
	EndDate     Date            `json:"end_date"`
	Revenues    decimal.Decimal `json:"revenues"`
	Expenses    decimal.Decimal `json:"expenses"`
}

const mostExpensiveLimit = 10

func scopeSign(positive bool) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if positive {
			return db.Where("value > 0")
		}
		return db.Where("value < 0")
	}
}

// PercentageChange is the relative change from previous to current, in percent.
// A zero previous value yields 100 when current is positive, else 0.
func PercentageChange(previous decimal.Decimal, current decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	change, _ := current.Sub(previous).Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	return change
}

// ChangeDescription renders the change for a figure named subject.
func ChangeDescription(change float64, subject string) string {
	abs := change
	if abs < 0 {
		abs = -abs
	}
	if abs < 1 {
		return "Sem alteração significativa em " + subject
	}
	direction := "aumento"
	if change < 0 {
		direction = "redução"
	}
	return fmt.Sprintf("%s de %.1f%% em %s", strings.ToUpper(direction[:1])+direction[1:], abs, subject)
}

func figureChange(previous decimal.Decimal, current decimal.Decimal, subject string) FigureChange {
	p := PercentageChange(previous, current)
	return FigureChange{Percent: p, Description: ChangeDescription(p, subject)}
}

// monthFigures splits the month by sign of value: positive rows are revenue,
// negative rows are expenses reported as an absolute amount.
func monthFigures(ctx context.Context, year int, month time.Month) (MonthFigures, error) {
	revenues, err := sumTransactionValues(ctx, scopeMonth(year, month), scopeSign(true))
	if err != nil {
		return MonthFigures{}, err
	}
	expenses, err := sumTransactionValues(ctx, scopeMonth(year, month), scopeSign(false))
	if err != nil {
		return MonthFigures{}, err
	}
	expenses = expenses.Abs()
	return MonthFigures{Revenues: revenues, Expenses: expenses, Balance: revenues.Sub(expenses)}, nil
}

// GetFinancialSummary compares the current month with the previous one.
// Revenues and expenses are split by the sign of value, not by type, so a
// positive expense row counts as revenue here; GetExpenseVsRevenue uses type.
func GetFinancialSummary(ctx context.Context) (*FinancialSummary, error) {
	ctx, span := tracer.Start(ctx, "dashboard.financial_summary")
	defer span.End()

	year, month := currentMonth()
	prevYear, prevMonth := utils.GetPreviousMonth(year, month)

	current, err := monthFigures(ctx, year, month)
	if err != nil {
		return nil, err
	}
	previous, err := monthFigures(ctx, prevYear, prevMonth)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	summary := &FinancialSummary{
		Year:          year,
		Month:         int(month),
		Current:       current,
		Previous:      previous,
		RevenueChange: figureChange(previous.Revenues, current.Revenues, "receitas"),
		ExpenseChange: figureChange(previous.Expenses, current.Expenses, "despesas"),
		BalanceChange: figureChange(previous.Balance, current.Balance, "saldo"),
	}
	if err := db.WithContext(ctx).Model(&Wallet{}).Count(&summary.TotalWallets).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&Transaction{}).Count(&summary.TotalTransactions).Error; err != nil {
		return nil, err
	}
	if summary.TotalBudget, err = TotalBudget(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetExpenseVsRevenue sums income and expense transactions dated within the period.
func GetExpenseVsRevenue(ctx context.Context, period utils.Period) (*ExpenseVsRevenue, error) {
	if !period.IsValid() {
		period = utils.PeriodMonth
	}
	start, end := utils.GetPeriodRange(period, utils.Now())
	from, until := DateOf(start), DateOf(end)
	between := func(db *gorm.DB) *gorm.DB {
		return db.Where("date >= ? AND date <= ?", from, until)
	}

	revenues, err := sumTransactionValues(ctx, between, scopeType(TransactionTypeIncome))
	if err != nil {
		return nil, err
	}
	expenses, err := sumTransactionValues(ctx, between, scopeType(TransactionTypeExpense))
	if err != nil {
		return nil, err
	}
	return &ExpenseVsRevenue{
		Period:      period,
		PeriodLabel: period.Label(),
		StartDate:   from,
		EndDate:     until,
		Revenues:    revenues,
		Expenses:    expenses,
	}, nil
}

// GetMostExpensive lists the largest expense transactions with their wallet.
func GetMostExpensive(ctx context.Context) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	err := db.WithContext(ctx).Preload("Wallet").Scopes(scopeType(TransactionTypeExpense)).
		Order("value desc").Order("id").Limit(mostExpensiveLimit).Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
