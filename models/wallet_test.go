package models_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletTotalValue(t *testing.T) {
	ctx := setupDB(t)
	w := createWallet(t, ctx, "Pessoal", "0")

	createTransaction(t, ctx, expenseInput(w.ID, "Mercado", "2024-01-05", "100.50"))
	createTransaction(t, ctx, expenseInput(w.ID, "Farmácia", "2024-01-06", "250.75"))

	total, err := w.TotalValue(ctx)
	require.NoError(t, err)
	assertDecimal(t, "351.25", total)

	createTransaction(t, ctx, expenseInput(w.ID, "Estorno", "2024-01-07", "-50.00"))
	total, err = w.TotalValue(ctx)
	require.NoError(t, err)
	assertDecimal(t, "301.25", total)
}

func TestWalletSumsKeepCentsExact(t *testing.T) {
	ctx := setupDB(t)
	w := createWallet(t, ctx, "Miúdos", "5000.00")

	createTransaction(t, ctx, expenseInput(w.ID, "Bala", "2024-03-05", "0.10"))
	createTransaction(t, ctx, expenseInput(w.ID, "Chiclete", "2024-03-06", "0.20"))

	total, err := w.TotalValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.3", total.String())

	createTransaction(t, ctx, expenseInput(w.ID, "Reforma", "2024-03-12", "1200.10"))
	remaining, err := w.RemainingBudgetForMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, "3799.6", remaining.String())

	createWallet(t, ctx, "Troco", "0.10")
	createWallet(t, ctx, "Cofrinho", "0.20")
	budget, err := models.TotalBudget(ctx)
	require.NoError(t, err)
	assert.Equal(t, "5000.3", budget.String())
}

func TestWalletAggregatesOnEmptyWallet(t *testing.T) {
	ctx := setupDB(t)
	w := createWallet(t, ctx, "Vazia", "750")

	total, err := w.TotalValue(ctx)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	open, err := w.OpenTransactionsValue(ctx)
	require.NoError(t, err)
	assert.True(t, open.IsZero())

	remaining, err := w.RemainingBudgetForMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assertDecimal(t, "750", remaining)
}

func TestRemainingBudgetForMonth(t *testing.T) {
	ctx := setupDB(t)
	w := createWallet(t, ctx, "Casa", "5000.00")

	createTransaction(t, ctx, expenseInput(w.ID, "Reforma", "2024-03-12", "1200.00"))
	// other months and incomes do not count
	createTransaction(t, ctx, expenseInput(w.ID, "Pintura", "2024-04-01", "300.00"))
	income := expenseInput(w.ID, "Reembolso", "2024-03-20", "900.00")
	income.Type = models.TransactionTypeIncome
	createTransaction(t, ctx, income)

	remaining, err := w.RemainingBudgetForMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assertDecimal(t, "3800", remaining)

	expenses, err := w.ExpenseTransactionsValue(ctx, 2024, time.March)
	require.NoError(t, err)
	assertDecimal(t, "1200", expenses)

	all, err := models.TotalRemainingBudgetForMonth(ctx, 2024, time.March)
	require.NoError(t, err)
	assertDecimal(t, "3800", all)
}

func TestRemainingBudgetUsesOpenValueOfCurrentMonth(t *testing.T) {
	ctx := setupDB(t)
	freezeClock(t, time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC))
	w := createWallet(t, ctx, "Mensal", "1000")

	createTransaction(t, ctx, expenseInput(w.ID, "Luz", "2024-05-02", "200"))
	paid := expenseInput(w.ID, "Água", "2024-05-03", "150")
	paid.Status = ptr(models.StatusTransactionPaid)
	createTransaction(t, ctx, paid)
	overdue := expenseInput(w.ID, "Internet", "2024-05-04", "100")
	overdue.Status = ptr(models.StatusTransactionOverdue)
	createTransaction(t, ctx, overdue)
	createTransaction(t, ctx, expenseInput(w.ID, "Gás", "2024-06-01", "80"))

	openMonth, err := w.OpenTransactionsValueCurrentMonth(ctx)
	require.NoError(t, err)
	assertDecimal(t, "300", openMonth)

	open, err := w.OpenTransactionsValue(ctx)
	require.NoError(t, err)
	assertDecimal(t, "380", open)

	paidValue, err := w.PaidTransactionsValue(ctx)
	require.NoError(t, err)
	assertDecimal(t, "150", paidValue)

	remaining, err := w.RemainingBudget(ctx)
	require.NoError(t, err)
	assertDecimal(t, "700", remaining)

	// the expense based figure counts the paid row too
	forMonth, err := w.RemainingBudgetForMonth(ctx, 2024, time.May)
	require.NoError(t, err)
	assertDecimal(t, "550", forMonth)

	summary, err := w.Summarize(ctx, 2024, time.May)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.TransactionsCount)
	assertDecimal(t, "700", summary.RemainingBudget)
	assertDecimal(t, "550", summary.RemainingBudgetForMonth)
}

func TestWalletValidationAndDelete(t *testing.T) {
	ctx := setupDB(t)
	w := createWallet(t, ctx, "Principal", "10")

	_, err := models.CreateWallet(ctx, &models.NewWallet{Name: " Principal "})
	verr, ok := utils.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, []string{"O campo nome já está sendo utilizado."}, verr.Fields["name"])

	_, err = models.CreateWallet(ctx, &models.NewWallet{Name: "Negativa", Budget: decPtr("-1")})
	verr, ok = utils.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "budget")

	_, err = models.CreateWallet(ctx, &models.NewWallet{})
	verr, ok = utils.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"O campo nome é obrigatório."}, verr.Fields["name"])

	updated, err := models.UpdateWallet(ctx, w.ID, &models.NewWallet{Name: "Principal", Budget: decPtr("20")})
	require.NoError(t, err)
	assertDecimal(t, "20", updated.Budget)

	createTransaction(t, ctx, expenseInput(w.ID, "Mercado", "2024-01-05", "10"))
	_, err = models.DeleteWallet(ctx, w.ID)
	assert.True(t, errors.Is(err, models.ErrWalletHasTransactions))

	empty := createWallet(t, ctx, "Descartável", "0")
	_, err = models.DeleteWallet(ctx, empty.ID)
	require.NoError(t, err)
	_, err = models.GetWallet(ctx, empty.ID)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)

	list, err := models.ListWallets(ctx, "princ")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, w.ID, list[0].ID)
}
