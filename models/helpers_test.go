package models_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/shopspring/decimal"
)

// setupDB points the package at a fresh migrated sqlite file for the test.
func setupDB(t *testing.T) context.Context {
	t.Helper()
	conn, err := config.OpenDatabase(config.DatabaseSettings{
		Driver:      config.DriverSQLite,
		Database:    filepath.Join(t.TempDir(), "models.db"),
		Environment: config.EnvTesting,
	})
	if err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}
	prev := config.GetDB()
	config.SetDB(conn)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
		config.SetDB(prev)
	})
	if err := models.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return context.Background()
}

// freezeClock fixes utils.Now for the rest of the test.
func freezeClock(t *testing.T, now time.Time) {
	t.Helper()
	restore := utils.SetClock(utils.FixedClock(now))
	t.Cleanup(restore)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func createWallet(t *testing.T, ctx context.Context, name string, budget string) *models.Wallet {
	t.Helper()
	w, err := models.CreateWallet(ctx, &models.NewWallet{Name: name, Budget: decPtr(budget)})
	if err != nil {
		t.Fatalf("CreateWallet(%s): %v", name, err)
	}
	return w
}

func ptr[T any](v T) *T {
	return &v
}

// expenseInput is a valid one-off expense; callers tweak the fields they test.
func expenseInput(walletId int, item string, date string, value string) *models.NewTransaction {
	return &models.NewTransaction{
		Item:          item,
		Date:          date,
		Value:         decPtr(value),
		Type:          models.TransactionTypeExpense,
		ExpenseType:   ptr(models.ExpenseTypeVariable),
		PaymentMethod: ptr(models.PaymentMethodPix),
		WalletId:      walletId,
	}
}

func createTransaction(t *testing.T, ctx context.Context, input *models.NewTransaction) *models.Transaction {
	t.Helper()
	tr, err := models.CreateTransaction(ctx, input)
	if err != nil {
		t.Fatalf("CreateTransaction(%s): %v", input.Item, err)
	}
	return tr
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !dec(want).Equal(got) {
		t.Fatalf("want %s, got %s", want, got.String())
	}
}
