package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("finance_backend/models")

// NextOccurrence advances d by one recurrence step. Monthly and yearly steps
// clamp to the last day of the target month (Jan 31 -> Feb 29 in leap years).
func NextOccurrence(d Date, rt RecurringType) Date {
	switch rt {
	case RecurringTypeWeekly:
		return d.AddDays(7)
	case RecurringTypeMonthly:
		return Date(utils.AddMonthsClamped(d.Time(), 1))
	case RecurringTypeYearly:
		return Date(utils.AddMonthsClamped(d.Time(), 12))
	}
	return d
}

// Occurrence is one planned copy of a recurring master.
type Occurrence struct {
	Date Date
	Item string
}

func installmentLabel(item string, i int, n int) string {
	return fmt.Sprintf("%s (%d/%d)", item, i, n)
}

// PlanInstallments plans copies 2..n of an installment series. The master is
// installment 1. last is the date of the final installment, or start when n <= 1.
func PlanInstallments(item string, start Date, rt RecurringType, n int) (plan []Occurrence, last Date) {
	cursor := start
	for i := 2; i <= n; i++ {
		cursor = NextOccurrence(cursor, rt)
		plan = append(plan, Occurrence{Date: cursor, Item: installmentLabel(item, i, n)})
	}
	return plan, cursor
}

// PlanUntil plans copies from `from` through end, skipping the master's own date.
func PlanUntil(item string, master Date, from Date, end Date, rt RecurringType) []Occurrence {
	if !rt.IsValid() {
		return nil
	}
	var plan []Occurrence
	for cursor := from; !cursor.After(end); cursor = NextOccurrence(cursor, rt) {
		if !cursor.Equal(master) {
			plan = append(plan, Occurrence{Date: cursor, Item: item})
		}
	}
	return plan
}

// expandable reports whether the master carries enough to generate copies.
func (t *Transaction) expandable() bool {
	if !t.IsRecurring || t.RecurringType == nil || !t.RecurringType.IsValid() {
		return false
	}
	if t.Installments != nil && *t.Installments >= 1 {
		return true
	}
	return t.RecurringEndDate != nil && !t.RecurringEndDate.Before(t.Date)
}

func (t *Transaction) usesInstallments() bool {
	return t.Installments != nil && *t.Installments >= 1
}

// copyFor builds a non-recurring leaf inheriting the master's money fields.
func (t *Transaction) copyFor(o Occurrence) *Transaction {
	return &Transaction{
		Item:          o.Item,
		Date:          o.Date,
		Value:         t.Value,
		Type:          t.Type,
		ExpenseType:   t.ExpenseType,
		PaymentMethod: t.PaymentMethod,
		Status:        t.Status,
		IsRecurring:   false,
		WalletId:      t.WalletId,
	}
}

func createOccurrences(tx *gorm.DB, master *Transaction, plan []Occurrence) (int, error) {
	for _, o := range plan {
		if err := createTransactionRecord(tx, master.copyFor(o)); err != nil {
			return 0, err
		}
	}
	return len(plan), nil
}

// expandRecurrence materializes every occurrence of a freshly created master.
// Malformed masters are skipped silently.
func expandRecurrence(ctx context.Context, tx *gorm.DB, master *Transaction) (int, error) {
	if !master.expandable() {
		return 0, nil
	}
	ctx, span := tracer.Start(ctx, "recurrence.expand")
	defer span.End()
	span.SetAttributes(attribute.Int("transaction.id", master.ID))

	tx = tx.WithContext(ctx)
	rt := *master.RecurringType
	if master.usesInstallments() {
		plan, last := PlanInstallments(master.Item, master.Date, rt, *master.Installments)
		created, err := createOccurrences(tx, master, plan)
		if err != nil {
			return 0, err
		}
		if *master.Installments > 1 {
			if err := patchRecurringEndDate(tx, master, last); err != nil {
				return 0, err
			}
		}
		span.SetAttributes(attribute.Int("recurrence.created", created))
		return created, nil
	}

	plan := PlanUntil(master.Item, master.Date, master.Date, *master.RecurringEndDate, rt)
	created, err := createOccurrences(tx, master, plan)
	span.SetAttributes(attribute.Int("recurrence.created", created))
	return created, err
}

// patchRecurringEndDate writes the computed end date without running status
// derivation or touching updated_at.
func patchRecurringEndDate(tx *gorm.DB, master *Transaction, end Date) error {
	if err := tx.Model(&Transaction{}).Where("id = ?", master.ID).
		UpdateColumn("recurring_end_date", end).Error; err != nil {
		return err
	}
	master.RecurringEndDate = &end
	return nil
}

// CreateMissingOccurrences reconciles a recurring master with its copies and
// creates whatever is absent. Running it repeatedly creates nothing new.
func CreateMissingOccurrences(ctx context.Context, masterId int) (int, error) {
	db := config.GetDB()
	var master Transaction
	if err := db.WithContext(ctx).First(&master, masterId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.ErrorRecordNotFound
		}
		return 0, err
	}
	if !master.expandable() {
		return 0, nil
	}

	ctx, span := tracer.Start(ctx, "recurrence.reconcile")
	defer span.End()
	span.SetAttributes(attribute.Int("transaction.id", master.ID))

	tx := db.WithContext(ctx).Begin()
	created, err := createMissingOccurrences(tx, &master)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int("recurrence.created", created))
	return created, nil
}

func createMissingOccurrences(tx *gorm.DB, master *Transaction) (int, error) {
	rt := *master.RecurringType

	if master.usesInstallments() {
		plan, last := PlanInstallments(master.Item, master.Date, rt, *master.Installments)
		labels := make([]string, 0, len(plan))
		for _, o := range plan {
			labels = append(labels, o.Item)
		}
		var existing []string
		if len(labels) > 0 {
			if err := tx.Model(&Transaction{}).
				Where("wallet_id = ? AND is_recurring = ? AND id <> ? AND item IN ?", master.WalletId, false, master.ID, labels).
				Pluck("item", &existing).Error; err != nil {
				return 0, err
			}
		}
		have := make(map[string]bool, len(existing))
		for _, item := range existing {
			have[item] = true
		}
		var missing []Occurrence
		for _, o := range plan {
			if !have[o.Item] {
				missing = append(missing, o)
			}
		}
		created, err := createOccurrences(tx, master, missing)
		if err != nil {
			return 0, err
		}
		if *master.Installments > 1 && (master.RecurringEndDate == nil || !master.RecurringEndDate.Equal(last)) {
			if err := patchRecurringEndDate(tx, master, last); err != nil {
				return 0, err
			}
		}
		return created, nil
	}

	var latest Transaction
	err := tx.Where("item = ? AND wallet_id = ? AND is_recurring = ? AND id <> ?", master.Item, master.WalletId, false, master.ID).
		Order("date desc").Order("id desc").Take(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	from := master.Date
	if err == nil {
		from = NextOccurrence(latest.Date, rt)
	}
	plan := PlanUntil(master.Item, master.Date, from, *master.RecurringEndDate, rt)
	return createOccurrences(tx, master, plan)
}

// ReconcileRecurringTransactions runs CreateMissingOccurrences over every master.
func ReconcileRecurringTransactions(ctx context.Context) (int, error) {
	db := config.GetDB()
	var ids []int
	if err := db.WithContext(ctx).Model(&Transaction{}).
		Where("is_recurring = ?", true).Order("id").Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		created, err := CreateMissingOccurrences(ctx, id)
		if err != nil {
			config.LogError(config.GetLogger(), "Recurrence", "ReconcileRecurringTransactions", "reconcile master", id, err)
			return total, err
		}
		total += created
	}
	return total, nil
}
