package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Transaction struct {
	ID               int               `gorm:"primary_key" json:"id"`
	Item             string            `gorm:"size:255;not null" json:"item"`
	Date             Date              `gorm:"index;not null" json:"date"`
	Value            decimal.Decimal   `gorm:"type:decimal(15,2);not null" json:"value"`
	Type             TransactionType   `gorm:"size:20;index;not null" json:"type"`
	ExpenseType      *ExpenseType      `gorm:"size:20" json:"expense_type"`
	PaymentMethod    *PaymentMethod    `gorm:"size:20" json:"payment_method"`
	Status           StatusTransaction `gorm:"size:20;index;not null" json:"status"`
	IsRecurring      bool              `gorm:"not null;default:false" json:"is_recurring"`
	RecurringType    *RecurringType    `gorm:"size:20" json:"recurring_type"`
	Installments     *int              `json:"installments"`
	RecurringEndDate *Date             `json:"recurring_end_date"`
	WalletId         int               `gorm:"index;not null" json:"wallet_id"`
	Wallet           *Wallet           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"wallet,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewTransaction struct {
	Item             string             `json:"item" binding:"required,max=255"`
	Date             string             `json:"date" binding:"required,datetime=2006-01-02"`
	Value            *decimal.Decimal   `json:"value" binding:"required"`
	Type             TransactionType    `json:"type" binding:"required,oneof=expense income"`
	ExpenseType      *ExpenseType       `json:"expense_type" binding:"omitempty,oneof=fixed variable"`
	PaymentMethod    *PaymentMethod     `json:"payment_method" binding:"omitempty,oneof=debit credit_card pix bank_slip"`
	Status           *StatusTransaction `json:"status" binding:"omitempty,oneof=pending paid overdue"`
	IsRecurring      bool               `json:"is_recurring"`
	RecurringType    *RecurringType     `json:"recurring_type" binding:"omitempty,oneof=weekly monthly yearly"`
	Installments     *int               `json:"installments" binding:"omitempty,min=1"`
	RecurringEndDate *string            `json:"recurring_end_date" binding:"omitempty,datetime=2006-01-02"`
	WalletId         int                `json:"wallet_id" binding:"required"`
}

// validate input for both create & update and return the normalized fields.
func (input *NewTransaction) validate(ctx context.Context) (*Transaction, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, err
	}
	verr := utils.NewValidationError()

	item := strings.TrimSpace(input.Item)
	if item == "" {
		verr.Add("item", "O campo item é obrigatório.")
	}
	date, err := ParseDate(input.Date)
	if err != nil {
		verr.Add("date", "O campo data deve ser uma data válida.")
	}

	t := &Transaction{
		Item:          item,
		Date:          date,
		Value:         input.Value.Round(2),
		Type:          input.Type,
		PaymentMethod: input.PaymentMethod,
		IsRecurring:   input.IsRecurring,
		WalletId:      input.WalletId,
	}

	// expense_type belongs to expenses only
	if input.Type == TransactionTypeExpense {
		if input.ExpenseType == nil {
			verr.Add("expense_type", "O campo tipo de despesa é obrigatório quando o tipo for despesa.")
		}
		t.ExpenseType = input.ExpenseType
	}

	if input.IsRecurring {
		if input.RecurringType == nil {
			verr.Add("recurring_type", "O campo tipo de recorrência é obrigatório para transações recorrentes.")
		}
		t.RecurringType = input.RecurringType
		t.Installments = input.Installments
		if input.RecurringEndDate != nil && *input.RecurringEndDate != "" {
			end, err := ParseDate(*input.RecurringEndDate)
			if err != nil {
				verr.Add("recurring_end_date", "O campo data final da recorrência deve ser uma data válida.")
			} else if end.Before(date) {
				verr.Add("recurring_end_date", "O campo data final da recorrência deve ser uma data posterior ou igual a data.")
			} else {
				t.RecurringEndDate = &end
			}
		}
		if t.Installments == nil && utils.DereferencePtr(input.RecurringEndDate) == "" {
			verr.Add("installments", "Informe o número de parcelas ou a data final da recorrência.")
		}
	}

	if input.WalletId > 0 {
		if err := utils.ValidateResourceId[Wallet](ctx, input.WalletId); err != nil {
			if !errors.Is(err, utils.ErrorRecordNotFound) {
				return nil, err
			}
			verr.Add("wallet_id", "A carteira selecionada não existe.")
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}
	return t, nil
}

// createTransactionRecord derives the status and inserts the row.
// Every write of a new transaction, copies included, goes through here.
func createTransactionRecord(tx *gorm.DB, t *Transaction) error {
	t.Status = DeriveStatus(t.PaymentMethod, t.Date, utils.Now(), t.Status)
	return tx.Omit(clause.Associations).Create(t).Error
}

// CreateTransaction stores the transaction and, for recurring masters,
// every generated occurrence in the same database transaction.
func CreateTransaction(ctx context.Context, input *NewTransaction) (*Transaction, error) {
	t, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}
	if input.Status != nil {
		t.Status = *input.Status
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := createTransactionRecord(tx, t); err != nil {
		tx.Rollback()
		return nil, err
	}
	if t.IsRecurring {
		if _, err := expandRecurrence(ctx, tx, t); err != nil {
			tx.Rollback()
			config.LogError(config.GetLogger(), "Transaction", "CreateTransaction", "expand recurrence", t.ID, err)
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetTransaction(ctx, t.ID)
}

// UpdateTransaction rewrites the row and re-derives its status. It never
// generates occurrences; that only happens when a master is created.
func UpdateTransaction(ctx context.Context, id int, input *NewTransaction) (*Transaction, error) {
	existing, err := utils.FetchModel[Transaction](ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := input.validate(ctx)
	if err != nil {
		return nil, err
	}

	current := existing.Status
	if input.Status != nil {
		current = *input.Status
	}
	t.ID = existing.ID
	t.CreatedAt = existing.CreatedAt
	if utils.DereferencePtr(input.RecurringEndDate) == "" && t.IsRecurring && t.usesInstallments() && t.RecurringType != nil {
		// the end date of an installment series is computed, not user input
		if *t.Installments > 1 {
			_, last := PlanInstallments(t.Item, t.Date, *t.RecurringType, *t.Installments)
			t.RecurringEndDate = &last
		} else {
			t.RecurringEndDate = existing.RecurringEndDate
		}
	}
	t.Status = DeriveStatus(t.PaymentMethod, t.Date, utils.Now(), current)

	db := config.GetDB()
	if err := db.WithContext(ctx).Omit(clause.Associations).Save(t).Error; err != nil {
		return nil, err
	}
	return GetTransaction(ctx, t.ID)
}

func DeleteTransaction(ctx context.Context, id int) (*Transaction, error) {
	result, err := utils.FetchModel[Transaction](ctx, id, "Wallet")
	if err != nil {
		return nil, err
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&Transaction{}, id).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetTransaction(ctx context.Context, id int) (*Transaction, error) {
	return utils.FetchModel[Transaction](ctx, id, "Wallet")
}

type TransactionFilter struct {
	WalletId      *int               `form:"wallet_id" binding:"omitempty,min=1"`
	Status        *StatusTransaction `form:"status" binding:"omitempty,oneof=pending paid overdue"`
	Type          *TransactionType   `form:"type" binding:"omitempty,oneof=expense income"`
	ExpenseType   *ExpenseType       `form:"expense_type" binding:"omitempty,oneof=fixed variable"`
	PaymentMethod *PaymentMethod     `form:"payment_method" binding:"omitempty,oneof=debit credit_card pix bank_slip"`
	IsRecurring   *bool              `form:"is_recurring"`
	DateFrom      *string            `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateUntil     *string            `form:"date_until" binding:"omitempty,datetime=2006-01-02"`
	Year          *int               `form:"year" binding:"omitempty,min=1900,max=9999"`
	Month         *int               `form:"month" binding:"omitempty,min=1,max=12"`
	Search        string             `form:"search"`
}

func (f *TransactionFilter) scope(db *gorm.DB) *gorm.DB {
	if f == nil {
		return db
	}
	if f.WalletId != nil {
		db = db.Where("wallet_id = ?", *f.WalletId)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.Type != nil {
		db = db.Where("type = ?", *f.Type)
	}
	if f.ExpenseType != nil {
		db = db.Where("expense_type = ?", *f.ExpenseType)
	}
	if f.PaymentMethod != nil {
		db = db.Where("payment_method = ?", *f.PaymentMethod)
	}
	if f.IsRecurring != nil {
		db = db.Where("is_recurring = ?", *f.IsRecurring)
	}
	if f.DateFrom != nil {
		if d, err := ParseDate(*f.DateFrom); err == nil {
			db = db.Where("date >= ?", d)
		}
	}
	if f.DateUntil != nil {
		if d, err := ParseDate(*f.DateUntil); err == nil {
			db = db.Where("date <= ?", d)
		}
	}
	if f.Year != nil && f.Month != nil {
		db = db.Scopes(scopeMonth(*f.Year, time.Month(*f.Month)))
	} else if f.Year != nil {
		start, end := NewDate(*f.Year, time.January, 1), NewDate(*f.Year+1, time.January, 1)
		db = db.Where("date >= ? AND date < ?", start, end)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		db = db.Where("item LIKE ?", "%"+s+"%")
	}
	return db
}

// ListTransactions returns matching transactions, most recent first, with their wallet.
func ListTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction
	err := db.WithContext(ctx).Preload("Wallet").Scopes(filter.scope).
		Order("date desc").Order("id desc").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
