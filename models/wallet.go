package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

type Wallet struct {
	ID          int             `gorm:"primary_key" json:"id"`
	Name        string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description *string         `gorm:"type:text" json:"description"`
	Budget      decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"budget"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewWallet struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Description *string          `json:"description"`
	Budget      *decimal.Decimal `json:"budget"`
}

var ErrWalletHasTransactions = errors.New("wallet has transactions")

func (input *NewWallet) validate(ctx context.Context, id int) error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	verr := utils.NewValidationError()
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		verr.Add("name", "O campo nome é obrigatório.")
	} else {
		dup, err := utils.IsDuplicate[Wallet](ctx, "name", input.Name, id)
		if err != nil {
			return err
		}
		if dup {
			verr.Add("name", "O campo nome já está sendo utilizado.")
		}
	}
	if input.Budget != nil && input.Budget.IsNegative() {
		verr.Add("budget", "O campo orçamento deve ser maior ou igual a 0.")
	}
	return verr.OrNil()
}

func CreateWallet(ctx context.Context, input *NewWallet) (*Wallet, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}
	wallet := Wallet{
		Name:        input.Name,
		Description: input.Description,
		Budget:      utils.DereferencePtr(input.Budget, decimal.Zero),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func UpdateWallet(ctx context.Context, id int, input *NewWallet) (*Wallet, error) {
	wallet, err := utils.FetchModel[Wallet](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}
	wallet.Name = input.Name
	wallet.Description = input.Description
	wallet.Budget = utils.DereferencePtr(input.Budget, decimal.Zero)

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

// DeleteWallet refuses while the wallet still owns transactions.
func DeleteWallet(ctx context.Context, id int) (*Wallet, error) {
	wallet, err := utils.FetchModel[Wallet](ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := wallet.TransactionCount(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrWalletHasTransactions
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

func GetWallet(ctx context.Context, id int) (*Wallet, error) {
	return utils.FetchModel[Wallet](ctx, id)
}

func ListWallets(ctx context.Context, name string) ([]*Wallet, error) {
	db := config.GetDB()
	var results []*Wallet
	dbCtx := db.WithContext(ctx).Order("name")
	if name = strings.TrimSpace(name); name != "" {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+name+"%")
	}
	if err := dbCtx.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (w *Wallet) TransactionCount(ctx context.Context) (int64, error) {
	return utils.ResourceCountWhere[Transaction](ctx, "wallet_id = ?", w.ID)
}

/* aggregates */

func scopeWallet(walletId int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("wallet_id = ?", walletId)
	}
}

func scopeMonth(year int, month time.Month) func(*gorm.DB) *gorm.DB {
	start, next := MonthBounds(year, month)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date >= ? AND date < ?", start, next)
	}
}

func scopeStatus(statuses ...StatusTransaction) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status IN ?", statuses)
	}
}

func scopeType(t TransactionType) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("type = ?", t)
	}
}

// moneyScale matches the decimal(15,2) money columns.
const moneyScale = 2

// scanMoneySum runs a SUM query and returns it at column scale, 0 when empty.
// SQLite hands NUMERIC sums back as floats, hence the rounding.
func scanMoneySum(query *gorm.DB, column string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := query.Select("SUM(" + column + ")").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal.Round(moneyScale), nil
}

// sumTransactionValues returns SUM(value) over the scoped rows, 0 when empty.
func sumTransactionValues(ctx context.Context, scopes ...func(*gorm.DB) *gorm.DB) (decimal.Decimal, error) {
	db := config.GetDB()
	return scanMoneySum(db.WithContext(ctx).Model(&Transaction{}).Scopes(scopes...), "value")
}

func currentMonth() (int, time.Month) {
	now := utils.Now()
	return now.Year(), now.Month()
}

// TotalValue sums every transaction of the wallet.
func (w *Wallet) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "wallet.total_value")
	defer span.End()
	span.SetAttributes(attribute.Int("wallet.id", w.ID))
	return sumTransactionValues(ctx, scopeWallet(w.ID))
}

// OpenTransactionsValue sums pending and overdue transactions.
func (w *Wallet) OpenTransactionsValue(ctx context.Context) (decimal.Decimal, error) {
	return sumTransactionValues(ctx, scopeWallet(w.ID), scopeStatus(OpenStatuses...))
}

func (w *Wallet) OpenTransactionsValueForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	return sumTransactionValues(ctx, scopeWallet(w.ID), scopeStatus(OpenStatuses...), scopeMonth(year, month))
}

func (w *Wallet) OpenTransactionsValueCurrentMonth(ctx context.Context) (decimal.Decimal, error) {
	year, month := currentMonth()
	return w.OpenTransactionsValueForMonth(ctx, year, month)
}

// ExpenseTransactionsValue sums expense-type transactions dated in the month.
func (w *Wallet) ExpenseTransactionsValue(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	return sumTransactionValues(ctx, scopeWallet(w.ID), scopeType(TransactionTypeExpense), scopeMonth(year, month))
}

func (w *Wallet) PaidTransactionsValue(ctx context.Context) (decimal.Decimal, error) {
	return sumTransactionValues(ctx, scopeWallet(w.ID), scopeStatus(StatusTransactionPaid))
}

// RemainingBudget is budget minus the open value of the current month.
// It differs from RemainingBudgetForMonth, which subtracts expenses instead.
func (w *Wallet) RemainingBudget(ctx context.Context) (decimal.Decimal, error) {
	open, err := w.OpenTransactionsValueCurrentMonth(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Budget.Sub(open), nil
}

// RemainingBudgetForMonth is budget minus the expense value of the month.
func (w *Wallet) RemainingBudgetForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	expenses, err := w.ExpenseTransactionsValue(ctx, year, month)
	if err != nil {
		return decimal.Zero, err
	}
	return w.Budget.Sub(expenses), nil
}

// TotalRemainingBudgetForMonth sums RemainingBudgetForMonth over every wallet.
func TotalRemainingBudgetForMonth(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	budget, err := TotalBudget(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := sumTransactionValues(ctx, scopeType(TransactionTypeExpense), scopeMonth(year, month))
	if err != nil {
		return decimal.Zero, err
	}
	return budget.Sub(expenses), nil
}

func TotalBudget(ctx context.Context) (decimal.Decimal, error) {
	db := config.GetDB()
	return scanMoneySum(db.WithContext(ctx).Model(&Wallet{}), "budget")
}

// WalletSummary is the wallet row shown in listings with its derived figures.
type WalletSummary struct {
	*Wallet
	TransactionsCount                 int64           `json:"transactions_count"`
	TotalValue                        decimal.Decimal `json:"total_value"`
	OpenTransactionsValue             decimal.Decimal `json:"open_transactions_value"`
	OpenTransactionsValueCurrentMonth decimal.Decimal `json:"open_transactions_value_current_month"`
	PaidTransactionsValue             decimal.Decimal `json:"paid_transactions_value"`
	ExpenseTransactionsValue          decimal.Decimal `json:"expense_transactions_value"`
	RemainingBudget                   decimal.Decimal `json:"remaining_budget"`
	RemainingBudgetForMonth           decimal.Decimal `json:"remaining_budget_for_month"`
	Year                              int             `json:"year"`
	Month                             int             `json:"month"`
}

// Summarize computes every aggregate of the wallet; expense figures use (year, month).
func (w *Wallet) Summarize(ctx context.Context, year int, month time.Month) (*WalletSummary, error) {
	ctx, span := tracer.Start(ctx, "wallet.summarize")
	defer span.End()
	span.SetAttributes(attribute.Int("wallet.id", w.ID))

	s := &WalletSummary{Wallet: w, Year: year, Month: int(month)}
	var err error
	if s.TransactionsCount, err = w.TransactionCount(ctx); err != nil {
		return nil, err
	}
	if s.TotalValue, err = w.TotalValue(ctx); err != nil {
		return nil, err
	}
	if s.OpenTransactionsValue, err = w.OpenTransactionsValue(ctx); err != nil {
		return nil, err
	}
	if s.OpenTransactionsValueCurrentMonth, err = w.OpenTransactionsValueCurrentMonth(ctx); err != nil {
		return nil, err
	}
	if s.PaidTransactionsValue, err = w.PaidTransactionsValue(ctx); err != nil {
		return nil, err
	}
	if s.ExpenseTransactionsValue, err = w.ExpenseTransactionsValue(ctx, year, month); err != nil {
		return nil, err
	}
	s.RemainingBudget = w.Budget.Sub(s.OpenTransactionsValueCurrentMonth)
	s.RemainingBudgetForMonth = w.Budget.Sub(s.ExpenseTransactionsValue)
	return s, nil
}
