package models

import "sort"

// enumMeta holds the display metadata of one enum value.
type enumMeta struct {
	label string
	color string
}

type TransactionType string

const (
	TransactionTypeExpense TransactionType = "expense"
	TransactionTypeIncome  TransactionType = "income"
)

var transactionTypes = map[TransactionType]enumMeta{
	TransactionTypeExpense: {"Despesa", "danger"},
	TransactionTypeIncome:  {"Receita", "success"},
}

func (t TransactionType) Label() string { return transactionTypes[t].label }
func (t TransactionType) Color() string { return transactionTypes[t].color }
func (t TransactionType) IsValid() bool {
	_, ok := transactionTypes[t]
	return ok
}

type ExpenseType string

const (
	ExpenseTypeFixed    ExpenseType = "fixed"
	ExpenseTypeVariable ExpenseType = "variable"
)

var expenseTypes = map[ExpenseType]enumMeta{
	ExpenseTypeFixed:    {"Fixa", "primary"},
	ExpenseTypeVariable: {"Variável", "warning"},
}

func (t ExpenseType) Label() string { return expenseTypes[t].label }
func (t ExpenseType) Color() string { return expenseTypes[t].color }
func (t ExpenseType) IsValid() bool {
	_, ok := expenseTypes[t]
	return ok
}

type PaymentMethod string

const (
	PaymentMethodDebit      PaymentMethod = "debit"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPix        PaymentMethod = "pix"
	PaymentMethodBankSlip   PaymentMethod = "bank_slip"
)

var paymentMethods = map[PaymentMethod]enumMeta{
	PaymentMethodDebit:      {"Débito", "primary"},
	PaymentMethodCreditCard: {"Cartão de Crédito", "warning"},
	PaymentMethodPix:        {"PIX", "success"},
	PaymentMethodBankSlip:   {"Boleto Bancário", "info"},
}

func (m PaymentMethod) Label() string { return paymentMethods[m].label }
func (m PaymentMethod) Color() string { return paymentMethods[m].color }
func (m PaymentMethod) IsValid() bool {
	_, ok := paymentMethods[m]
	return ok
}

type StatusTransaction string

const (
	StatusTransactionPending StatusTransaction = "pending"
	StatusTransactionPaid    StatusTransaction = "paid"
	StatusTransactionOverdue StatusTransaction = "overdue"
)

var statusTransactions = map[StatusTransaction]enumMeta{
	StatusTransactionPending: {"Em Aberto", "warning"},
	StatusTransactionPaid:    {"Paga", "success"},
	StatusTransactionOverdue: {"Atrasada", "danger"},
}

func (s StatusTransaction) Label() string { return statusTransactions[s].label }
func (s StatusTransaction) Color() string { return statusTransactions[s].color }
func (s StatusTransaction) IsValid() bool {
	_, ok := statusTransactions[s]
	return ok
}

// OpenStatuses are the statuses counted as not yet settled.
var OpenStatuses = []StatusTransaction{StatusTransactionPending, StatusTransactionOverdue}

type RecurringType string

const (
	RecurringTypeWeekly  RecurringType = "weekly"
	RecurringTypeMonthly RecurringType = "monthly"
	RecurringTypeYearly  RecurringType = "yearly"
)

var recurringTypes = map[RecurringType]enumMeta{
	RecurringTypeWeekly:  {"Semanal", "info"},
	RecurringTypeMonthly: {"Mensal", "primary"},
	RecurringTypeYearly:  {"Anual", "warning"},
}

func (r RecurringType) Label() string { return recurringTypes[r].label }
func (r RecurringType) Color() string { return recurringTypes[r].color }
func (r RecurringType) IsValid() bool {
	_, ok := recurringTypes[r]
	return ok
}

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super_admin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleEditor     UserRole = "editor"
)

var userRoles = map[UserRole]string{
	UserRoleSuperAdmin: "Super Admin",
	UserRoleAdmin:      "Admin",
	UserRoleEditor:     "Editor",
}

func (r UserRole) Label() string { return userRoles[r] }
func (r UserRole) IsValid() bool {
	_, ok := userRoles[r]
	return ok
}

// UserRoleValues lists roles from most to least privileged.
func UserRoleValues() []UserRole {
	return []UserRole{UserRoleSuperAdmin, UserRoleAdmin, UserRoleEditor}
}

// EnumOption is a value/label/color triple used by select inputs.
type EnumOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

func options[T ~string](m map[T]enumMeta) []EnumOption {
	out := make([]EnumOption, 0, len(m))
	for k, v := range m {
		out = append(out, EnumOption{Value: string(k), Label: v.label, Color: v.color})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// EnumOptions returns every enum keyed by its json name.
func EnumOptions() map[string][]EnumOption {
	roles := make([]EnumOption, 0, len(userRoles))
	for _, r := range UserRoleValues() {
		roles = append(roles, EnumOption{Value: string(r), Label: r.Label()})
	}
	return map[string][]EnumOption{
		"type":           options(transactionTypes),
		"expense_type":   options(expenseTypes),
		"payment_method": options(paymentMethods),
		"status":         options(statusTransactions),
		"recurring_type": options(recurringTypes),
		"role":           roles,
	}
}
