package api_test

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/middlewares"
	"github.com/fincontrol/finance_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardEndpoints(t *testing.T) {
	s := newServer(t)
	freezeClock(t, time.Date(2024, time.March, 18, 8, 0, 0, 0, time.UTC))
	admin, _ := s.tokenFor("admin@example.com", models.UserRoleAdmin)
	editor, _ := s.tokenFor("editor@example.com", models.UserRoleEditor)
	w := s.createWallet(admin, "Geral", "2000")

	salary := expenseBody(w.ID, "Salário", "2024-03-05", "5000")
	salary["type"] = "income"
	delete(salary, "expense_type")
	s.createTransaction(admin, salary)
	s.createTransaction(admin, expenseBody(w.ID, "Aluguel", "2024-03-10", "-1500"))
	s.createTransaction(admin, expenseBody(w.ID, "Mercado", "2024-03-12", "300"))

	rec := s.do(http.MethodGet, "/api/dashboard/summary", editor, nil)
	requireStatus(t, http.StatusOK, rec)
	summary := decodeData[models.FinancialSummary](t, rec)
	assert.Equal(t, 3, summary.Month)
	assertDecimal(t, "5300", summary.Current.Revenues)
	assertDecimal(t, "1500", summary.Current.Expenses)
	assert.Equal(t, "Aumento de 100.0% em receitas", summary.RevenueChange.Description)
	assert.Equal(t, int64(3), summary.TotalTransactions)

	rec = s.do(http.MethodGet, "/api/dashboard/expense-vs-revenue?period=year", editor, nil)
	requireStatus(t, http.StatusOK, rec)
	evr := decodeData[models.ExpenseVsRevenue](t, rec)
	assert.Equal(t, "Este Ano", evr.PeriodLabel)
	assert.Equal(t, "2024-01-01", evr.StartDate.String())
	assert.Equal(t, "2024-12-31", evr.EndDate.String())
	assertDecimal(t, "5000", evr.Revenues)
	assertDecimal(t, "-1200", evr.Expenses)

	rec = s.do(http.MethodGet, "/api/dashboard/expense-vs-revenue", editor, nil)
	assert.Equal(t, "Este Mês", decodeData[models.ExpenseVsRevenue](t, rec).PeriodLabel)

	rec = s.do(http.MethodGet, "/api/dashboard/most-expensive", editor, nil)
	requireStatus(t, http.StatusOK, rec)
	top := decodeData[[]*models.Transaction](t, rec)
	require.Len(t, top, 2)
	assert.Equal(t, "Mercado", top[0].Item)
	require.NotNil(t, top[0].Wallet)
}

func TestEnums(t *testing.T) {
	s := newServer(t)
	editor, _ := s.tokenFor("editor@example.com", models.UserRoleEditor)

	rec := s.do(http.MethodGet, "/api/enums", editor, nil)
	requireStatus(t, http.StatusOK, rec)
	enums := decodeData[map[string][]models.EnumOption](t, rec)
	assert.Len(t, enums["payment_method"], 4)
	assert.Len(t, enums["role"], 3)
	assert.Contains(t, enums["type"], models.EnumOption{Value: "expense", Label: models.TransactionTypeExpense.Label(), Color: models.TransactionTypeExpense.Color()})
}

func TestHealthEndpoints(t *testing.T) {
	t.Setenv("HEALTH_CHECK_CACHE", "false")
	t.Setenv("MAINTENANCE_MODE", "false")
	s := newServer(t)

	rec := s.do(http.MethodGet, "/healthz", "", nil)
	requireStatus(t, http.StatusOK, rec)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = s.do(http.MethodGet, "/api/health", "", nil)
	requireStatus(t, http.StatusOK, rec)
	var report config.HealthReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, config.HealthHealthy, report.Status)
	assert.Equal(t, config.HealthHealthy, report.Checks["database"].Status)

	t.Setenv("MAINTENANCE_MODE", "true")
	rec = s.do(http.MethodGet, "/api/health", "", nil)
	requireStatus(t, http.StatusServiceUnavailable, rec)

	t.Setenv("HEALTH_CHECK_ENABLED", "false")
	rec = s.do(http.MethodGet, "/api/health", "", nil)
	requireStatus(t, http.StatusServiceUnavailable, rec)
	assert.JSONEq(t, `{"status":"disabled","message":"Health checks are disabled"}`, rec.Body.String())
}

func TestRouterChrome(t *testing.T) {
	t.Setenv("APP_DEBUG", "true")
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/nowhere", "", nil)
	requireStatus(t, http.StatusNotFound, rec)
	assert.JSONEq(t, `{"success":false,"message":"Rota não encontrada."}`, rec.Body.String())
	assert.Len(t, rec.Header().Get(middlewares.CorrelationHeader), 36)
	assert.Regexp(t, regexp.MustCompile(`ms$`), rec.Header().Get(middlewares.ExecutionTimeHeader))

	prev := config.GetDB()
	config.SetDB(nil)
	rec = s.do(http.MethodGet, "/api/wallets", "", nil)
	config.SetDB(prev)
	requireStatus(t, http.StatusServiceUnavailable, rec)
}
