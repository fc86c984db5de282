package api

import (
	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

const dashboardFailed = "Erro ao recuperar painel"

func financialSummary(c *gin.Context) {
	result, err := models.GetFinancialSummary(c.Request.Context())
	if err != nil {
		respondError(c, err, dashboardFailed, dashboardFailed)
		return
	}
	respondOK(c, "Resumo financeiro recuperado com sucesso", result)
}

// expenseVsRevenue accepts ?period=today|week|month|quarter|year; anything else means month.
func expenseVsRevenue(c *gin.Context) {
	period := utils.Period(c.DefaultQuery("period", string(utils.PeriodMonth)))
	result, err := models.GetExpenseVsRevenue(c.Request.Context(), period)
	if err != nil {
		respondError(c, err, dashboardFailed, dashboardFailed)
		return
	}
	respondOK(c, "Despesas e receitas recuperadas com sucesso", result)
}

func mostExpensive(c *gin.Context) {
	results, err := models.GetMostExpensive(c.Request.Context())
	if err != nil {
		respondError(c, err, dashboardFailed, dashboardFailed)
		return
	}
	respondOK(c, "Maiores despesas recuperadas com sucesso", results)
}

func listEnums(c *gin.Context) {
	respondOK(c, "Opções recuperadas com sucesso", models.EnumOptions())
}
