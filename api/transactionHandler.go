package api

import (
	"github.com/fincontrol/finance_backend/models"
	"github.com/gin-gonic/gin"
)

const transactionNotFound = "Transação não encontrada"

func listTransactions(c *gin.Context) {
	var filter models.TransactionFilter
	if !bindQuery(c, &filter) {
		return
	}
	results, err := models.ListTransactions(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, err, "Erro ao recuperar transações", transactionNotFound)
		return
	}
	respondOK(c, "Transações recuperadas com sucesso", results)
}

func createTransaction(c *gin.Context) {
	var input models.NewTransaction
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.CreateTransaction(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "Erro ao criar transação", transactionNotFound)
		return
	}
	respondCreated(c, "Transação criada com sucesso", result)
}

func showTransaction(c *gin.Context) {
	id, ok := paramId(c, transactionNotFound)
	if !ok {
		return
	}
	result, err := models.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Erro ao recuperar transação", transactionNotFound)
		return
	}
	respondOK(c, "Transação recuperada com sucesso", result)
}

func updateTransaction(c *gin.Context) {
	id, ok := paramId(c, transactionNotFound)
	if !ok {
		return
	}
	var input models.NewTransaction
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.UpdateTransaction(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err, "Erro ao atualizar transação", transactionNotFound)
		return
	}
	respondOK(c, "Transação atualizada com sucesso", result)
}

func deleteTransaction(c *gin.Context) {
	id, ok := paramId(c, transactionNotFound)
	if !ok {
		return
	}
	if _, err := models.DeleteTransaction(c.Request.Context(), id); err != nil {
		respondError(c, err, "Erro ao excluir transação", transactionNotFound)
		return
	}
	respondMessage(c, "Transação excluída com sucesso")
}

// reconcileTransaction recreates missing occurrences of a recurring master.
func reconcileTransaction(c *gin.Context) {
	id, ok := paramId(c, transactionNotFound)
	if !ok {
		return
	}
	created, err := models.CreateMissingOccurrences(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Erro ao conciliar transação recorrente", transactionNotFound)
		return
	}
	respondOK(c, "Ocorrências recorrentes conciliadas com sucesso", gin.H{"created": created})
}
