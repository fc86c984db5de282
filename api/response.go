package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
)

const validationFailedMessage = "Dados de validação falharam"

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    data,
		"message": message,
	})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
	})
}

func respondFailure(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func respondValidation(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"success": false,
		"message": validationFailedMessage,
		"errors":  fields,
	})
}

// respondError maps domain errors to status codes. Anything unexpected is a
// 500 that exposes the error text and is recorded for the error logger.
func respondError(c *gin.Context, err error, failMessage string, notFoundMessage string) {
	if verr, ok := utils.AsValidationError(err); ok {
		respondValidation(c, verr.Fields)
		return
	}
	if errors.Is(err, utils.ErrorRecordNotFound) {
		respondFailure(c, http.StatusNotFound, notFoundMessage)
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": failMessage,
		"error":   err.Error(),
	})
}

// bindJSON answers 422 itself and returns false when the body cannot be bound.
func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondValidation(c, bindingFields(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dest any) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		respondValidation(c, bindingFields(err))
		return false
	}
	return true
}

func bindingFields(err error) map[string][]string {
	if fields, ok := utils.ProcessValidationErrors(err); ok {
		return fields
	}
	if errors.Is(err, io.EOF) {
		return map[string][]string{"body": {"O corpo da requisição é obrigatório."}}
	}
	return map[string][]string{"body": {"O corpo da requisição é inválido."}}
}

// paramId answers 404 with notFound when the id segment is not a positive integer.
func paramId(c *gin.Context, notFound string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondFailure(c, http.StatusNotFound, notFound)
		return 0, false
	}
	return id, true
}
