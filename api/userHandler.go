package api

import (
	"github.com/fincontrol/finance_backend/middlewares"
	"github.com/fincontrol/finance_backend/models"
	"github.com/gin-gonic/gin"
)

const userNotFound = "Usuário não encontrado"

func listUsers(c *gin.Context) {
	results, err := models.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Erro ao recuperar usuários", userNotFound)
		return
	}
	respondOK(c, "Usuários recuperados com sucesso", results)
}

func createUser(c *gin.Context) {
	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err, "Erro ao criar usuário", userNotFound)
		return
	}
	respondCreated(c, "Usuário criado com sucesso", result)
}

func showUser(c *gin.Context) {
	id, ok := paramId(c, userNotFound)
	if !ok {
		return
	}
	result, err := models.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Erro ao recuperar usuário", userNotFound)
		return
	}
	respondOK(c, "Usuário recuperado com sucesso", result)
}

func updateUser(c *gin.Context) {
	id, ok := paramId(c, userNotFound)
	if !ok {
		return
	}
	var input models.NewUser
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.UpdateUser(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err, "Erro ao atualizar usuário", userNotFound)
		return
	}
	respondOK(c, "Usuário atualizado com sucesso", result)
}

func deleteUser(c *gin.Context) {
	id, ok := paramId(c, userNotFound)
	if !ok {
		return
	}
	actor := middlewares.CurrentUser(c)
	if !models.CanOnUser(actor.ID, actor.Role, id, models.ActionDelete) {
		middlewares.Forbidden(c)
		return
	}
	if _, err := models.DeleteUser(c.Request.Context(), actor.ID, id); err != nil {
		respondError(c, err, "Erro ao excluir usuário", userNotFound)
		return
	}
	respondMessage(c, "Usuário excluído com sucesso")
}
