package api

import (
	"errors"
	"net/http"

	"github.com/fincontrol/finance_backend/middlewares"
	"github.com/fincontrol/finance_backend/models"
	"github.com/gin-gonic/gin"
)

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password    string `json:"password" binding:"required,min=8,max=255"`
}

func login(c *gin.Context) {
	var input loginInput
	if !bindJSON(c, &input) {
		return
	}
	result, err := models.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			respondFailure(c, http.StatusUnauthorized, "Credenciais inválidas.")
			return
		}
		respondError(c, err, "Erro ao autenticar", userNotFound)
		return
	}
	respondOK(c, "Login realizado com sucesso", result)
}

func me(c *gin.Context) {
	respondOK(c, "Usuário autenticado", middlewares.CurrentUser(c))
}

func changePassword(c *gin.Context) {
	var input changePasswordInput
	if !bindJSON(c, &input) {
		return
	}
	if _, err := models.ChangePassword(c.Request.Context(), input.OldPassword, input.Password); err != nil {
		respondError(c, err, "Erro ao alterar senha", userNotFound)
		return
	}
	respondMessage(c, "Senha alterada com sucesso")
}
