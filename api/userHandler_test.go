package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/fincontrol/finance_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndMe(t *testing.T) {
	s := newServer(t)
	_, user := s.tokenFor("Ana@Example.com", models.UserRoleEditor)

	rec := s.do(http.MethodPost, "/api/login", "", map[string]any{"email": "ana@example.com", "password": "errada123"})
	requireStatus(t, http.StatusUnauthorized, rec)
	assert.Equal(t, "Credenciais inválidas.", decode(t, rec).Message)

	rec = s.do(http.MethodPost, "/api/login", "", map[string]any{"password": "secret123"})
	requireStatus(t, http.StatusUnprocessableEntity, rec)
	assert.Equal(t, []string{"O campo e-mail é obrigatório."}, decode(t, rec).Errors["email"])

	rec = s.do(http.MethodPost, "/api/login", "", map[string]any{"email": "ANA@example.com", "password": "secret123"})
	requireStatus(t, http.StatusOK, rec)
	info := decodeData[models.LoginInfo](t, rec)
	assert.Equal(t, "Bearer", info.TokenType)
	require.NotEmpty(t, info.Token)
	assert.Equal(t, user.ID, info.User.ID)

	rec = s.do(http.MethodGet, "/api/me", info.Token, nil)
	requireStatus(t, http.StatusOK, rec)
	me := decodeData[models.User](t, rec)
	assert.Equal(t, "ana@example.com", me.Email)
	assert.Equal(t, models.UserRoleEditor, me.Role)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestChangePassword(t *testing.T) {
	s := newServer(t)
	token, _ := s.tokenFor("ana@example.com", models.UserRoleEditor)

	rec := s.do(http.MethodPut, "/api/me/password", token, map[string]any{"old_password": "nope", "password": "novasenha1"})
	requireStatus(t, http.StatusUnprocessableEntity, rec)
	assert.Equal(t, []string{"A senha atual está incorreta."}, decode(t, rec).Errors["old_password"])

	rec = s.do(http.MethodPut, "/api/me/password", token, map[string]any{"old_password": "secret123", "password": "curta"})
	requireStatus(t, http.StatusUnprocessableEntity, rec)
	assert.Contains(t, decode(t, rec).Errors, "password")

	rec = s.do(http.MethodPut, "/api/me/password", token, map[string]any{"old_password": "secret123", "password": "novasenha1"})
	requireStatus(t, http.StatusOK, rec)
	assert.Equal(t, "Senha alterada com sucesso", decode(t, rec).Message)

	rec = s.do(http.MethodPost, "/api/login", "", map[string]any{"email": "ana@example.com", "password": "novasenha1"})
	requireStatus(t, http.StatusOK, rec)
}

func TestUserManagementIsSuperAdminOnly(t *testing.T) {
	s := newServer(t)
	admin, _ := s.tokenFor("admin@example.com", models.UserRoleAdmin)
	root, rootUser := s.tokenFor("root@example.com", models.UserRoleSuperAdmin)

	rec := s.do(http.MethodGet, "/api/users", admin, nil)
	requireStatus(t, http.StatusForbidden, rec)

	rec = s.do(http.MethodPost, "/api/users", root, map[string]any{
		"name": "Bruno", "email": "bruno@example.com", "password": "senha1234", "role": "editor",
	})
	requireStatus(t, http.StatusCreated, rec)
	assert.Equal(t, "Usuário criado com sucesso", decode(t, rec).Message)
	bruno := decodeData[models.User](t, rec)
	path := "/api/users/" + strconv.Itoa(bruno.ID)

	rec = s.do(http.MethodPost, "/api/users", root, map[string]any{
		"name": "Outro", "email": "bruno@example.com", "password": "senha1234", "role": "manager",
	})
	requireStatus(t, http.StatusUnprocessableEntity, rec)
	assert.Contains(t, decode(t, rec).Errors, "role")

	rec = s.do(http.MethodPut, path, root, map[string]any{
		"name": "Bruno Lima", "email": "bruno@example.com", "role": "admin",
	})
	requireStatus(t, http.StatusOK, rec)
	assert.Equal(t, models.UserRoleAdmin, decodeData[models.User](t, rec).Role)

	rec = s.do(http.MethodGet, "/api/users", root, nil)
	requireStatus(t, http.StatusOK, rec)
	assert.Len(t, decodeData[[]models.User](t, rec), 3)

	// nobody deletes their own account
	rec = s.do(http.MethodDelete, "/api/users/"+strconv.Itoa(rootUser.ID), root, nil)
	requireStatus(t, http.StatusForbidden, rec)
	assert.Equal(t, "Esta ação não é autorizada.", decode(t, rec).Message)

	rec = s.do(http.MethodDelete, path, root, nil)
	requireStatus(t, http.StatusOK, rec)
	assert.Equal(t, "Usuário excluído com sucesso", decode(t, rec).Message)

	rec = s.do(http.MethodGet, path, root, nil)
	requireStatus(t, http.StatusNotFound, rec)
	assert.Equal(t, "Usuário não encontrado", decode(t, rec).Message)
}

func TestDeletedUserTokenIsRejected(t *testing.T) {
	s := newServer(t)
	root, _ := s.tokenFor("root@example.com", models.UserRoleSuperAdmin)
	token, user := s.tokenFor("temp@example.com", models.UserRoleEditor)

	requireStatus(t, http.StatusOK, s.do(http.MethodGet, "/api/me", token, nil))
	requireStatus(t, http.StatusOK, s.do(http.MethodDelete, "/api/users/"+strconv.Itoa(user.ID), root, nil))
	requireStatus(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me", token, nil))
}
