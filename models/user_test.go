package models_test

import (
	"testing"

	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLifecycle(t *testing.T) {
	ctx := setupDB(t)

	admin, err := models.CreateUser(ctx, &models.NewUser{
		Name: "Ana", Email: "Ana@Example.com", Password: "segredo123", Role: models.UserRoleSuperAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", admin.Email)
	assert.True(t, utils.IsHashedPassword(admin.Password))

	_, err = models.CreateUser(ctx, &models.NewUser{
		Name: "Outra Ana", Email: "ana@example.com", Password: "segredo123", Role: models.UserRoleEditor,
	})
	verr, ok := utils.AsValidationError(err)
	require.True(t, ok, "expected validation error, got %v", err)
	assert.Equal(t, []string{"O campo e-mail já está sendo utilizado."}, verr.Fields["email"])

	_, err = models.CreateUser(ctx, &models.NewUser{Name: "Sem senha", Email: "x@example.com", Role: models.UserRoleEditor})
	verr, ok = utils.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "password")

	editor, err := models.CreateUser(ctx, &models.NewUser{
		Name: "Bruno", Email: "bruno@example.com", Password: "segredo123", Role: models.UserRoleEditor,
	})
	require.NoError(t, err)

	// empty password keeps the stored hash
	updated, err := models.UpdateUser(ctx, editor.ID, &models.NewUser{
		Name: "Bruno Silva", Email: "bruno@example.com", Role: models.UserRoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, editor.Password, updated.Password)
	assert.Equal(t, models.UserRoleAdmin, updated.Role)

	_, err = models.DeleteUser(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, models.ErrCannotDeleteSelf)

	_, err = models.DeleteUser(ctx, admin.ID, editor.ID)
	require.NoError(t, err)
	_, err = models.GetUser(ctx, editor.ID)
	assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
}

func TestLoginAndCachedUser(t *testing.T) {
	ctx := setupDB(t)
	user, created, err := models.SeedSuperAdmin(ctx, "Admin", "admin@example.com", "senha-forte")
	require.NoError(t, err)
	require.True(t, created)

	_, created, err = models.SeedSuperAdmin(ctx, "Admin", "ADMIN@example.com", "ignored-pass")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = models.Login(ctx, "admin@example.com", "errada")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	_, err = models.Login(ctx, "nobody@example.com", "senha-forte")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	info, err := models.Login(ctx, " Admin@Example.com ", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", info.TokenType)
	assert.Equal(t, user.ID, info.User.ID)

	claims, err := utils.ParseClaims(info.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.ID)
	assert.Equal(t, string(models.UserRoleSuperAdmin), claims.Role)

	// no redis in tests, so this reads through to the database
	cached, err := models.GetCachedUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, cached.Email)

	changed, err := models.ChangePassword(utils.SetUserIdInContext(ctx, user.ID), "senha-forte", "nova-senha-123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, changed.ID)
	_, err = models.Login(ctx, "admin@example.com", "nova-senha-123")
	assert.NoError(t, err)
}
