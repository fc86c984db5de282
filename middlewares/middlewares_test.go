package middlewares_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/middlewares"
	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupDB(t *testing.T) {
	t.Helper()
	conn, err := config.OpenDatabase(config.DatabaseSettings{
		Driver:      config.DriverSQLite,
		Database:    filepath.Join(t.TempDir(), "middlewares.db"),
		Environment: config.EnvTesting,
	})
	require.NoError(t, err)
	prev := config.GetDB()
	config.SetDB(conn)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
		config.SetDB(prev)
	})
	require.NoError(t, models.Migrate())
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCorrelationId(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.CorrelationId())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen, _ = utils.GetCorrelationIdFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middlewares.CorrelationHeader, "abc-123")
	rec := serve(r, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(middlewares.CorrelationHeader))

	rec = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(middlewares.CorrelationHeader))
}

func TestTracingKeepsResponseAndContext(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.CorrelationId())
	r.Use(middlewares.Tracing(noop.NewTracerProvider().Tracer("test")))
	var sawSpan, sawCid bool
	r.GET("/teapot", func(c *gin.Context) {
		sawSpan = trace.SpanFromContext(c.Request.Context()) != nil
		_, sawCid = utils.GetCorrelationIdFromContext(c.Request.Context())
		c.Status(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.True(t, sawSpan)
	assert.True(t, sawCid)
}

func TestReadinessWaitsForDatabase(t *testing.T) {
	prev := config.GetDB()
	config.SetDB(nil)
	t.Cleanup(func() { config.SetDB(prev) })

	r := gin.New()
	r.Use(middlewares.Readiness("/healthz"))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/wallets", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(r, httptest.NewRequest(http.MethodGet, "/api/wallets", nil)).Code)
}

func TestMonitorPerformance(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(middlewares.MonitorPerformance(logger, time.Millisecond, true))
	r.GET("/slow", func(c *gin.Context) {
		time.Sleep(5 * time.Millisecond)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/slow?x=1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, regexp.MustCompile(`^\d+\.\d{2}ms$`), rec.Header().Get(middlewares.ExecutionTimeHeader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "Slow request detected", entry.Message)
	assert.Equal(t, "/slow?x=1", entry.Data["url"])
	assert.Equal(t, http.MethodGet, entry.Data["method"])

	hook.Reset()
	quiet := gin.New()
	quiet.Use(middlewares.MonitorPerformance(logger, time.Minute, false))
	quiet.GET("/fast", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	rec = serve(quiet, httptest.NewRequest(http.MethodGet, "/fast", nil))
	assert.Empty(t, rec.Header().Get(middlewares.ExecutionTimeHeader))
	assert.Empty(t, hook.AllEntries())
}

func TestCustomErrorLoggerOnlyLogsErrors(t *testing.T) {
	logger, hook := test.NewNullLogger()
	r := gin.New()
	r.Use(middlewares.CustomErrorLogger(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, hook.AllEntries())

	serve(r, httptest.NewRequest(http.MethodGet, "/fail", nil))
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Contains(t, entry.Message, "boom")
	assert.Equal(t, http.StatusInternalServerError, entry.Data["status"])
}

func TestRateLimiterWithoutRedisLetsRequestsThrough(t *testing.T) {
	limiter := middlewares.NewRateLimiter(func() *redis.Client { return nil }, 1, time.Minute)
	r := gin.New()
	r.Use(limiter.RateLimitMiddleware)
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
	}
}

func authRouter() *gin.Engine {
	r := gin.New()
	r.Use(middlewares.AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		id, _ := utils.GetUserIdFromContext(c.Request.Context())
		role, _ := utils.GetUserRoleFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role, "name": middlewares.CurrentUser(c).Name})
	})
	r.POST("/wallets", middlewares.RequirePermission(models.ResourceWallet, models.ActionCreate),
		func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func bearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func createUser(t *testing.T, email string, role models.UserRole) (*models.User, string) {
	t.Helper()
	user, err := models.CreateUser(context.Background(), &models.NewUser{
		Name: "Teste", Email: email, Password: "secret123", Role: role,
	})
	require.NoError(t, err)
	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	require.NoError(t, err)
	return user, token
}

func TestAuthMiddleware(t *testing.T) {
	setupDB(t)
	r := authRouter()

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Não autenticado."}`, rec.Body.String())

	rec = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/me", nil), "not-a-token"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	user, token := createUser(t, "ana@example.com", models.UserRoleEditor)
	rec = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/me", nil), token))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":`+strconv.Itoa(user.ID)+`,"role":"editor","name":"Teste"}`, rec.Body.String())

	// token of a removed account
	ghost, err := utils.JwtGenerate(9999, "super_admin")
	require.NoError(t, err)
	rec = serve(r, bearer(httptest.NewRequest(http.MethodGet, "/me", nil), ghost))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequirePermission(t *testing.T) {
	setupDB(t)
	r := authRouter()

	_, editor := createUser(t, "editor@example.com", models.UserRoleEditor)
	rec := serve(r, bearer(httptest.NewRequest(http.MethodPost, "/wallets", nil), editor))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Esta ação não é autorizada."}`, rec.Body.String())

	_, admin := createUser(t, "admin@example.com", models.UserRoleAdmin)
	rec = serve(r, bearer(httptest.NewRequest(http.MethodPost, "/wallets", nil), admin))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
