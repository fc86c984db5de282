package api

import (
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/middlewares"
	"github.com/fincontrol/finance_backend/models"
	"github.com/fincontrol/finance_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const (
	SimpleHealthPath = "/healthz"
	HealthPath       = "/api/health"
)

var tracer = otel.Tracer("finance_backend")

var registerValidator sync.Once

// validation errors from request binding report json field names
func useJSONFieldNames() {
	registerValidator.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			utils.RegisterJSONTagNames(v)
		}
	})
}

func corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	// production requires an explicit allowlist, CORS_ALLOWED_ORIGINS (comma-separated)
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if config.IsProduction() {
		corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		if len(corsConfig.AllowOrigins) == 0 {
			// deny all
			corsConfig.AllowOriginFunc = func(string) bool { return false }
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization", middlewares.CorrelationHeader)
	corsConfig.AddExposeHeaders("Content-Length", "Content-Disposition", middlewares.ExecutionTimeHeader)
	corsConfig.AllowCredentials = true
	return corsConfig
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Rota não encontrada."})
}

// NewRouter wires the middleware chain and every REST route.
func NewRouter(logger *logrus.Logger) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(middlewares.CorrelationId())
	r.Use(middlewares.Tracing(tracer))
	r.Use(middlewares.Readiness(SimpleHealthPath, HealthPath))
	r.Use(cors.New(corsConfig()))
	r.Use(middlewares.CustomErrorLogger(logger))
	r.Use(middlewares.RequestMonitor(logger))
	r.Use(gin.Recovery())

	r.GET(SimpleHealthPath, simpleHealth)
	r.GET(HealthPath, health(logger))

	api := r.Group("/api")
	if config.RateLimitEnabled() {
		limiter := middlewares.NewRateLimiter(config.GetRedisDB, int64(config.RateLimitPerMinute()), time.Minute)
		api.Use(limiter.RateLimitMiddleware)
	}
	api.POST("/login", login)

	auth := api.Group("", middlewares.AuthMiddleware())
	auth.GET("/me", me)
	auth.PUT("/me/password", changePassword)
	auth.GET("/enums", listEnums)

	can := middlewares.RequirePermission

	transactions := auth.Group("/transactions")
	{
		res := models.ResourceTransaction
		transactions.GET("", can(res, models.ActionViewAny), listTransactions)
		transactions.POST("", can(res, models.ActionCreate), createTransaction)
		transactions.GET("/:id", can(res, models.ActionView), showTransaction)
		transactions.PUT("/:id", can(res, models.ActionUpdate), updateTransaction)
		transactions.PATCH("/:id", can(res, models.ActionUpdate), updateTransaction)
		transactions.DELETE("/:id", can(res, models.ActionDelete), deleteTransaction)
		transactions.POST("/:id/reconcile", can(res, models.ActionUpdate), reconcileTransaction)
	}

	wallets := auth.Group("/wallets")
	{
		res := models.ResourceWallet
		wallets.GET("", can(res, models.ActionViewAny), listWallets)
		wallets.POST("", can(res, models.ActionCreate), createWallet)
		wallets.GET("/:id", can(res, models.ActionView), showWallet)
		wallets.PUT("/:id", can(res, models.ActionUpdate), updateWallet)
		wallets.PATCH("/:id", can(res, models.ActionUpdate), updateWallet)
		wallets.DELETE("/:id", can(res, models.ActionDelete), deleteWallet)
		wallets.GET("/:id/statement", can(res, models.ActionView), showWalletStatement)
		wallets.GET("/:id/statement/export", can(res, models.ActionView), exportWalletStatement)
	}

	auth.GET("/company", can(models.ResourceCompany, models.ActionView), showCompanyInstance)
	companies := auth.Group("/companies")
	{
		res := models.ResourceCompany
		companies.GET("", can(res, models.ActionViewAny), listCompanies)
		companies.POST("", can(res, models.ActionCreate), createCompany)
		companies.GET("/:id", can(res, models.ActionView), showCompany)
		companies.PUT("/:id", can(res, models.ActionUpdate), updateCompany)
		companies.PATCH("/:id", can(res, models.ActionUpdate), updateCompany)
		companies.DELETE("/:id", can(res, models.ActionDelete), deleteCompany)
	}

	users := auth.Group("/users")
	{
		res := models.ResourceUser
		users.GET("", can(res, models.ActionViewAny), listUsers)
		users.POST("", can(res, models.ActionCreate), createUser)
		users.GET("/:id", can(res, models.ActionView), showUser)
		users.PUT("/:id", can(res, models.ActionUpdate), updateUser)
		users.PATCH("/:id", can(res, models.ActionUpdate), updateUser)
		users.DELETE("/:id", can(res, models.ActionDelete), deleteUser)
	}

	dashboard := auth.Group("/dashboard", can(models.ResourceTransaction, models.ActionViewAny))
	{
		dashboard.GET("/summary", financialSummary)
		dashboard.GET("/expense-vs-revenue", expenseVsRevenue)
		dashboard.GET("/most-expensive", mostExpensive)
	}

	r.NoRoute(customNotFoundHandler)
	return r
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
