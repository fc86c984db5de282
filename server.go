package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fincontrol/finance_backend/api"
	"github.com/fincontrol/finance_backend/config"
	"github.com/fincontrol/finance_backend/models"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// graceful drain on SIGTERM
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server first; until the database is ready the
	// readiness middleware answers 503 for application endpoints.
	r := api.NewRouter(logger)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	config.ConnectDatabaseWithRetry()
	// redis backs the user cache and the rate limiter, both of which work without it
	if strings.TrimSpace(os.Getenv("REDIS_ADDRESS")) != "" {
		go config.ConnectRedisWithRetry()
	}

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate can lock tables; large deployments run it as a separate job.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	if email := strings.TrimSpace(os.Getenv("ADMIN_EMAIL")); email != "" {
		seedAdmin(sigCtx, logger, email)
	}

	logger.WithFields(logrus.Fields{
		"info":        "Connection Established",
		"environment": config.Environment(),
	}).Info("listening on port ", port)
	log.Println("Server started successfully")

	select {
	case <-sigCtx.Done():
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}

// seedAdmin makes sure the configured account exists as super admin.
func seedAdmin(ctx context.Context, logger *logrus.Logger, email string) {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.WithFields(logrus.Fields{"field": "seed"}).Warn("ADMIN_EMAIL set without ADMIN_PASSWORD; skipping admin seed")
		return
	}
	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Administrador"
	}
	user, created, err := models.SeedSuperAdmin(ctx, name, email, password)
	if err != nil {
		config.LogError(logger, "main", "seedAdmin", "seed super admin", email, err)
		return
	}
	logger.WithFields(logrus.Fields{"user_id": user.ID, "created": created}).Info("super admin ready")
}
