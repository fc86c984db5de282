package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var (
	logg *logrus.Logger
)

func GetLogger() *logrus.Logger {
	return logg
}

func init() {
	godotenv.Load()
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logLevel(os.Getenv("LOG_LEVEL"), Environment()))
	logg.SetOutput(os.Stdout)
}

// logLevel falls back to debug for local, info for staging and error elsewhere.
func logLevel(raw string, env string) logrus.Level {
	if lvl, err := logrus.ParseLevel(strings.TrimSpace(raw)); err == nil && raw != "" {
		return lvl
	}
	switch env {
	case EnvLocal:
		return logrus.DebugLevel
	case EnvStaging:
		return logrus.InfoLevel
	default:
		return logrus.ErrorLevel
	}
}

func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
