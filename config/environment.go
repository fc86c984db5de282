package config

import (
	"os"
	"strings"
)

const (
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"
	EnvTesting    = "testing"
)

var envAliases = map[string]string{
	"dev":         EnvLocal,
	"development": EnvLocal,
	"stage":       EnvStaging,
	"prod":        EnvProduction,
	"testing":     EnvTesting,
}

var (
	localHostPatterns   = []string{"localhost", "127.0.0.1", "::1", ".local", ".test", ".dev"}
	stagingHostPatterns = []string{"staging", "stage", "dev.", "test."}
)

// Environment returns the normalized environment name.
// APP_ENV wins; otherwise the hostname decides, falling back to production.
func Environment() string {
	hostname := os.Getenv("APP_HOST")
	if hostname == "" {
		hostname, _ = os.Hostname()
	}
	return DetectEnvironment(os.Getenv("APP_ENV"), hostname)
}

func DetectEnvironment(appEnv string, hostname string) string {
	if strings.TrimSpace(appEnv) != "" {
		return NormalizeEnvironment(appEnv)
	}
	for _, p := range localHostPatterns {
		if strings.Contains(hostname, p) {
			return EnvLocal
		}
	}
	for _, p := range stagingHostPatterns {
		if strings.Contains(hostname, p) {
			return EnvStaging
		}
	}
	return EnvProduction
}

func NormalizeEnvironment(env string) string {
	env = strings.ToLower(strings.TrimSpace(env))
	if v, ok := envAliases[env]; ok {
		return v
	}
	return env
}

func IsProduction() bool {
	return Environment() == EnvProduction
}
