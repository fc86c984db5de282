package config

import "os"

// HealthCheckEnabled toggles /api/health.
//
// Set via env:
// - HEALTH_CHECK_ENABLED=false
func HealthCheckEnabled() bool {
	return boolFromEnv("HEALTH_CHECK_ENABLED", true)
}

func HealthCheckDatabase() bool {
	return boolFromEnv("HEALTH_CHECK_DATABASE", true)
}

func HealthCheckCache() bool {
	return boolFromEnv("HEALTH_CHECK_CACHE", true)
}

// MaintenanceMode reports the application as in maintenance in health checks.
func MaintenanceMode() bool {
	return boolFromEnv("MAINTENANCE_MODE", false)
}

// RateLimitEnabled toggles the per-client request limiter on /api.
func RateLimitEnabled() bool {
	return boolFromEnv("RATE_LIMIT_ENABLED", true)
}

// RateLimitPerMinute defaults to 60.
func RateLimitPerMinute() int {
	return intFromEnv("RATE_LIMIT_PER_MINUTE", 60)
}

// SlowRequestThresholdMs is the duration above which a request is logged as slow.
func SlowRequestThresholdMs() int {
	return intFromEnv("SLOW_REQUEST_THRESHOLD_MS", 1000)
}

// Debug enables X-Execution-Time on responses.
func Debug() bool {
	return boolFromEnv("APP_DEBUG", Environment() == EnvLocal)
}

func AppVersion() string {
	if v := os.Getenv("APP_VERSION"); v != "" {
		return v
	}
	return "1.0.0"
}
