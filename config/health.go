package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	HealthHealthy     = "healthy"
	HealthDegraded    = "degraded"
	HealthUnhealthy   = "unhealthy"
	HealthMaintenance = "maintenance"
	HealthDisabled    = "disabled"
)

type HealthCheck struct {
	Status         string   `json:"status"`
	ResponseTimeMs *float64 `json:"response_time_ms,omitempty"`
	Connection     string   `json:"connection,omitempty"`
	Driver         string   `json:"driver,omitempty"`
	Message        string   `json:"message,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type HealthReport struct {
	Status      string                 `json:"status"`
	Message     string                 `json:"message,omitempty"`
	Timestamp   string                 `json:"timestamp,omitempty"`
	Checks      map[string]HealthCheck `json:"checks,omitempty"`
	Version     string                 `json:"version,omitempty"`
	Environment string                 `json:"environment,omitempty"`
}

// Healthy reports whether the overall status maps to 200.
func (r *HealthReport) Healthy() bool {
	return r.Status == HealthHealthy
}

func elapsedMs(start time.Time) *float64 {
	ms := math.Round(float64(time.Since(start).Microseconds())/10) / 100
	return &ms
}

func CheckDatabase(c context.Context) HealthCheck {
	conn := GetDB()
	if conn == nil {
		return HealthCheck{Status: HealthUnhealthy, Error: "database not connected"}
	}
	driver := conn.Dialector.Name()
	start := time.Now()
	var result int
	if err := conn.WithContext(c).Raw("SELECT 1 AS test").Scan(&result).Error; err != nil {
		return HealthCheck{Status: HealthUnhealthy, Error: err.Error(), Connection: driver}
	}
	if result != 1 {
		return HealthCheck{Status: HealthUnhealthy, Error: "database query returned unexpected result", Connection: driver}
	}
	return HealthCheck{Status: HealthHealthy, ResponseTimeMs: elapsedMs(start), Connection: driver}
}

// CheckCache writes, reads back and deletes a probe key.
func CheckCache(c context.Context) HealthCheck {
	if rdb == nil {
		return HealthCheck{Status: HealthUnhealthy, Error: "cache not connected", Driver: "redis"}
	}
	start := time.Now()
	key := fmt.Sprintf("health_check_%d", time.Now().Unix())
	value := fmt.Sprintf("test_value_%d", 1000+rand.Intn(9000))
	err := func() error {
		if err := rdb.Set(c, key, value, time.Minute).Err(); err != nil {
			return err
		}
		got, err := rdb.Get(c, key).Result()
		if err != nil {
			return err
		}
		if err := rdb.Del(c, key).Err(); err != nil {
			return err
		}
		if got != value {
			return errors.New("cache read/write test failed")
		}
		return nil
	}()
	if err != nil {
		return HealthCheck{Status: HealthUnhealthy, Error: err.Error(), Driver: "redis"}
	}
	return HealthCheck{Status: HealthHealthy, ResponseTimeMs: elapsedMs(start), Driver: "redis"}
}

func CheckApplication() HealthCheck {
	if MaintenanceMode() {
		return HealthCheck{Status: HealthMaintenance, Message: "Application is in maintenance mode"}
	}
	return HealthCheck{Status: HealthHealthy}
}

// RunHealthCheck aggregates the enabled checks. A failing database or
// application check makes the report unhealthy, a failing cache only degraded.
func RunHealthCheck(c context.Context) *HealthReport {
	if !HealthCheckEnabled() {
		return &HealthReport{Status: HealthDisabled, Message: "Health checks are disabled"}
	}

	report := &HealthReport{
		Status:      HealthHealthy,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Checks:      make(map[string]HealthCheck),
		Version:     AppVersion(),
		Environment: Environment(),
	}
	unhealthy := false

	if HealthCheckDatabase() {
		check := CheckDatabase(c)
		report.Checks["database"] = check
		if check.Status != HealthHealthy {
			unhealthy = true
		}
	}
	if HealthCheckCache() {
		check := CheckCache(c)
		report.Checks["cache"] = check
		if check.Status != HealthHealthy {
			report.Status = HealthDegraded
		}
	}
	app := CheckApplication()
	report.Checks["application"] = app
	if app.Status != HealthHealthy {
		unhealthy = true
	}

	if unhealthy {
		report.Status = HealthUnhealthy
	}
	return report
}
