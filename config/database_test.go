package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fincontrol/finance_backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_CONNECTION", "DB_HOST", "DB_PORT", "DB_DATABASE", "DB_USERNAME", "DB_PASSWORD"} {
		t.Setenv(k, "")
	}
}

func TestLoadDatabaseSettingsDefaults(t *testing.T) {
	clearDBEnv(t)

	local := config.LoadDatabaseSettings(config.EnvLocal)
	assert.Equal(t, config.DriverSQLite, local.Driver)
	assert.Equal(t, filepath.Join("database", "database.sqlite"), local.Database)

	testEnv := config.LoadDatabaseSettings(config.EnvTesting)
	assert.Equal(t, config.DriverSQLite, testEnv.Driver)

	staging := config.LoadDatabaseSettings(config.EnvStaging)
	assert.Equal(t, config.DriverMySQL, staging.Driver)
	assert.Equal(t, "controle_financeiro_staging", staging.Database)
	assert.Equal(t, "3306", staging.Port)

	prod := config.LoadDatabaseSettings(config.EnvProduction)
	assert.Equal(t, config.DriverMySQL, prod.Driver)
	assert.Equal(t, "controle_financeiro", prod.Database)
}

func TestLoadDatabaseSettingsExplicitDriver(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_CONNECTION", "MySQL")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_DATABASE", "finance")
	t.Setenv("DB_USERNAME", "app")
	t.Setenv("DB_PASSWORD", "s3cret")

	s := config.LoadDatabaseSettings(config.EnvLocal)
	require.Equal(t, config.DriverMySQL, s.Driver)

	info := s.ConnectionInfo()
	assert.Equal(t, "db.internal", info["host"])
	assert.Equal(t, "finance", info["database"])
	assert.Equal(t, "app", info["username"])
	for _, v := range info {
		assert.NotContains(t, v, "s3cret")
	}
}

func TestOpenDatabaseSQLiteAndCheck(t *testing.T) {
	s := config.DatabaseSettings{
		Driver:      config.DriverSQLite,
		Database:    filepath.Join(t.TempDir(), "health.db"),
		Environment: config.EnvTesting,
	}
	conn, err := config.OpenDatabase(s)
	require.NoError(t, err)

	prev := config.GetDB()
	config.SetDB(conn)
	t.Cleanup(func() { config.SetDB(prev) })

	check := config.CheckDatabase(context.Background())
	assert.Equal(t, config.HealthHealthy, check.Status)
	assert.Equal(t, "sqlite", check.Connection)
	assert.NotNil(t, check.ResponseTimeMs)
}

func TestOpenDatabaseUnsupportedDriver(t *testing.T) {
	_, err := config.OpenDatabase(config.DatabaseSettings{Driver: "oracle"})
	assert.Error(t, err)
}
