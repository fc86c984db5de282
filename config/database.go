package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

var (
	db *gorm.DB
)

func GetDB() *gorm.DB {
	return db
}

// SetDB replaces the global connection; used by tests and cmd tools.
func SetDB(conn *gorm.DB) {
	db = conn
}

func init() {
	// Load env from .env
	godotenv.Load()
}

type DatabaseSettings struct {
	Driver      string
	Host        string
	Port        string
	Database    string
	User        string
	Password    string
	Environment string
}

// LoadDatabaseSettings reads DB_* variables with per-environment defaults:
// local and testing use a sqlite file, staging and production use mysql.
func LoadDatabaseSettings(env string) DatabaseSettings {
	s := DatabaseSettings{
		Driver:      strings.ToLower(strings.TrimSpace(os.Getenv("DB_CONNECTION"))),
		Host:        os.Getenv("DB_HOST"),
		Port:        os.Getenv("DB_PORT"),
		Database:    os.Getenv("DB_DATABASE"),
		User:        os.Getenv("DB_USERNAME"),
		Password:    os.Getenv("DB_PASSWORD"),
		Environment: env,
	}
	if s.Driver == "" {
		switch env {
		case EnvLocal, EnvTesting:
			s.Driver = DriverSQLite
		default:
			s.Driver = DriverMySQL
		}
	}
	switch s.Driver {
	case DriverSQLite:
		if s.Database == "" {
			if env == EnvTesting {
				s.Database = "file::memory:?cache=shared"
			} else {
				s.Database = filepath.Join("database", "database.sqlite")
			}
		}
	case DriverMySQL:
		if s.Host == "" {
			s.Host = "127.0.0.1"
		}
		if s.Port == "" {
			s.Port = "3306"
		}
		if s.Database == "" {
			switch env {
			case EnvLocal:
				s.Database = "controle_financeiro_local"
			case EnvStaging:
				s.Database = "controle_financeiro_staging"
			default:
				s.Database = "controle_financeiro"
			}
		}
	}
	return s
}

// ConnectionInfo describes the connection without credentials.
func (s DatabaseSettings) ConnectionInfo() map[string]string {
	info := map[string]string{
		"driver":      s.Driver,
		"database":    s.Database,
		"environment": s.Environment,
	}
	if s.Driver == DriverMySQL {
		info["host"] = s.Host
		info["port"] = s.Port
		info["username"] = s.User
	}
	return info
}

func (s DatabaseSettings) dialector() (gorm.Dialector, error) {
	switch s.Driver {
	case DriverSQLite:
		if dir := filepath.Dir(s.Database); !strings.HasPrefix(s.Database, "file:") && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return sqlite.Open(s.Database), nil
	case DriverMySQL:
		network := "tcp"
		address := fmt.Sprintf("%s:%s", s.Host, s.Port)
		// unix socket, e.g. DB_HOST=/cloudsql/<CONNECTION_NAME>
		if strings.HasPrefix(s.Host, "/") {
			network = "unix"
			address = s.Host
		}
		dsn := fmt.Sprintf("%s:%s@%s(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			s.User, s.Password, network, address, s.Database)
		return mysql.Open(dsn), nil
	default:
		return nil, errors.New("unsupported DB_CONNECTION " + s.Driver)
	}
}

// OpenDatabase opens and tunes a connection without touching the global one.
func OpenDatabase(s DatabaseSettings) (*gorm.DB, error) {
	dialector, err := s.dialector()
	if err != nil {
		return nil, err
	}
	conn, err := gorm.Open(dialector, initConfig())
	if err != nil {
		return nil, err
	}
	if sqlDB, derr := conn.DB(); derr == nil && sqlDB != nil {
		if s.Driver == DriverSQLite {
			// single writer
			sqlDB.SetMaxOpenConns(1)
		} else {
			maxOpen := intFromEnv("DB_MAX_OPEN_CONNS", 50)
			maxIdle := intFromEnv("DB_MAX_IDLE_CONNS", 25)
			connMaxLife := time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second
			connMaxIdle := time.Duration(intFromEnv("DB_CONN_MAX_IDLE_TIME_SECONDS", 60)) * time.Second
			if maxOpen > 0 {
				sqlDB.SetMaxOpenConns(maxOpen)
			}
			if maxIdle >= 0 {
				sqlDB.SetMaxIdleConns(maxIdle)
			}
			if connMaxLife > 0 {
				sqlDB.SetConnMaxLifetime(connMaxLife)
			}
			if connMaxIdle > 0 {
				sqlDB.SetConnMaxIdleTime(connMaxIdle)
			}
		}
	}
	if pluginErr := conn.Use(otelgorm.NewPlugin()); pluginErr != nil {
		log.Printf("db connected but failed to install otelgorm plugin: %v", pluginErr)
	}
	return conn, nil
}

// ConnectDatabaseWithRetry connects and sets the global DB.
// Call this from main() AFTER the HTTP server is listening.
func ConnectDatabaseWithRetry() {
	settings := LoadDatabaseSettings(Environment())

	var attempt int
	for {
		attempt++
		conn, err := OpenDatabase(settings)
		if err == nil {
			db = conn
			log.Printf("connected to database (attempt=%d driver=%s)", attempt, settings.Driver)
			return
		}

		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		log.Printf("failed to connect database (attempt=%d): %v; retrying in %s", attempt, err, sleep)
		time.Sleep(sleep)
	}
}

func intFromEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolFromEnv(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// InitConfig Initialize Config
func initConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         initLog(),
		NamingStrategy: initNamingStrategy(),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// InitLog Connection Log Configuration
func initLog() logger.Interface {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			Colorful:                  false,
			LogLevel:                  logger.Error,
			SlowThreshold:             time.Second,
			IgnoreRecordNotFoundError: true,
		},
	)
	return newLogger
}

// InitNamingStrategy Init NamingStrategy
func initNamingStrategy() *schema.NamingStrategy {
	return &schema.NamingStrategy{
		SingularTable: false,
		TablePrefix:   "",
	}
}
