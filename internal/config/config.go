// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Log      LogConfig
	Export   ExportConfig
	Database DatabaseConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env          string
	Dev          bool
	Lang         string
	InvoiceStart int64 // first invoice number handed out
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string // debug, info, warn, error
}

// ExportConfig holds line-item export settings.
type ExportConfig struct {
	Dir string
}

// DatabaseConfig holds the optional snapshot database settings.
// Driver is "none", "sqlite" or "postgres".
type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// Enabled reports whether exports should also be stored in a database.
func (d DatabaseConfig) Enabled() bool {
	return d.Driver == "sqlite" || d.Driver == "postgres"
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	env := getEnv("APP_ENV", "development")
	return &Config{
		App: AppConfig{
			Env:          env,
			Dev:          getEnvBool("DEV", env == "development"),
			Lang:         getEnv("LANG_UI", ""),
			InvoiceStart: int64(getEnvInt("INVOICE_START", 1)),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Export: ExportConfig{
			Dir: getEnv("EXPORT_DIR", "exports"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "none"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "facturation"),
			Password:   getEnv("DB_PASSWORD", "facturation"),
			DBName:     getEnv("DB_NAME", "facturation"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "facturation.db"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
