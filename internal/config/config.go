// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Company  CompanyConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string
	ReadTimeout   int // seconds
	WriteTimeout  int // seconds
	IdleTimeout   int // seconds
	SessionSecret string
}

// DatabaseConfig selects and configures the database driver.
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	Host       string
	Port       int
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
	Debug      bool
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations bool
	// ChartYear fixes the dashboard's monthly series year; 0 follows the
	// current year.
	ChartYear int
}

// CompanyConfig seeds the letterhead until settings are saved.
type CompanyConfig struct {
	Name      string
	Tagline   string
	LegalForm string
	Email     string
	RCCM      string
	IFU       string
	Phones    string
	LogoURL   string
	Signatory string
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string
	Pretty bool
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// IsSQLite reports whether the SQLite driver is selected.
func (d DatabaseConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, "sqlite")
}

// Settings converts the company defaults into a settings record.
func (c CompanyConfig) Settings() models.CompanySettings {
	return models.CompanySettings{
		Name:      c.Name,
		Tagline:   c.Tagline,
		LegalForm: c.LegalForm,
		Email:     c.Email,
		RCCM:      c.RCCM,
		IFU:       c.IFU,
		Phones:    c.Phones,
		LogoURL:   c.LogoURL,
		Signatory: c.Signatory,
	}
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "8080"),
			ReadTimeout:   getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:  getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:   getEnvInt("SERVER_IDLE_TIMEOUT", 60),
			SessionSecret: getEnv("SESSION_SECRET", "devsessionsecret"),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnvInt("DB_PORT", 5432),
			User:       getEnv("DB_USER", "gestion"),
			Password:   getEnv("DB_PASSWORD", "gestion123"),
			DBName:     getEnv("DB_NAME", "gestion"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "gestion.db"),
			Debug:      getEnvBool("DB_DEBUG", false),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", true),
			Migrations: getEnvBool("MIGRATIONS", false),
			ChartYear:  getEnvInt("REVENUE_CHART_YEAR", 0),
		},
		Company: CompanyConfig{
			Name:      getEnv("COMPANY_NAME", "NGnior Conception"),
			Tagline:   getEnv("COMPANY_TAGLINE", "Conception - Etude - Suivi contrôle – construction"),
			LegalForm: getEnv("COMPANY_LEGAL_FORM", "SARL"),
			Email:     getEnv("COMPANY_EMAIL", "ngniorconceptions@gmail.com"),
			RCCM:      getEnv("COMPANY_RCCM", "BFOUA2019B1915"),
			IFU:       getEnv("COMPANY_IFU", "00117306P"),
			Phones:    getEnv("COMPANY_PHONES", "+226 56 88 65 05 | +226 71 35 33 75 | +226 68 68 10 20"),
			LogoURL:   getEnv("COMPANY_LOGO_URL", ""),
			Signatory: getEnv("COMPANY_SIGNATORY", "SANOU Mohamed Yacine"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
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
