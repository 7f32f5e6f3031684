package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Auth     AuthConfig
	SMTP     SMTPConfig
	Alerts   AlertConfig
	Scraper  ScraperConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// AuthConfig holds JWT signing configuration.
type AuthConfig struct {
	JWTSecret    string
	TokenTTLMins int
}

// SMTPConfig holds outbound mail configuration. Email alerts are disabled
// when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

// AlertConfig holds alert-evaluation settings.
type AlertConfig struct {
	// HorizonDays is the look-ahead window for redemption-deadline alerts.
	HorizonDays int
	// CronSpec schedules the daily alert evaluation job.
	CronSpec string
}

// ScraperConfig holds county-scraper settings.
type ScraperConfig struct {
	// CronSpec schedules the daily scrape import job; empty disables it.
	CronSpec string
	// UserAgent is sent on every scraper request.
	UserAgent string
	// TimeoutSecs bounds each scraper HTTP request.
	TimeoutSecs int
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "texlien")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("JWT_TOKEN_TTL_MINS", 720)
	v.SetDefault("ALERT_HORIZON_DAYS", 30)
	v.SetDefault("ALERT_CRON", "0 0 8 * * *")
	v.SetDefault("SCRAPER_CRON", "0 0 6 * * *")
	v.SetDefault("SCRAPER_USER_AGENT", "texlien/1.0 (+tax sale research)")
	v.SetDefault("SCRAPER_TIMEOUT_SECS", 30)
	v.SetDefault("SMTP_PORT", "587")

	// Bind environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			TokenTTLMins: v.GetInt("JWT_TOKEN_TTL_MINS"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetString("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Alerts: AlertConfig{
			HorizonDays: v.GetInt("ALERT_HORIZON_DAYS"),
			CronSpec:    v.GetString("ALERT_CRON"),
		},
		Scraper: ScraperConfig{
			CronSpec:    v.GetString("SCRAPER_CRON"),
			UserAgent:   v.GetString("SCRAPER_USER_AGENT"),
			TimeoutSecs: v.GetInt("SCRAPER_TIMEOUT_SECS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTLMins < 1 {
		return fmt.Errorf("JWT_TOKEN_TTL_MINS must be at least 1")
	}

	if c.Alerts.HorizonDays < 1 {
		return fmt.Errorf("ALERT_HORIZON_DAYS must be at least 1")
	}
	if c.Alerts.CronSpec == "" {
		return fmt.Errorf("ALERT_CRON is required")
	}

	if c.Scraper.TimeoutSecs < 1 {
		return fmt.Errorf("SCRAPER_TIMEOUT_SECS must be at least 1")
	}

	// SMTP is optional, but a partially configured mailer is a mistake.
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}

	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
