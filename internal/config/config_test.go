package config

import (
	"os"
	"testing"
)

var configEnvVars = []string{
	"PORT", "ENV",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_POOL_MIN", "DB_POOL_MAX",
	"CORS_ORIGINS",
	"JWT_SECRET", "JWT_TOKEN_TTL_MINS",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASSWORD", "SMTP_FROM",
	"ALERT_HORIZON_DAYS", "ALERT_CRON",
	"SCRAPER_CRON", "SCRAPER_USER_AGENT", "SCRAPER_TIMEOUT_SECS",
}

func clearConfigEnvVars() {
	for _, key := range configEnvVars {
		os.Unsetenv(key)
	}
}

// setRequired sets the env vars that have no defaults.
func setRequired(t *testing.T) {
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Name != "texlien" {
		t.Errorf("Expected db name texlien, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.Auth.TokenTTLMins != 720 {
		t.Errorf("Expected token TTL 720, got %d", cfg.Auth.TokenTTLMins)
	}
	if cfg.Alerts.HorizonDays != 30 {
		t.Errorf("Expected alert horizon 30, got %d", cfg.Alerts.HorizonDays)
	}
	if cfg.Alerts.CronSpec == "" {
		t.Error("Expected a default alert cron spec")
	}
	if cfg.Scraper.TimeoutSecs != 30 {
		t.Errorf("Expected scraper timeout 30, got %d", cfg.Scraper.TimeoutSecs)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	setRequired(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_POOL_MAX", "25")
	t.Setenv("ALERT_HORIZON_DAYS", "14")
	t.Setenv("CORS_ORIGINS", "https://app.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Database.PoolMax != 25 {
		t.Errorf("Expected pool max 25, got %d", cfg.Database.PoolMax)
	}
	if cfg.Alerts.HorizonDays != 14 {
		t.Errorf("Expected alert horizon 14, got %d", cfg.Alerts.HorizonDays)
	}
	if len(cfg.CORS.Origins) != 1 || cfg.CORS.Origins[0] != "https://app.example.com" {
		t.Errorf("Unexpected CORS origins: %v", cfg.CORS.Origins)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	clearConfigEnvVars()
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DB_PASSWORD is missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	clearConfigEnvVars()
	t.Setenv("DB_PASSWORD", "testpass")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when JWT_SECRET is missing")
	}
}

func TestLoad_PartialSMTP(t *testing.T) {
	clearConfigEnvVars()
	setRequired(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when SMTP_HOST is set without SMTP_FROM")
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	clearConfigEnvVars()
	setRequired(t)
	t.Setenv("DB_POOL_MIN", "20")
	t.Setenv("DB_POOL_MAX", "5")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error when DB_POOL_MIN exceeds DB_POOL_MAX")
	}
}

func TestParseOrigins(t *testing.T) {
	origins := parseOrigins(" https://a.example.com , ,https://b.example.com")
	if len(origins) != 2 {
		t.Fatalf("Expected 2 origins, got %d: %v", len(origins), origins)
	}
	if origins[0] != "https://a.example.com" || origins[1] != "https://b.example.com" {
		t.Errorf("Unexpected origins: %v", origins)
	}
}
