package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ALLOWED_ORIGINS", "MIGRATIONS_PATH",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE",
		"REDIS_ENABLED", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD",
		"JWT_SECRET", "JWT_EXPIRATION",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5173", cfg.Server.AllowedOrigins)
	assert.Equal(t, "migrations", cfg.Server.MigrationsPath)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "tasknexus", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "6379", cfg.Redis.Connection.Port)
	assert.Equal(t, "default-dev-secret", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "tasknexus_test")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("JWT_SECRET", "prod-secret")
	t.Setenv("JWT_EXPIRATION", "15m")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "tasknexus_test", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "prod-secret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.Expiry)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRATION", "soon")
	t.Setenv("REDIS_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.False(t, cfg.Redis.Enabled)
}
