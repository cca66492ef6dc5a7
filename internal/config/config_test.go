package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("TABLE_API_BASE_URL", "https://tables.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendTableAPI, cfg.Storage.Backend)
	assert.Equal(t, 10*time.Second, cfg.TableAPI.Timeout)
	assert.Equal(t, 2, cfg.TableAPI.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.TableAPI.RetryBackoff)
	assert.Zero(t, cfg.Cache.TTL)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/shift_scheduler?sslmode=disable", cfg.DatabaseURL())
}

func TestLoad_BadValues(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("API_TIMEOUT", "ten seconds")
	t.Setenv("APP_PORT", "http")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_TIMEOUT")
	assert.Contains(t, err.Error(), "APP_PORT")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Storage:  StorageConfig{Backend: BackendMemory},
			JWT:      JWTConfig{Secret: "s", AccessExpiration: "1h"},
			Database: DatabaseConfig{MaxConns: 4, MinConns: 1},
		}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.JWT.Secret = ""
	assert.ErrorContains(t, c.Validate(), "JWT_SECRET_KEY")

	c = valid()
	c.Storage.Backend = "sqlite"
	assert.ErrorContains(t, c.Validate(), "STORAGE_BACKEND")

	c = valid()
	c.Storage.Backend = BackendTableAPI
	assert.ErrorContains(t, c.Validate(), "TABLE_API_BASE_URL")

	c = valid()
	c.Storage.Backend = BackendPostgres
	assert.ErrorContains(t, c.Validate(), "DB_PASSWORD")

	c = valid()
	c.Cache.TTL = -time.Second
	assert.ErrorContains(t, c.Validate(), "CACHE_TTL")
}
