package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendTableAPI = "tableapi"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	TableAPI TableAPIConfig
	Database DatabaseConfig
	Cache    CacheConfig
	JWT      JWTConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	Backend string // tableapi, postgres or memory

	// SeedPassword is given to the default accounts of the memory backend.
	SeedPassword string
}

// TableAPIConfig holds the remote table API client settings
type TableAPIConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
	ListLimit    int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32

	// AutoMigrate applies the embedded schema at startup.
	AutoMigrate bool
}

type CacheConfig struct {
	TTL          time.Duration
	WarmInterval time.Duration // 0 disables the background refresh
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	} else if err != nil {
		slog.Debug("no .env file, using process environment only")
	}

	config := &Config{}
	var errs []error

	// Application configuration
	config.App = AppConfig{
		Port:               getEnvInt("APP_PORT", 8080, &errs),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.Storage = StorageConfig{
		Backend:      strings.ToLower(getEnv("STORAGE_BACKEND", BackendTableAPI)),
		SeedPassword: getEnv("MEMORY_SEED_PASSWORD", "password"),
	}

	// Table API configuration
	config.TableAPI = TableAPIConfig{
		BaseURL:      getEnv("TABLE_API_BASE_URL", ""),
		Timeout:      getEnvDuration("API_TIMEOUT", 10*time.Second, &errs),
		MaxRetries:   getEnvInt("API_MAX_RETRIES", 2, &errs),
		RetryBackoff: getEnvDuration("API_RETRY_BACKOFF", 200*time.Millisecond, &errs),
		ListLimit:    getEnvInt("API_LIST_LIMIT", 1000, &errs),
	}

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvInt("DB_PORT", 5432, &errs),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shift_scheduler"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10, &errs)),
		MinConns: int32(getEnvInt("DB_MIN_CONNS", 1, &errs)),

		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true, &errs),
	}

	config.Cache = CacheConfig{
		TTL:          getEnvDuration("CACHE_TTL", 0, &errs),
		WarmInterval: getEnvDuration("CACHE_WARM_INTERVAL", 0, &errs),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	switch c.Storage.Backend {
	case BackendTableAPI:
		if c.TableAPI.BaseURL == "" {
			return fmt.Errorf("TABLE_API_BASE_URL is required for the tableapi backend")
		}
		if c.TableAPI.MaxRetries < 0 {
			return fmt.Errorf("API_MAX_RETRIES must not be negative")
		}
	case BackendPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres backend")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS must not exceed DB_MAX_CONNS")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative")
	}
	if c.Cache.WarmInterval < 0 {
		return fmt.Errorf("CACHE_WARM_INTERVAL must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool, errs *[]error) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
