package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage backend selectors for the vault key-value store.
const (
	StorageBackendFile  = "file"
	StorageBackendRedis = "redis"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	StaticDir string

	Vault   VaultConfig
	Session SessionConfig
	Login   LoginGuardConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	Sheets  SheetsConfig
}

// VaultConfig selects and tunes the vault's key-value backend.
type VaultConfig struct {
	Backend  string
	DataFile string
}

// SessionConfig governs session lifetime.
type SessionConfig struct {
	MaxAge      time.Duration
	IdleTimeout time.Duration
}

// LoginGuardConfig tunes the failed-login rate limiter.
type LoginGuardConfig struct {
	MaxAttempts   int
	Window        time.Duration
	BlockDuration time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SheetsConfig configures asynchronous result-sheet generation.
type SheetsConfig struct {
	Enabled           bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.StaticDir = v.GetString("STATIC_DIR")

	cfg.Vault = VaultConfig{
		Backend:  v.GetString("VAULT_BACKEND"),
		DataFile: v.GetString("VAULT_DATA_FILE"),
	}

	cfg.Session = SessionConfig{
		MaxAge:      parseDuration(v.GetString("SESSION_MAX_AGE"), 24*time.Hour),
		IdleTimeout: parseDuration(v.GetString("SESSION_IDLE_TIMEOUT"), 30*time.Minute),
	}

	cfg.Login = LoginGuardConfig{
		MaxAttempts:   v.GetInt("LOGIN_MAX_ATTEMPTS"),
		Window:        parseDuration(v.GetString("LOGIN_ATTEMPT_WINDOW"), 15*time.Minute),
		BlockDuration: parseDuration(v.GetString("LOGIN_BLOCK_DURATION"), time.Hour),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Sheets = SheetsConfig{
		Enabled:           v.GetBool("ENABLE_SHEETS"),
		StorageDir:        v.GetString("SHEETS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("SHEETS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("SHEETS_SIGNED_URL_TTL"), 24*time.Hour),
		WorkerConcurrency: v.GetInt("SHEETS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("SHEETS_WORKER_RETRIES"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("STATIC_DIR", "./web/dist")

	v.SetDefault("VAULT_BACKEND", StorageBackendFile)
	v.SetDefault("VAULT_DATA_FILE", "./data/vault.json")

	v.SetDefault("SESSION_MAX_AGE", "24h")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "30m")

	v.SetDefault("LOGIN_MAX_ATTEMPTS", 5)
	v.SetDefault("LOGIN_ATTEMPT_WINDOW", "15m")
	v.SetDefault("LOGIN_BLOCK_DURATION", "1h")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SHEETS", true)
	v.SetDefault("SHEETS_STORAGE_DIR", "./sheets")
	v.SetDefault("SHEETS_SIGNED_URL_SECRET", "dev_sheets_secret")
	v.SetDefault("SHEETS_SIGNED_URL_TTL", "24h")
	v.SetDefault("SHEETS_WORKER_CONCURRENCY", 1)
	v.SetDefault("SHEETS_WORKER_RETRIES", 3)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
