package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultJWTSecret = "dev-secret"

// Database drivers understood by DatabaseConfig.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Storage drivers understood by StorageConfig.
const (
	StorageLocal    = "local"
	StorageSupabase = "supabase"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `yaml:"app"`
	Database     DatabaseConfig     `yaml:"database"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	SQLite       SQLiteConfig       `yaml:"sqlite"`
	Redis        RedisConfig        `yaml:"redis"`
	Logger       LoggerConfig       `yaml:"logger"`
	Auth         AuthConfig         `yaml:"auth"`
	Storage      StorageConfig      `yaml:"storage"`
	Upload       UploadConfig       `yaml:"upload"`
	Notification NotificationConfig `yaml:"notification"`
	Admin        AdminConfig        `yaml:"admin"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name"`
	Env                   string `yaml:"env"`
	Host                  string `yaml:"host"`
	Port                  string `yaml:"port"`
	Version               string `yaml:"version"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string `yaml:"dsn"`
	ApplicationName string `yaml:"application_name"`
	MaxConns        int32  `yaml:"max_conns"`
	MinConns        int32  `yaml:"min_conns"`
	RunMigrations   bool   `yaml:"run_migrations"`
	MigrationsDir   string `yaml:"migrations_dir"`
	ConnMaxIdleSec  int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec  int32  `yaml:"conn_max_life_seconds"`
}

// SQLiteConfig holds the embedded database location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	ClientName string `yaml:"client_name"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string `yaml:"jwt_secret"`
	AccessTokenTTLMinutes int    `yaml:"access_token_ttl_minutes"`
	BcryptCost            int    `yaml:"bcrypt_cost"`
}

// StorageConfig selects and configures the object store for uploads.
type StorageConfig struct {
	Driver        string `yaml:"driver"`
	LocalDir      string `yaml:"local_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
	SupabaseURL   string `yaml:"supabase_url"`
	SupabaseKey   string `yaml:"supabase_key"`
	Bucket        string `yaml:"bucket"`
}

// UploadConfig bounds accepted uploads.
type UploadConfig struct {
	MaxBytes     int `yaml:"max_bytes"`
	MaxDimension int `yaml:"max_dimension"`
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string `yaml:"email_from"`
	WebhookURL string `yaml:"webhook_url"`
}

// AdminConfig seeds the initial administrator.
type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:                  "lostfound-service",
			Env:                   "development",
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
		},
		Database: DatabaseConfig{Driver: DriverPostgres},
		Postgres: PostgresConfig{
			ApplicationName: "lostfound-service",
			MaxConns:        10,
			MinConns:        2,
			RunMigrations:   true,
			MigrationsDir:   "migrations",
			ConnMaxIdleSec:  30,
			ConnMaxLifeSec:  300,
		},
		SQLite: SQLiteConfig{Path: "lostfound.sqlite3"},
		Redis:  RedisConfig{Addr: "127.0.0.1:6379", ClientName: "lostfound-service"},
		Logger: LoggerConfig{Level: "info"},
		Auth: AuthConfig{
			JWTSecret:             defaultJWTSecret,
			AccessTokenTTLMinutes: 30 * 24 * 60,
			BcryptCost:            10,
		},
		Storage: StorageConfig{
			Driver:        StorageLocal,
			LocalDir:      "uploads",
			PublicBaseURL: "/uploads",
			Bucket:        "uploads",
		},
		Upload: UploadConfig{
			MaxBytes:     10 << 20,
			MaxDimension: 1600,
		},
		Notification: NotificationConfig{
			EmailFrom: "noreply@example.com",
		},
		Admin: AdminConfig{
			Email: "admin@lostfound.com",
		},
	}
}

// Load builds configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (including a local .env), in that order.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", strconv.Itoa(c.Redis.DB)))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	c.App.Name = getEnv("APP_NAME", c.App.Name)
	c.App.Env = getEnv("APP_ENV", c.App.Env)
	c.App.Host = getEnv("APP_HOST", c.App.Host)
	c.App.Port = getEnv("APP_PORT", c.App.Port)
	c.App.Version = getEnv("APP_VERSION", c.App.Version)
	c.App.RequestTimeoutSeconds = getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", c.App.RequestTimeoutSeconds)

	c.Database.Driver = strings.ToLower(getEnv("DB_DRIVER", c.Database.Driver))

	c.Postgres.DSN = getEnv("POSTGRES_DSN", c.Postgres.DSN)
	c.Postgres.ApplicationName = getEnv("POSTGRES_APPLICATION_NAME", c.Postgres.ApplicationName)
	c.Postgres.MaxConns = int32(getEnvAsInt("POSTGRES_MAX_CONNS", int(c.Postgres.MaxConns)))
	c.Postgres.MinConns = int32(getEnvAsInt("POSTGRES_MIN_CONNS", int(c.Postgres.MinConns)))
	c.Postgres.RunMigrations = getEnvAsBool("POSTGRES_RUN_MIGRATIONS", c.Postgres.RunMigrations)
	c.Postgres.MigrationsDir = getEnv("POSTGRES_MIGRATIONS_DIR", c.Postgres.MigrationsDir)
	c.Postgres.ConnMaxIdleSec = int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", int(c.Postgres.ConnMaxIdleSec)))
	c.Postgres.ConnMaxLifeSec = int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", int(c.Postgres.ConnMaxLifeSec)))

	c.SQLite.Path = getEnv("SQLITE_PATH", c.SQLite.Path)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.ClientName = getEnv("REDIS_CLIENT_NAME", c.Redis.ClientName)
	c.Redis.DB = redisDB

	c.Logger.Level = getEnv("LOG_LEVEL", c.Logger.Level)
	c.Logger.Development = getEnvAsBool("LOG_DEVELOPMENT", c.Logger.Development || c.App.Env == "development")

	c.Auth.JWTSecret = getEnv("AUTH_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.AccessTokenTTLMinutes = getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", c.Auth.AccessTokenTTLMinutes)
	c.Auth.BcryptCost = getEnvAsInt("AUTH_BCRYPT_COST", c.Auth.BcryptCost)

	c.Storage.Driver = strings.ToLower(getEnv("STORAGE_DRIVER", c.Storage.Driver))
	c.Storage.LocalDir = getEnv("STORAGE_LOCAL_DIR", c.Storage.LocalDir)
	c.Storage.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", c.Storage.PublicBaseURL)
	c.Storage.SupabaseURL = getEnv("SUPABASE_URL", c.Storage.SupabaseURL)
	c.Storage.SupabaseKey = getEnv("SUPABASE_SERVICE_KEY", c.Storage.SupabaseKey)
	c.Storage.Bucket = getEnv("STORAGE_BUCKET", c.Storage.Bucket)

	c.Upload.MaxBytes = getEnvAsInt("UPLOAD_MAX_BYTES", c.Upload.MaxBytes)
	c.Upload.MaxDimension = getEnvAsInt("UPLOAD_MAX_DIMENSION", c.Upload.MaxDimension)

	c.Notification.EmailFrom = getEnv("NOTIFY_EMAIL_FROM", c.Notification.EmailFrom)
	c.Notification.WebhookURL = getEnv("NOTIFY_WEBHOOK_URL", c.Notification.WebhookURL)

	c.Admin.Email = getEnv("ADMIN_EMAIL", c.Admin.Email)
	c.Admin.Password = getEnv("ADMIN_PASSWORD", c.Admin.Password)
	return nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Storage.Driver {
	case StorageLocal:
	case StorageSupabase:
		if c.Storage.SupabaseURL == "" || c.Storage.SupabaseKey == "" {
			return errors.New("supabase storage requires SUPABASE_URL and SUPABASE_SERVICE_KEY")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.IsProduction() && c.Auth.JWTSecret == defaultJWTSecret {
		return errors.New("AUTH_JWT_SECRET must be set in production")
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
