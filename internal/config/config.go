package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Identity provider drivers.
const (
	IdentityAppwrite = "appwrite"
	IdentityPostgres = "postgres"
)

// Blob storage drivers.
const (
	StorageMinIO = "minio"
	StorageS3    = "s3"
)

// Config holds the whole application configuration. It is populated once
// from environment variables at startup and treated as read-only afterwards.
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Identity  IdentityConfig
	Storage   StorageConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name           string
	Environment    string // development, staging, production
	Port           string
	Version        string
	FrontendOrigin string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	MaxConns          int
	MinConns          int
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	// Enabled turns on the token revocation denylist.
	Enabled bool
}

type JWTConfig struct {
	Secret   string
	Lifetime time.Duration
}

type IdentityConfig struct {
	Driver    string // appwrite, postgres
	Endpoint  string // https://cloud.appwrite.io/v1
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

type StorageConfig struct {
	Driver        string // minio, s3
	Endpoint      string // localhost:9000
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PresignExpiry time.Duration
}

type UploadConfig struct {
	StagingDir    string
	MaxSize       int64
	SweepInterval string // cron spec, e.g. "@every 10m"
	SweepMaxAge   time.Duration
}

type RateLimitConfig struct {
	AuthPerMinute int
}

type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:           getEnv("APP_NAME", "Blog API"),
			Environment:    getEnv("APP_ENV", "development"),
			Port:           getEnv("PORT", getEnv("APP_PORT", "5000")),
			Version:        getEnv("APP_VERSION", "1.0.0"),
			FrontendOrigin: getEnv("FRONTEND_URL", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "blog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxConns:          getEnvInt("DB_MAX_CONNECTIONS", 25),
			MinConns:          getEnvInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime:   getEnvDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvDuration("DB_MAX_CONN_IDLE_TIME", time.Minute),
			HealthCheckPeriod: getEnvDuration("DB_HEALTH_CHECK_PERIOD", time.Minute),

			MaxRetries:     getEnvInt("DB_MAX_RETRIES", 5),
			RetryDelay:     getEnvDuration("DB_RETRY_DELAY", time.Second),
			ConnectTimeout: getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", defaultJWTSecret),
			Lifetime: getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		},
		Identity: IdentityConfig{
			Driver:    strings.ToLower(getEnv("IDENTITY_DRIVER", IdentityAppwrite)),
			Endpoint:  getEnv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1"),
			ProjectID: getEnv("APPWRITE_PROJECT_ID", ""),
			APIKey:    getEnv("APPWRITE_API_KEY", ""),
			Timeout:   getEnvDuration("APPWRITE_TIMEOUT", 15*time.Second),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getEnv("STORAGE_DRIVER", StorageMinIO)),
			Endpoint:      getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKey:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretKey:     getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			Bucket:        getEnv("STORAGE_BUCKET", "blog-images"),
			Region:        getEnv("STORAGE_REGION", "us-east-1"),
			UseSSL:        getEnvBool("STORAGE_USE_SSL", false),
			PresignExpiry: getEnvDuration("STORAGE_PRESIGN_EXPIRY", time.Hour),
		},
		Upload: UploadConfig{
			StagingDir:    getEnv("UPLOAD_STAGING_DIR", "uploads"),
			MaxSize:       int64(getEnvInt("UPLOAD_MAX_SIZE", 5*1024*1024)),
			SweepInterval: getEnv("UPLOAD_SWEEP_INTERVAL", "@every 10m"),
			SweepMaxAge:   getEnvDuration("UPLOAD_SWEEP_MAX_AGE", time.Hour),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 20),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate rejects configurations the server cannot safely run with.
func (c *Config) Validate() error {
	if c.JWT.Lifetime <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive")
	}
	if c.Upload.MaxSize <= 0 {
		return fmt.Errorf("UPLOAD_MAX_SIZE must be positive")
	}
	if c.Database.MaxConns <= 0 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNECTIONS must be between 0 and DB_MAX_CONNECTIONS")
	}
	if c.RateLimit.AuthPerMinute <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_PER_MINUTE must be positive")
	}

	switch c.Identity.Driver {
	case IdentityAppwrite:
		if c.IsProduction() && (c.Identity.ProjectID == "" || c.Identity.APIKey == "") {
			return fmt.Errorf("APPWRITE_PROJECT_ID and APPWRITE_API_KEY must be set in production")
		}
	case IdentityPostgres:
	default:
		return fmt.Errorf("unknown IDENTITY_DRIVER %q", c.Identity.Driver)
	}

	switch c.Storage.Driver {
	case StorageMinIO, StorageS3:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret || c.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go durations ("15m") and the "7d" day shorthand.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	if days, ok := strings.CutSuffix(valueStr, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return defaultValue
		}
		return time.Duration(n) * 24 * time.Hour
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
