// Package config reads the service settings from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atmacsn/agriadmin/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Server    ServerConfig
	Mongo     MongoConfig
	Auth      AuthConfig
	Admin     AdminConfig
	Query     QueryConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Kafka     KafkaConfig
	Storage   StorageConfig
	Upload    UploadConfig
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
}

type MongoConfig struct {
	URI      string
	Database string
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	CookieSecure  bool
	CookieDomain  string
}

type AdminConfig struct {
	Email               string
	Password            string
	RegistrationEnabled bool
}

type QueryConfig struct {
	DefaultLimit int
	MaxLimit     int
}

type LogConfig struct {
	Level string
	File  string
}

type RateLimitConfig struct {
	RedisURL       string
	LoginPerMinute int
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type StorageConfig struct {
	// Provider is "s3", "gcs" or empty for no upload support.
	Provider        string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	Region          string
	CredentialsFile string
	PublicBaseURL   string
}

type UploadConfig struct {
	AllowedExtensions []string
	AllowedMimeTypes  []string
	MaxSizeMB         int
}

// Load reads .env (if any) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using system environment variables")
	}
	return LoadFromEnv()
}

func LoadFromEnv() (*Config, error) {
	accessSecret := os.Getenv("JWT_SECRET")

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "5000"),
			AllowedOrigins:  utils.SplitList(os.Getenv("ALLOWED_ORIGINS")),
			ShutdownTimeout: time.Duration(getInt("SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGODB_URI"),
			Database: getEnv("DATABASE_NAME", "agriadmin"),
		},
		Auth: AuthConfig{
			AccessSecret:  accessSecret,
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", accessSecret),
			AccessTTL:     time.Duration(getInt("ACCESS_TOKEN_TTL_MINUTES", 45)) * time.Minute,
			RefreshTTL:    time.Duration(getInt("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
			CookieSecure:  utils.ParseBoolDefault(os.Getenv("COOKIE_SECURE"), true),
			CookieDomain:  os.Getenv("COOKIE_DOMAIN"),
		},
		Admin: AdminConfig{
			Email:               strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
			Password:            os.Getenv("ADMIN_PASSWORD"),
			RegistrationEnabled: utils.ParseBoolDefault(os.Getenv("ADMIN_REGISTRATION_ENABLED"), true),
		},
		Query: QueryConfig{
			DefaultLimit: getInt("DEFAULT_READ_QUERY_LIMIT", 10),
			MaxLimit:     getInt("READ_QUERY_MAX_LIMIT", 100),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  os.Getenv("LOG_FILE"),
		},
		RateLimit: RateLimitConfig{
			RedisURL:       os.Getenv("REDIS_URL"),
			LoginPerMinute: getInt("LOGIN_RATE_PER_MINUTE", 10),
		},
		Kafka: KafkaConfig{
			Brokers: utils.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "agriadmin.audit"),
		},
		Storage: loadStorage(),
		Upload: UploadConfig{
			AllowedExtensions: utils.SplitList(os.Getenv("ALLOWED_FILE_EXTENSIONS")),
			AllowedMimeTypes:  utils.SplitList(os.Getenv("ALLOWED_FILE_MIME_TYPES")),
			MaxSizeMB:         getInt("MAX_UPLOAD_SIZE_MB", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadStorage reads the R2_* variables the upload code has always used and
// falls back to generic S3_* names.
func loadStorage() StorageConfig {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_PROVIDER")))
	sc := StorageConfig{
		Provider:        provider,
		CredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),
		PublicBaseURL:   getEnv("PUBLIC_FILE_BASE_URL", os.Getenv("R2_PUBLIC_DOMAIN")),
	}
	switch provider {
	case "gcs":
		sc.Bucket = os.Getenv("GCS_BUCKET")
	case "s3":
		sc.Bucket = getEnv("R2_BUCKET", os.Getenv("S3_BUCKET"))
		sc.AccessKeyID = getEnv("R2_ACCESS_KEY_ID", os.Getenv("S3_ACCESS_KEY_ID"))
		sc.SecretAccessKey = getEnv("R2_SECRET_ACCESS_KEY", os.Getenv("S3_SECRET_ACCESS_KEY"))
		sc.Endpoint = getEnv("R2_ENDPOINT", os.Getenv("S3_ENDPOINT"))
		sc.Region = getEnv("S3_REGION", "auto")
	}
	return sc
}

func (c *Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("MONGODB_URI is required"))
	}
	if c.Auth.AccessSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if c.Query.DefaultLimit < 1 || c.Query.MaxLimit < c.Query.DefaultLimit {
		errs = append(errs, errors.New("DEFAULT_READ_QUERY_LIMIT must be between 1 and READ_QUERY_MAX_LIMIT"))
	}
	switch c.Storage.Provider {
	case "", "s3", "gcs":
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_PROVIDER %q", c.Storage.Provider))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	return utils.ParseIntDefault(strings.TrimSpace(os.Getenv(key)), def)
}
