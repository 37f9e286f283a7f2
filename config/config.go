package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort  string
	ServerHost  string
	CORSOrigins []string
	LogLevel    string

	// Database configuration
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string
	AutoMigrate bool

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Object storage
	S3BucketName    string
	AWSRegion       string
	S3PublicBaseURL string
}

// LoadConfig builds a Config from .env, environment variables and Docker secrets
func LoadConfig() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	env := GetEnvironment()
	src := source{env: env, secretsDir: secretsDir()}

	cfg := &Config{
		Environment:     env,
		ServerPort:      src.get("SERVER_PORT", "server_port", "8080"),
		ServerHost:      src.get("SERVER_HOST", "server_host", "0.0.0.0"),
		CORSOrigins:     splitList(src.get("CORS_ORIGINS", "cors_origins", "http://localhost:3000,http://localhost:5173")),
		LogLevel:        src.get("LOG_LEVEL", "log_level", "info"),
		DBDriver:        strings.ToLower(src.get("DB_DRIVER", "db_driver", "sqlite")),
		DatabaseURL:     src.get("DATABASE_URL", "database_url", ""),
		DBHost:          src.get("DB_HOST", "db_host", "localhost"),
		DBPort:          src.get("DB_PORT", "db_port", "5432"),
		DBUser:          src.get("DB_USER", "db_user", ""),
		DBPassword:      src.get("DB_PASSWORD", "db_password", ""),
		DBName:          src.get("DB_NAME", "db_name", "cookeasy"),
		DBSSLMode:       src.get("DB_SSL_MODE", "db_ssl_mode", "disable"),
		SQLitePath:      src.get("SQLITE_PATH", "sqlite_path", "cookeasy.db"),
		RedisURL:        src.get("REDIS_URL", "redis_url", ""),
		RedisHost:       src.get("REDIS_HOST", "redis_host", ""),
		RedisPort:       src.get("REDIS_PORT", "redis_port", "6379"),
		RedisPassword:   src.get("REDIS_PASSWORD", "redis_password", ""),
		JWTSecret:       src.get("JWT_SECRET", "jwt_secret", ""),
		S3BucketName:    src.get("S3_BUCKET_NAME", "s3_bucket_name", ""),
		AWSRegion:       src.get("AWS_REGION", "aws_region", "us-east-1"),
		S3PublicBaseURL: src.get("S3_PUBLIC_BASE_URL", "s3_public_base_url", ""),
	}

	var err error
	if cfg.AutoMigrate, err = strconv.ParseBool(src.get("AUTO_MIGRATE", "auto_migrate", "true")); err != nil {
		return nil, ValidationError{Field: "AUTO_MIGRATE", Message: "must be a boolean"}
	}
	if cfg.RedisDB, err = strconv.Atoi(src.get("REDIS_DB", "redis_db", "0")); err != nil {
		return nil, ValidationError{Field: "REDIS_DB", Message: "must be an integer"}
	}
	if cfg.JWTTTL, err = time.ParseDuration(src.get("JWT_TTL", "jwt_ttl", "24h")); err != nil {
		return nil, ValidationError{Field: "JWT_TTL", Message: "must be a duration such as 24h"}
	}

	if cfg.JWTSecret == "" && env.relaxed() {
		cfg.JWTSecret = "cookeasy-development-secret-change-me"
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// RedisEnabled reports whether any Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// PostgresDSN renders the libpq connection string, preferring DATABASE_URL
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// MySQLDSN renders the go-sql-driver DSN, preferring DATABASE_URL
func (c *Config) MySQLDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// source resolves a key from the environment and the secrets directory.
// Production prefers secrets; every other environment prefers variables.
type source struct {
	env        Environment
	secretsDir string
}

func (s source) get(envKey, secret, fallback string) string {
	fromEnv := strings.TrimSpace(os.Getenv(envKey))
	fromSecret := readSecretFrom(s.secretsDir, secret)

	first, second := fromEnv, fromSecret
	if s.env == Production {
		first, second = fromSecret, fromEnv
	}
	if first != "" {
		return first
	}
	if second != "" {
		return second
	}
	return fallback
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecretFrom reads a Docker secret file, returning "" when absent
func readSecretFrom(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
