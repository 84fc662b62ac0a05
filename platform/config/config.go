// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerSecond() float64
	GetRateLimitBurst() int
}

// RedisConfig provides the shared Redis connection settings.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for asynq-backed background jobs.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetOverdueSweepCron() string
}

// DashboardConfig provides settings for dashboard statistics caching.
type DashboardConfig interface {
	GetDashboardCacheTTL() time.Duration
}

// MinIOConfig provides settings for MinIO S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIOMaxFileSize() int64
	GetMinioBucketLicenseCertificates() string
	GetMinioBucketInspectionPhotos() string
	IsMinIOEnabled() bool
}

// SMTPConfig provides outgoing mail settings for notifications.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsSMTPEnabled() bool
}

// AuthzConfig provides the location of the permission policy file.
type AuthzConfig interface {
	GetPermissionPolicyPath() string
}

// Config holds all application configuration.
type Config struct {
	Env                            string
	HTTPAddr                       string
	DatabaseURL                    string
	MigrationsEnabled              bool
	JWTAccessSecret                string
	CORSAllowAll                   bool
	CORSOrigins                    []string
	CORSAllowCreds                 bool
	RateLimitPerSecond             float64
	RateLimitBurst                 int
	RedisURL                       string
	RedisTLSInsecure               bool
	AsynqQueueName                 string
	AsynqConcurrency               int
	OverdueSweepCron               string
	DashboardCacheTTL              time.Duration
	MinIOEndpoint                  string
	MinIOAccessKey                 string
	MinIOSecretKey                 string
	MinIOUseSSL                    bool
	MinIOMaxFileSize               int64
	MinioBucketLicenseCertificates string
	MinioBucketInspectionPhotos    string
	SMTPHost                       string
	SMTPPort                       int
	SMTPUsername                   string
	SMTPPassword                   string
	EmailFromName                  string
	EmailFromAddress               string
	PermissionPolicyPath           string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTAccessSecret() string { return c.JWTAccessSecret }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string            { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool          { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string       { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool        { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerSecond() float64 { return c.RateLimitPerSecond }
func (c *Config) GetRateLimitBurst() int         { return c.RateLimitBurst }

// RedisConfig / SchedulerConfig implementation
func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool   { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string   { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int    { return c.AsynqConcurrency }
func (c *Config) GetOverdueSweepCron() string { return c.OverdueSweepCron }

// DashboardConfig implementation
func (c *Config) GetDashboardCacheTTL() time.Duration { return c.DashboardCacheTTL }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string   { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string  { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string  { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool       { return c.MinIOUseSSL }
func (c *Config) GetMinIOMaxFileSize() int64 { return c.MinIOMaxFileSize }
func (c *Config) GetMinioBucketLicenseCertificates() string {
	return c.MinioBucketLicenseCertificates
}
func (c *Config) GetMinioBucketInspectionPhotos() string {
	return c.MinioBucketInspectionPhotos
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsSMTPEnabled() bool         { return c.SMTPHost != "" && c.EmailFromAddress != "" }

// AuthzConfig implementation
func (c *Config) GetPermissionPolicyPath() string { return c.PermissionPolicyPath }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                            getEnv("APP_ENV", "development"),
		HTTPAddr:                       getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                    getEnv("DATABASE_URL", ""),
		MigrationsEnabled:              strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "true"), "true"),
		JWTAccessSecret:                getEnv("JWT_ACCESS_SECRET", ""),
		CORSAllowAll:                   corsAllowAll,
		CORSOrigins:                    corsOrigins,
		CORSAllowCreds:                 strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		RateLimitPerSecond:             mustFloat64(getEnv("RATE_LIMIT_PER_SECOND", "20")),
		RateLimitBurst:                 mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		RedisURL:                       getEnv("REDIS_URL", ""),
		RedisTLSInsecure:               strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:                 getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:               mustInt(getEnv("ASYNQ_CONCURRENCY", "5")),
		OverdueSweepCron:               getEnv("OVERDUE_SWEEP_CRON", "0 6 * * *"),
		DashboardCacheTTL:              mustDuration(getEnv("DASHBOARD_CACHE_TTL", "60s")),
		MinIOEndpoint:                  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:                 getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:                 getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                    strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinIOMaxFileSize:               mustInt64(getEnv("MINIO_MAX_FILE_SIZE", "20971520")),
		MinioBucketLicenseCertificates: getEnv("MINIO_BUCKET_LICENSE_CERTIFICATES", "license-certificates"),
		MinioBucketInspectionPhotos:    getEnv("MINIO_BUCKET_INSPECTION_PHOTOS", "inspection-photos"),
		SMTPHost:                       getEnv("SMTP_HOST", ""),
		SMTPPort:                       mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:                   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                   getEnv("SMTP_PASSWORD", ""),
		EmailFromName:                  getEnv("EMAIL_FROM_NAME", "Store Opening"),
		EmailFromAddress:               getEnv("EMAIL_FROM_ADDRESS", ""),
		PermissionPolicyPath:           getEnv("PERMISSION_POLICY_PATH", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTAccessSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SMTPHost != "" && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
