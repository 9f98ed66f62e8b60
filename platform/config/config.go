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

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetTrackingRateLimit() float64
	GetTrackingRateBurst() int
}

// RedisConfig provides settings for the Redis-backed organization cache
// and the asynq task queue.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// SchedulerConfig provides settings for the background task queue.
type SchedulerConfig interface {
	RedisConfig
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// OrgRegistryConfig provides settings for the organization registry.
type OrgRegistryConfig interface {
	GetOrgRegistryPath() string
	GetOrgCacheTTL() time.Duration
}

// GeoIPConfig provides settings for the geo-IP lookup collaborator.
type GeoIPConfig interface {
	GetGeoIPBaseURL() string
	GetGeoIPTimeout() time.Duration
}

// EmailConfig provides settings for lead notification emails.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetLeadNotifyAddress() string
}

// PhoneConfig provides settings for phone number normalization.
type PhoneConfig interface {
	GetDefaultPhoneRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	RedisURL           string
	RedisTLSInsecure   bool
	AsynqQueueName     string
	AsynqConcurrency   int
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	TrackingRateLimit  float64
	TrackingRateBurst  int
	OrgRegistryPath    string
	OrgCacheTTL        time.Duration
	GeoIPBaseURL       string
	GeoIPTimeout       time.Duration
	EmailEnabled       bool
	SMTPHost           string
	SMTPPort           int
	SMTPUsername       string
	SMTPPassword       string
	EmailFromName      string
	EmailFromAddress   string
	LeadNotifyAddress  string
	DefaultPhoneRegion string
}

// Load reads configuration from the environment, consulting a .env file
// when present. Missing required values return an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           os.Getenv("REDIS_URL"),
		RedisTLSInsecure:   getBool("REDIS_TLS_INSECURE", false),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "tracking"),
		AsynqConcurrency:   getInt("ASYNQ_CONCURRENCY", 10),
		CORSAllowAll:       getBool("CORS_ALLOW_ALL", true),
		CORSOrigins:        getList("CORS_ORIGINS"),
		CORSAllowCreds:     getBool("CORS_ALLOW_CREDENTIALS", false),
		TrackingRateLimit:  getFloat("TRACKING_RATE_LIMIT", 10),
		TrackingRateBurst:  getInt("TRACKING_RATE_BURST", 30),
		OrgRegistryPath:    getEnv("ORG_REGISTRY_PATH", "organizations.yaml"),
		OrgCacheTTL:        getDuration("ORG_CACHE_TTL", 5*time.Minute),
		GeoIPBaseURL:       getEnv("GEOIP_BASE_URL", "http://ip-api.com"),
		GeoIPTimeout:       getDuration("GEOIP_TIMEOUT", 3*time.Second),
		EmailEnabled:       getBool("EMAIL_ENABLED", false),
		SMTPHost:           os.Getenv("SMTP_HOST"),
		SMTPPort:           getInt("SMTP_PORT", 587),
		SMTPUsername:       os.Getenv("SMTP_USERNAME"),
		SMTPPassword:       os.Getenv("SMTP_PASSWORD"),
		EmailFromName:      getEnv("EMAIL_FROM_NAME", "Campaign Tracking"),
		EmailFromAddress:   os.Getenv("EMAIL_FROM_ADDRESS"),
		LeadNotifyAddress:  os.Getenv("LEAD_NOTIFY_ADDRESS"),
		DefaultPhoneRegion: getEnv("DEFAULT_PHONE_REGION", "IN"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.EmailEnabled && (cfg.SMTPHost == "" || cfg.EmailFromAddress == "") {
		return nil, fmt.Errorf("EMAIL_ENABLED requires SMTP_HOST and EMAIL_FROM_ADDRESS")
	}

	return cfg, nil
}

// =============================================================================
// Interface implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) GetHTTPAddr() string        { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool      { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string   { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool    { return c.CORSAllowCreds }
func (c *Config) GetTrackingRateLimit() float64 { return c.TrackingRateLimit }
func (c *Config) GetTrackingRateBurst() int  { return c.TrackingRateBurst }
func (c *Config) GetRedisURL() string        { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }
func (c *Config) GetOrgRegistryPath() string { return c.OrgRegistryPath }
func (c *Config) GetOrgCacheTTL() time.Duration { return c.OrgCacheTTL }
func (c *Config) GetGeoIPBaseURL() string    { return c.GeoIPBaseURL }
func (c *Config) GetGeoIPTimeout() time.Duration { return c.GeoIPTimeout }
func (c *Config) GetEmailEnabled() bool      { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string        { return c.SMTPHost }
func (c *Config) GetSMTPPort() int           { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string    { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string    { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string   { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) GetLeadNotifyAddress() string { return c.LeadNotifyAddress }
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// =============================================================================
// Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
