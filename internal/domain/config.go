package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	SecretKey string         `mapstructure:"secret_key"`
	Debug     bool           `mapstructure:"debug"`
	Server    ServerConfig   `mapstructure:"server"`
	Database  DatabaseConfig `mapstructure:"database"`
	SMS       SMSConfig      `mapstructure:"sms"`
	Cache     CacheConfig    `mapstructure:"cache"`
	Logging   LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// Analyze endpoint rate limit, requests per second per client IP.
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// DatabaseConfig represents report store configuration. Driver selects the
// backend: "sqlite" (default) or "postgres".
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"` // sqlite file path
	URL             string        `mapstructure:"url"`  // postgres connection URL
	MigrationsPath  string        `mapstructure:"migrations_path"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// SMSConfig represents outbound alert configuration. Provider selects the
// transport backend: "twilio", "fast2sms" or "console".
type SMSConfig struct {
	Provider        string         `mapstructure:"provider"`
	AuthorityNumber string         `mapstructure:"authority_number"`
	Timeout         time.Duration  `mapstructure:"timeout"`
	Twilio          TwilioConfig   `mapstructure:"twilio"`
	Fast2SMS        Fast2SMSConfig `mapstructure:"fast2sms"`
}

// TwilioConfig represents Twilio API credentials
type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
	FromNumber string `mapstructure:"from_number"`
	BaseURL    string `mapstructure:"base_url"`
}

// Fast2SMSConfig represents Fast2SMS API credentials
type Fast2SMSConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// CacheConfig represents report-list cache configuration. Backend selects
// "memory" (in-process LRU) or "redis".
type CacheConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Backend     string        `mapstructure:"backend"`
	RedisURL    string        `mapstructure:"redis_url"`
	TTL         time.Duration `mapstructure:"ttl"`
	LocalSize   int           `mapstructure:"local_size"`
	PoolSize    int           `mapstructure:"pool_size"`
	PoolTimeout time.Duration `mapstructure:"pool_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
