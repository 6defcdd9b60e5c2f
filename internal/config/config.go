package config

import (
	"fmt"
	"strings"

	"github.com/healthshield-server/internal/domain"
	"github.com/spf13/viper"
)

// Manager loads and validates application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/healthshield/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("HEALTHSHIELD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	viper.SetDefault("secret_key", "dev-secret-key-2025")
	viper.SetDefault("debug", false)

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.rate_limit", 5.0)
	viper.SetDefault("server.rate_limit_burst", 10)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "data/healthshield.db")
	viper.SetDefault("database.url", "")
	viper.SetDefault("database.migrations_path", "migrations")
	viper.SetDefault("database.max_conns", 25)
	viper.SetDefault("database.min_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("database.conn_max_idle_time", "30m")

	// SMS defaults
	viper.SetDefault("sms.provider", "twilio")
	viper.SetDefault("sms.authority_number", "18605001066")
	viper.SetDefault("sms.timeout", "10s")
	viper.SetDefault("sms.twilio.account_sid", "")
	viper.SetDefault("sms.twilio.auth_token", "")
	viper.SetDefault("sms.twilio.from_number", "")
	viper.SetDefault("sms.twilio.base_url", "https://api.twilio.com")
	viper.SetDefault("sms.fast2sms.api_key", "")
	viper.SetDefault("sms.fast2sms.base_url", "https://www.fast2sms.com")

	// Cache defaults
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("cache.ttl", "30s")
	viper.SetDefault("cache.local_size", 128)
	viper.SetDefault("cache.pool_size", 10)
	viper.SetDefault("cache.pool_timeout", "4s")
	viper.SetDefault("cache.max_retries", 3)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetDatabaseConfig returns database configuration
func (m *Manager) GetDatabaseConfig() *domain.DatabaseConfig {
	return &m.config.Database
}

// GetSMSConfig returns outbound alert configuration
func (m *Manager) GetSMSConfig() *domain.SMSConfig {
	return &m.config.SMS
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	// Validate database configuration
	switch config.Database.Driver {
	case "sqlite":
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite driver")
		}
	case "postgres":
		if config.Database.URL == "" {
			return fmt.Errorf("database URL is required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", config.Database.Driver)
	}

	// Validate SMS configuration
	switch config.SMS.Provider {
	case "twilio":
		if config.SMS.Twilio.AccountSID == "" || config.SMS.Twilio.AuthToken == "" || config.SMS.Twilio.FromNumber == "" {
			return fmt.Errorf("twilio account SID, auth token and from number are required")
		}
	case "fast2sms":
		if config.SMS.Fast2SMS.APIKey == "" {
			return fmt.Errorf("fast2sms API key is required")
		}
	case "console":
		// No credentials needed for the development gateway
	default:
		return fmt.Errorf("unsupported SMS provider: %s", config.SMS.Provider)
	}
	if config.SMS.AuthorityNumber == "" {
		return fmt.Errorf("health authority number is required")
	}

	// Validate cache configuration
	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case "memory":
			if config.Cache.LocalSize <= 0 {
				return fmt.Errorf("cache local size must be positive")
			}
		case "redis":
			if config.Cache.RedisURL == "" {
				return fmt.Errorf("redis URL is required for redis cache backend")
			}
		default:
			return fmt.Errorf("unsupported cache backend: %s", config.Cache.Backend)
		}
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	return nil
}
