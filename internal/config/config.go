package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NewRelic  NewRelicConfig
	WebSocket WebSocketConfig
	Events    EventsConfig
	Log       LogConfig
	Features  FeatureFlags
}

type ServerConfig struct {
	Port            string
	Env             string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig points at the Postgres instance that keeps the ride event
// audit trail. Only used when Features.EnableAuditLog is set.
type DatabaseConfig struct {
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	MaxConnections int
	MaxIdleConns   int
	MaxLifetime    time.Duration
}

// RedisConfig points at the Redis instance events are published to. Only
// used when Features.EnableEventPublishing is set.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	MaxRetries  int
	PoolSize    int
	MinIdleConn int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type NewRelicConfig struct {
	LicenseKey string
	AppName    string
	Enabled    bool
	LogLevel   string
}

type WebSocketConfig struct {
	ReadBufferSize  int
	WriteBufferSize int
	AllowedOrigins  []string
}

type EventsConfig struct {
	Channel         string
	StatusTTL       time.Duration
	DeliveryTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type FeatureFlags struct {
	EnableRealTimeUpdates bool
	EnableEventPublishing bool
	EnableAuditLog        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Env:             getEnv("SERVER_ENV", "development"),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     parseDuration(getEnv("SERVER_READ_TIMEOUT", "15s"), 15*time.Second),
			WriteTimeout:    parseDuration(getEnv("SERVER_WRITE_TIMEOUT", "15s"), 15*time.Second),
			ShutdownTimeout: parseDuration(getEnv("SERVER_SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			Name:           getEnv("DB_NAME", "carpool"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MaxIdleConns:   getEnvAsInt("DB_MAX_IDLE_CONNECTIONS", 2),
			MaxLifetime:    time.Duration(getEnvAsInt("DB_MAX_LIFETIME_MINUTES", 30)) * time.Minute,
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnv("REDIS_PORT", "6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvAsInt("REDIS_DB", 0),
			MaxRetries:  getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConn: 2,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 3 * time.Second,
		},
		NewRelic: NewRelicConfig{
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			AppName:    getEnv("NEW_RELIC_APP_NAME", "Carpool"),
			Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", false),
			LogLevel:   getEnv("NEW_RELIC_LOG_LEVEL", "info"),
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  getEnvAsInt("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getEnvAsInt("WS_WRITE_BUFFER_SIZE", 1024),
			AllowedOrigins:  getEnvAsList("WS_ALLOWED_ORIGINS", nil),
		},
		Events: EventsConfig{
			Channel:         getEnv("EVENTS_CHANNEL", "carpool:ride-events"),
			StatusTTL:       time.Duration(getEnvAsInt("EVENTS_STATUS_TTL_SECONDS", 86400)) * time.Second,
			DeliveryTimeout: parseDuration(getEnv("EVENTS_DELIVERY_TIMEOUT", "2s"), 2*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", "stdout"),
		},
		Features: FeatureFlags{
			EnableRealTimeUpdates: getEnvAsBool("ENABLE_REAL_TIME_UPDATES", true),
			EnableEventPublishing: getEnvAsBool("ENABLE_EVENT_PUBLISHING", false),
			EnableAuditLog:        getEnvAsBool("ENABLE_AUDIT_LOG", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks required values, only for the features that are on
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	if c.Features.EnableAuditLog {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when ENABLE_AUDIT_LOG is set")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when ENABLE_AUDIT_LOG is set")
		}
	}
	if c.Features.EnableEventPublishing {
		if c.Redis.Host == "" {
			return fmt.Errorf("REDIS_HOST is required when ENABLE_EVENT_PUBLISHING is set")
		}
		if c.Events.Channel == "" {
			return fmt.Errorf("EVENTS_CHANNEL is required when ENABLE_EVENT_PUBLISHING is set")
		}
	}
	if c.NewRelic.Enabled && c.NewRelic.LicenseKey == "" && c.Server.Env == "production" {
		return fmt.Errorf("NEW_RELIC_LICENSE_KEY must be set in production when New Relic is enabled")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Address returns host:port for the HTTP server
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	return defaultValue
}
