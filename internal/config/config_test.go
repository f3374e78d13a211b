package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "carpool:ride-events", cfg.Events.Channel)
	assert.Equal(t, 24*time.Hour, cfg.Events.StatusTTL)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxLifetime)
	assert.True(t, cfg.Features.EnableRealTimeUpdates)
	assert.False(t, cfg.Features.EnableEventPublishing)
	assert.False(t, cfg.Features.EnableAuditLog)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("ENABLE_EVENT_PUBLISHING", "true")
	t.Setenv("EVENTS_DELIVERY_TIMEOUT", "500ms")
	t.Setenv("WS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.Features.EnableEventPublishing)
	assert.Equal(t, 500*time.Millisecond, cfg.Events.DeliveryTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.WebSocket.AllowedOrigins)
	assert.Equal(t, 0, cfg.Redis.DB, "bad ints fall back to the default")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost", Name: "carpool"},
			Redis:    RedisConfig{Host: "localhost"},
			Events:   EventsConfig{Channel: "carpool:ride-events"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"audit log off ignores database", func(c *Config) { c.Database.Host = "" }, false},
		{"audit log on needs database host", func(c *Config) {
			c.Features.EnableAuditLog = true
			c.Database.Host = ""
		}, true},
		{"publishing on needs redis host", func(c *Config) {
			c.Features.EnableEventPublishing = true
			c.Redis.Host = ""
		}, true},
		{"publishing on needs channel", func(c *Config) {
			c.Features.EnableEventPublishing = true
			c.Events.Channel = ""
		}, true},
		{"new relic in production needs key", func(c *Config) {
			c.Server.Env = "production"
			c.NewRelic.Enabled = true
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
