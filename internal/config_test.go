package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:              8080,
			AllowedOrigins:    " http://localhost:3000 , https://app.example.com,",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			Source:          "postgres://localhost/test",
		},
		Security: SecurityConfig{
			AccessTokenSecret:    "0123456789abcdef0123456789abcdef",
			RefreshTokenSecret:   "fedcba9876543210fedcba9876543210",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			BCryptCost:           10,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	short := validConfig()
	short.Security.AccessTokenSecret = "short"
	assert.Error(t, short.Validate())

	idle := validConfig()
	idle.Database.MaxIdleConns = 50
	assert.Error(t, idle.Validate())

	timeouts := validConfig()
	timeouts.Server.ReadTimeout = time.Second
	assert.Error(t, timeouts.Validate())

	level := validConfig()
	level.Observability.Logging.Level = "verbose"
	assert.Error(t, level.Validate())
}

func TestOrigins(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.Server.Origins())

	cfg.Server.AllowedOrigins = ""
	assert.Nil(t, cfg.Server.Origins())
}
