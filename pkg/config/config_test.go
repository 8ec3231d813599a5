package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "https://fantasy.premierleague.com/api", cfg.FPLBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ExternalAPITimeout)
	assert.Equal(t, 5, cfg.DefaultHorizon)
	assert.Equal(t, 8, cfg.MaxHorizon)
	assert.Equal(t, 3.5, cfg.RollThreshold)
	assert.Equal(t, 4.0, cfg.HitCost)
	assert.Equal(t, 180, cfg.PlanMinMinutes)
	assert.False(t, cfg.CacheEnabled)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("ROLL_THRESHOLD", "2.5")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 2.5, cfg.RollThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidate(t *testing.T) {
	base := Config{
		DefaultHorizon:  5,
		MaxHorizon:      8,
		OutCandidates:   8,
		InShortlistSize: 60,
		InPerOut:        25,
		HitCost:         4,
		FPLRateLimit:    5,
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero horizon", func(c *Config) { c.DefaultHorizon = 0 }, true},
		{"max below default", func(c *Config) { c.MaxHorizon = 3 }, true},
		{"empty shortlist", func(c *Config) { c.InShortlistSize = 0 }, true},
		{"negative hit", func(c *Config) { c.HitCost = -1 }, true},
		{"zero rate limit", func(c *Config) { c.FPLRateLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
