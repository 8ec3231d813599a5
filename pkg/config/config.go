package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// External APIs
	FPLBaseURL              string        `mapstructure:"FPL_BASE_URL"`
	FPLRateLimit            float64       `mapstructure:"FPL_RATE_LIMIT"` // requests per second
	OddsURL                 string        `mapstructure:"ODDS_URL"`
	OddsEnabled             bool          `mapstructure:"ODDS_ENABLED"`
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"CIRCUIT_BREAKER_TIMEOUT"`

	// Raw payload cache. Off by default so every request sees fresh provider data;
	// when enabled, plans may be computed from payloads up to CACHE_TTL old, so
	// prices, availability and picks can lag the provider by that long.
	CacheEnabled bool          `mapstructure:"CACHE_ENABLED"`
	RedisURL     string        `mapstructure:"REDIS_URL"`
	CacheTTL     time.Duration `mapstructure:"CACHE_TTL"`

	// Planner
	DefaultHorizon     int     `mapstructure:"DEFAULT_HORIZON"`
	MaxHorizon         int     `mapstructure:"MAX_HORIZON"`
	RollThreshold      float64 `mapstructure:"ROLL_THRESHOLD"`
	HitCost            float64 `mapstructure:"HIT_COST"`
	OutCandidates      int     `mapstructure:"OUT_CANDIDATES"`
	InShortlistSize    int     `mapstructure:"IN_SHORTLIST_SIZE"`
	InPerOut           int     `mapstructure:"IN_PER_OUT"`
	SecondMoveBranches int     `mapstructure:"SECOND_MOVE_BRANCHES"`
	PlanMinMinutes     int     `mapstructure:"PLAN_MIN_MINUTES"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	setDefaults(v)

	// Read from environment
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")

	v.SetDefault("FPL_BASE_URL", "https://fantasy.premierleague.com/api")
	v.SetDefault("FPL_RATE_LIMIT", 5)
	v.SetDefault("ODDS_URL", "https://www.football-data.co.uk/fixtures.csv")
	v.SetDefault("ODDS_ENABLED", true)
	v.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	v.SetDefault("CIRCUIT_BREAKER_TIMEOUT", "30s")

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CACHE_TTL", "60s")

	v.SetDefault("DEFAULT_HORIZON", 5)
	v.SetDefault("MAX_HORIZON", 8)
	v.SetDefault("ROLL_THRESHOLD", 3.5)
	v.SetDefault("HIT_COST", 4)
	v.SetDefault("OUT_CANDIDATES", 8)
	v.SetDefault("IN_SHORTLIST_SIZE", 60)
	v.SetDefault("IN_PER_OUT", 25)
	v.SetDefault("SECOND_MOVE_BRANCHES", 10)
	v.SetDefault("PLAN_MIN_MINUTES", 180)
}

// Validate rejects planner settings the search cannot run with.
func (c *Config) Validate() error {
	if c.DefaultHorizon < 1 {
		return fmt.Errorf("DEFAULT_HORIZON must be positive, got %d", c.DefaultHorizon)
	}
	if c.MaxHorizon < c.DefaultHorizon {
		return fmt.Errorf("MAX_HORIZON (%d) must be >= DEFAULT_HORIZON (%d)", c.MaxHorizon, c.DefaultHorizon)
	}
	if c.OutCandidates < 1 || c.InShortlistSize < 1 || c.InPerOut < 1 {
		return fmt.Errorf("candidate sizes must be positive")
	}
	if c.HitCost < 0 {
		return fmt.Errorf("HIT_COST must not be negative")
	}
	if c.FPLRateLimit <= 0 {
		return fmt.Errorf("FPL_RATE_LIMIT must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
