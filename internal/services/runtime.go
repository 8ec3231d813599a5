package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/subarna007/fpl-helper/internal/providers"
	"github.com/subarna007/fpl-helper/pkg/config"
)

// Runtime is the process-wide wiring shared by the server and the CLI.
type Runtime struct {
	Planner  *Planner
	Breakers *CircuitBreakerService
	Cache    *CacheService
	Metrics  *Metrics
}

// NewRuntime connects redis when caching is enabled and builds the provider clients.
// A redis that cannot be reached disables caching with a warning.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *logrus.Logger) *Runtime {
	rt := &Runtime{
		Breakers: NewCircuitBreakerService(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, logger),
		Metrics:  NewMetrics(),
	}

	fplOpts := []providers.FPLOption{
		providers.WithFPLBreaker(rt.Breakers),
		providers.WithFPLObserver(rt.Metrics),
	}
	oddsOpts := []providers.OddsOption{
		providers.WithOddsBreaker(rt.Breakers),
		providers.WithOddsObserver(rt.Metrics),
	}

	if cfg.CacheEnabled {
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, provider cache disabled")
		} else {
			rt.Cache = NewCacheService(client, "fpl-helper")
			fplOpts = append(fplOpts, providers.WithFPLCache(rt.Cache, cfg.CacheTTL))
			oddsOpts = append(oddsOpts, providers.WithOddsCache(rt.Cache, cfg.CacheTTL))
		}
	}

	fpl := providers.NewFPLClient(cfg.FPLBaseURL, cfg.ExternalAPITimeout, cfg.FPLRateLimit, logger, fplOpts...)

	var odds OddsSource
	if cfg.OddsEnabled {
		odds = providers.NewOddsClient(cfg.OddsURL, cfg.ExternalAPITimeout, logger, oddsOpts...)
	}

	rt.Planner = NewPlanner(fpl, odds, PlannerConfigFromConfig(cfg), rt.Metrics, logger)
	return rt
}

func (r *Runtime) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
