package services

import (
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/subarna007/fpl-helper/internal/providers"
)

// Upstream names guarded by the breaker service.
const (
	ServiceFPL  = "fpl"
	ServiceOdds = "odds"
)

type CircuitBreakerService struct {
	breakers map[string]*gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

func NewCircuitBreakerService(threshold int, timeout time.Duration, logger *logrus.Logger) *CircuitBreakerService {
	newSettings := func(name string) gobreaker.Settings {
		return gobreaker.Settings{
			Name:        name,
			MaxRequests: uint32(threshold),
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
			IsSuccessful: isBreakerSuccess,
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"component": "circuit_breaker",
					"service":   name,
					"from":      from.String(),
					"to":        to.String(),
				}).Info("Circuit breaker state changed")
			},
		}
	}

	breakers := map[string]*gobreaker.CircuitBreaker{
		ServiceFPL:  gobreaker.NewCircuitBreaker(newSettings(ServiceFPL)),
		ServiceOdds: gobreaker.NewCircuitBreaker(newSettings(ServiceOdds)),
	}

	return &CircuitBreakerService{
		breakers: breakers,
		logger:   logger,
	}
}

// isBreakerSuccess keeps client-caused 4xx responses (an unknown entry id, say)
// from counting against the upstream. 429 is throttling and still counts. The
// caller receives the error either way.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var upstream *providers.UpstreamError
	if errors.As(err, &upstream) {
		code := upstream.StatusCode
		return code >= http.StatusBadRequest && code < http.StatusInternalServerError && code != http.StatusTooManyRequests
	}
	return false
}

// Execute wraps a function call with circuit breaker protection
func (cb *CircuitBreakerService) Execute(service string, fn func() (interface{}, error)) (interface{}, error) {
	breaker, exists := cb.breakers[service]
	if !exists {
		cb.logger.WithFields(logrus.Fields{
			"component": "circuit_breaker",
			"service":   service,
		}).Warn("No circuit breaker found for service, executing without protection")
		return fn()
	}

	return breaker.Execute(fn)
}

// GetState returns the current state of a circuit breaker
func (cb *CircuitBreakerService) GetState(service string) gobreaker.State {
	if breaker, exists := cb.breakers[service]; exists {
		return breaker.State()
	}
	return gobreaker.StateClosed
}

// States reports every breaker by name, for the health endpoint.
func (cb *CircuitBreakerService) States() map[string]string {
	states := make(map[string]string, len(cb.breakers))
	for name, b := range cb.breakers {
		states[name] = b.State().String()
	}
	return states
}
