package providers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/subarna007/fpl-helper/pkg/utils"
)

const userAgent = "fpl-helper/1.0 (+https://github.com/subarna007/fpl-helper)"

// CacheProvider stores decoded upstream payloads. Implementations return an error on miss.
type CacheProvider interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Breaker guards calls to one named upstream.
type Breaker interface {
	Execute(service string, fn func() (interface{}, error)) (interface{}, error)
}

// Observer records upstream call outcomes.
type Observer interface {
	ObserveUpstream(service, endpoint, status string, elapsed time.Duration)
}

// UpstreamError is a failed call to an external provider. StatusCode is zero when
// no response was received.
type UpstreamError struct {
	Service    string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed: %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: %s: %v", e.Service, e.Endpoint, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	return target == utils.ErrUpstream
}

// guard runs fn through the breaker when one is configured, converting an open
// breaker into an UpstreamError.
func guard(b Breaker, service, endpoint string, fn func() error) error {
	if b == nil {
		return fn()
	}
	_, err := b.Execute(service, func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &UpstreamError{Service: service, Endpoint: endpoint, Err: err}
	}
	return err
}
