package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subarna007/fpl-helper/internal/providers"
)

func TestCircuitBreakerService(t *testing.T) {
	cb := NewCircuitBreakerService(1, time.Minute, quietLogger())
	failing := func() (interface{}, error) { return nil, errors.New("upstream down") }

	for i := 0; i < 3; i++ {
		_, err := cb.Execute(ServiceFPL, failing)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, cb.GetState(ServiceFPL))

	_, err := cb.Execute(ServiceFPL, func() (interface{}, error) { return "ok", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)

	// other upstreams trip independently
	got, err := cb.Execute(ServiceOdds, func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState(ServiceOdds))

	assert.Equal(t, map[string]string{"fpl": "open", "odds": "closed"}, cb.States())
}

func TestCircuitBreakerUnknownService(t *testing.T) {
	cb := NewCircuitBreakerService(1, time.Minute, quietLogger())
	got, err := cb.Execute("weather", func() (interface{}, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, gobreaker.StateClosed, cb.GetState("weather"))
}

func TestCircuitBreakerIgnoresClientErrors(t *testing.T) {
	cb := NewCircuitBreakerService(1, time.Minute, quietLogger())
	notFound := func() (interface{}, error) {
		return nil, &providers.UpstreamError{Service: ServiceFPL, Endpoint: "entry", StatusCode: http.StatusNotFound}
	}

	for i := 0; i < 5; i++ {
		_, err := cb.Execute(ServiceFPL, notFound)
		var upstream *providers.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.GetState(ServiceFPL))

	got, err := cb.Execute(ServiceFPL, func() (interface{}, error) { return "bootstrap", nil })
	require.NoError(t, err)
	assert.Equal(t, "bootstrap", got)
}

func TestIsBreakerSuccess(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: true},
		{name: "not found", err: &providers.UpstreamError{StatusCode: 404}, want: true},
		{name: "wrapped bad request", err: fmt.Errorf("failed to load entry 1: %w", &providers.UpstreamError{StatusCode: 400}), want: true},
		{name: "throttled", err: &providers.UpstreamError{StatusCode: 429}, want: false},
		{name: "server error", err: &providers.UpstreamError{StatusCode: 503}, want: false},
		{name: "transport error", err: &providers.UpstreamError{Err: errors.New("connection refused")}, want: false},
		{name: "decode error", err: errors.New("failed to decode bootstrap-static response"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isBreakerSuccess(tt.err))
		})
	}
}

func TestUnknownEntriesDoNotTripFPLBreaker(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/entry/999999999/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements":[],"teams":[],"events":[{"id":1,"is_current":true}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	breakers := NewCircuitBreakerService(1, time.Minute, quietLogger())
	client := providers.NewFPLClient(srv.URL, time.Second, 100, quietLogger(), providers.WithFPLBreaker(breakers))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Entry(ctx, 999999999)
		var upstream *providers.UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, http.StatusNotFound, upstream.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, breakers.GetState(ServiceFPL))

	b, err := client.Bootstrap(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, b.CurrentGameweek())
}
