package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name          string
		logLevel      string
		logFormat     string
		isDevelopment bool
		expectedLevel logrus.Level
		expectJSON    bool
	}{
		{
			name:          "development defaults to debug text",
			isDevelopment: true,
			expectedLevel: logrus.DebugLevel,
		},
		{
			name:          "production defaults to info json",
			isDevelopment: false,
			expectedLevel: logrus.InfoLevel,
			expectJSON:    true,
		},
		{
			name:          "json format forced in development",
			logLevel:      "warn",
			logFormat:     "JSON",
			isDevelopment: true,
			expectedLevel: logrus.WarnLevel,
			expectJSON:    true,
		},
		{
			name:          "invalid level defaults to info",
			logLevel:      "loud",
			isDevelopment: true,
			expectedLevel: logrus.InfoLevel,
		},
		{
			name:          "case insensitive level",
			logLevel:      "ERROR",
			isDevelopment: false,
			expectedLevel: logrus.ErrorLevel,
			expectJSON:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "")
			Logger = nil
			var buf bytes.Buffer

			log := initLogger(tt.logLevel, tt.logFormat, tt.isDevelopment, &buf)

			assert.Equal(t, tt.expectedLevel, log.GetLevel())
			_, isJSON := log.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.expectJSON, isJSON)
			assert.Same(t, log, Logger)
		})
	}
}

func TestWithEntryContext(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetOutput(&buf)

	WithEntryContext(base, "req-1", 42, 5).Info("planning")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, float64(42), line["entry_id"])
	assert.Equal(t, float64(5), line["horizon"])
	assert.Equal(t, "planning", line["msg"])
}

func TestRequestIDContext(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-7")
	assert.Equal(t, "req-7", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestWithRequestIDFallsBackToGlobal(t *testing.T) {
	Logger = nil
	var buf bytes.Buffer
	initLogger("info", "json", false, &buf)

	WithRequestID(nil, "req-2").Info("handled")
	WithService("fpl-helper").Info("started")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "req-2", first["request_id"])
	assert.Equal(t, "fpl-helper", second["service"])
}
