package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration.
// logFormat "json" forces JSON in development; outside development it is always JSON.
func InitLogger(logLevel, logFormat string, isDevelopment bool) *logrus.Logger {
	return initLogger(logLevel, logFormat, isDevelopment, os.Stdout)
}

func initLogger(logLevel, logFormat string, isDevelopment bool, out io.Writer) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(logFormat) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.SetOutput(out)

	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", "", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

type requestIDKey struct{}

// ContextWithRequestID carries the request correlation id into service calls.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRequestID tags base (the global logger when nil) with the request correlation id
func WithRequestID(base *logrus.Logger, requestID string) *logrus.Entry {
	if base == nil {
		base = GetLogger()
	}
	return base.WithField("request_id", requestID)
}

// WithEntryContext creates a logger for work done on behalf of one FPL entry
func WithEntryContext(base *logrus.Logger, requestID string, entryID int, horizon int) *logrus.Entry {
	return WithRequestID(base, requestID).WithFields(logrus.Fields{
		"entry_id": entryID,
		"horizon":  horizon,
	})
}
