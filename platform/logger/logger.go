// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ClientIDKey is the context key for the visitor client ID
	ClientIDKey contextKey = "client_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and client_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("request_id", requestID))}
	}

	if clientID, ok := ctx.Value(ClientIDKey).(string); ok && clientID != "" {
		newLogger = &Logger{Logger: newLogger.With(slog.String("client_id", clientID))}
	}

	return newLogger
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// TrackingEvent logs a processed tracking event.
func (l *Logger) TrackingEvent(event, organization, clientID, source string) {
	l.Info("tracking_event",
		slog.String("event", event),
		slog.String("organization", organization),
		slog.String("client_id", clientID),
		slog.String("source", source),
	)
}

// DeviceSwitch logs a cross-device identity merge: the same email arrived
// with a client ID different from the one stored on the lead.
func (l *Logger) DeviceSwitch(leadID, oldClientID, newClientID string) {
	l.Warn("device_switch",
		slog.String("lead_id", leadID),
		slog.String("old_client_id", oldClientID),
		slog.String("new_client_id", newClientID),
	)
}

// GeoLookupFailed logs a degraded geo-IP lookup.
func (l *Logger) GeoLookupFailed(ip string, err error) {
	l.Warn("geo_lookup_failed",
		slog.String("ip", ip),
		slog.String("error", err.Error()),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
