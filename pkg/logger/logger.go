package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance.
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production.
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// getLogLevel converts string to slog.Level.
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("request_id", requestID))}
}

// WithError adds error to logger context.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("error", err.Error()))}
}

// LogHTTPRequest logs an HTTP request.
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
	)
}

// LogTicketsIssued logs a successful issuance batch.
func (l *Logger) LogTicketsIssued(ctx context.Context, orderID string, count int) {
	l.Logger.InfoContext(ctx,
		"Tickets Issued",
		slog.String("order_id", orderID),
		slog.Int("count", count),
	)
}

// LogTicketsRolledBack logs a compensation run that removed tickets
// after a later workflow step failed.
func (l *Logger) LogTicketsRolledBack(ctx context.Context, orderID string, count int) {
	l.Logger.WarnContext(ctx,
		"Tickets Rolled Back",
		slog.String("order_id", orderID),
		slog.Int("count", count),
	)
}

// LogCheckoutRejected logs a checkout guard rejection.
func (l *Logger) LogCheckoutRejected(ctx context.Context, cartID string, reason string) {
	l.Logger.WarnContext(ctx,
		"Checkout Rejected",
		slog.String("cart_id", cartID),
		slog.String("reason", reason),
	)
}

// LogTicketScanned logs a door-scan validation.
func (l *Logger) LogTicketScanned(ctx context.Context, ticketID string, valid bool) {
	l.Logger.InfoContext(ctx,
		"Ticket Scanned",
		slog.String("ticket_id", ticketID),
		slog.Bool("valid", valid),
	)
}

// Global logger instance (can be replaced with dependency injection).
var defaultLogger = New()

// GetDefault returns the default logger instance.
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance.
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
