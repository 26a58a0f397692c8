package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of security event
type EventType string

const (
	EventLoginFailed            EventType = "login_failed"
	EventLoginBlocked           EventType = "login_blocked"
	EventLoginSuccess           EventType = "login_success"
	EventRegistered             EventType = "account_registered"
	EventRateLimitTriggered     EventType = "rate_limit_triggered"
	EventPasswordChanged        EventType = "password_changed"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
	EventSessionRevoked         EventType = "session_revoked"
	EventUploadRejected         EventType = "upload_rejected"
)

// SecurityEvent represents a security-related event to be logged
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "email", "ip", "user_id"
	SubjectValue string
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]any
}

// SecurityLogger writes audit events with zap, separately from the request log.
type SecurityLogger struct {
	zapLogger   *zap.Logger
	environment string
}

var defaultLogger *SecurityLogger

// InitSecurityLogger builds the production zap logger and makes it the default.
func InitSecurityLogger(environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		zl, _ = zap.NewProduction()
	}

	defaultLogger = NewSecurityLogger(zl, environment)
	return defaultLogger
}

// NewSecurityLogger wraps an existing zap logger.
func NewSecurityLogger(zl *zap.Logger, environment string) *SecurityLogger {
	return &SecurityLogger{
		zapLogger:   zl.With(zap.String("service", "skillijob-api"), zap.String("env", environment), zap.String("channel", "security")),
		environment: environment,
	}
}

// DefaultLogger returns the default security logger, or a no-op one before init.
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return NewSecurityLogger(zap.NewNop(), "development")
	}
	return defaultLogger
}

func levelFor(event EventType) zapcore.Level {
	switch event {
	case EventLoginSuccess, EventRegistered, EventPasswordChanged,
		EventPasswordResetRequested, EventPasswordResetCompleted, EventSessionRevoked:
		return zapcore.InfoLevel
	case EventLoginBlocked:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// Log logs a security event
func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	fields := []zap.Field{
		zap.String("event", string(event.Event)),
		zap.Time("at", time.Now().UTC()),
	}
	if event.SubjectType != "" {
		fields = append(fields,
			zap.String("subject_type", event.SubjectType),
			zap.String("subject_value", maskValue(event.SubjectType, event.SubjectValue)),
		)
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", event.UserAgent))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Any("details", event.Details))
	}

	sl.zapLogger.Log(levelFor(event.Event), string(event.Event), fields...)
}

// LogLoginFailed logs a failed login attempt
func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, userAgent, requestID, reason string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginFailed,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": reason},
	})
}

// LogLoginBlocked logs when a login is refused because of too many failures
func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip, userAgent, requestID string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventLoginBlocked,
		SubjectType:  "email",
		SubjectValue: email,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"reason": "too_many_failed_attempts"},
	})
}

// LogRateLimitTriggered logs when rate limiting is triggered
func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.Log(ctx, SecurityEvent{
		Event:        EventRateLimitTriggered,
		SubjectType:  "ip",
		SubjectValue: ip,
		IP:           ip,
		UserAgent:    userAgent,
		RequestID:    requestID,
		Details:      map[string]any{"endpoint": endpoint},
	})
}

// Sync flushes any buffered log entries
func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// HashValue returns a short SHA-256 fingerprint of value.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}

func maskValue(subjectType, value string) string {
	switch subjectType {
	case "email":
		return MaskEmail(value)
	case "ip":
		return value
	default:
		return HashValue(value)
	}
}
