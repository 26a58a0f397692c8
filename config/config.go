package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CandidateSourceStatic   = "static"
	CandidateSourcePostgres = "postgres"
)

type Config struct {
	Port    string
	GinMode string
	AppEnv  string
	DBUrl   string
	// Candidate dataset
	CandidateSource string // "static" (embedded JSON or CANDIDATES_FILE) or "postgres"
	CandidatesFile  string
	// Sessions
	SessionSecret      string
	SessionTTL         time.Duration
	PasswordResetTTL   time.Duration
	LoginMaxAttempts   int
	LoginAttemptWindow time.Duration
	FrontendURL        string
	// SMTP Configuration
	SMTPHost       string
	SMTPPort       string
	SMTPUsername   string
	SMTPPassword   string
	SMTPFromEmail  string
	ContactEmailTo string
	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitLoginThreshold  int
	RateLimitGlobalThreshold int
	// Object storage for CV uploads
	S3Provider        string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	CVBucket          string
	CVMaxBytes        int64
	CVUploadsPerHour  int
	// clamd address (host:port); empty disables malware scanning
	ClamAVAddress string
	ClamAVTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is only present locally
	_ = godotenv.Load()

	cfg := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		AppEnv:  getEnv("APP_ENV", "development"),
		DBUrl:   getEnv("DATABASE_URL", ""),
		// Candidate dataset
		CandidateSource: strings.ToLower(getEnv("CANDIDATE_SOURCE", CandidateSourceStatic)),
		CandidatesFile:  getEnv("CANDIDATES_FILE", ""),
		// Sessions
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionTTL:         getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		PasswordResetTTL:   getEnvDuration("PASSWORD_RESET_TTL", time.Hour),
		LoginMaxAttempts:   getEnvInt("LOGIN_MAX_ATTEMPTS", 5),
		LoginAttemptWindow: getEnvDuration("LOGIN_ATTEMPT_WINDOW", 15*time.Minute),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		// SMTP Configuration
		SMTPHost:       getEnv("SMTP_HOST", "smtp-relay.brevo.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFromEmail:  getEnv("SMTP_FROM_EMAIL", "noreply@skillijob.fr"),
		ContactEmailTo: getEnv("CONTACT_EMAIL_TO", "contact@skillijob.fr"),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		// Rate Limiting Configuration
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold:  getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		// Object storage
		S3Provider:        strings.ToLower(getEnv("S3_PROVIDER", "aws")),
		S3Endpoint:        strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		S3Region:          getEnv("S3_REGION", "eu-west-3"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		CVBucket:          getEnv("S3_CV_BUCKET", "skillijob-cv"),
		CVMaxBytes:        int64(getEnvInt("CV_MAX_BYTES", 5*1024*1024)),
		CVUploadsPerHour:  getEnvInt("CV_UPLOADS_PER_HOUR", 5),
		ClamAVAddress:     getEnv("CLAMAV_ADDRESS", ""),
		ClamAVTimeout:     getEnvDuration("CLAMAV_TIMEOUT", 30*time.Second),
	}

	if cfg.CandidateSource != CandidateSourceStatic && cfg.CandidateSource != CandidateSourcePostgres {
		log.Printf("WARNING: unknown CANDIDATE_SOURCE %q, falling back to %q", cfg.CandidateSource, CandidateSourceStatic)
		cfg.CandidateSource = CandidateSourceStatic
	}

	if cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}

	if cfg.SessionSecret == "" {
		log.Println("WARNING: SESSION_SECRET is missing. Session tokens cannot be issued.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("15m") plus a "d" day suffix ("7d").
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	if days, ok := strings.CutSuffix(value, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			return time.Duration(n) * 24 * time.Hour
		}
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	return fallback
}
