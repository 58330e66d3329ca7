package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/srgjo27/tour_booking/internal/platform/database"
)

type Config struct {
	HTTPAddr      string
	StorageDriver string

	Postgres database.Config
	MongoURI string
	MongoDB  string
	Redis    database.RedisConfig

	JWTSecret            string
	PaymentWebhookSecret string
	CORSOrigins          []string
	RateLimitRPS         float64
	RateLimitBurst       int

	PendingHoldTTL  time.Duration
	CleanupInterval time.Duration
	SlotCacheTTL    time.Duration
	PaymentEventTTL time.Duration
	ShutdownTimeout time.Duration

	Log LogConfig
}

type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Load reads .env when present and then the process environment. A missing
// .env file is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", f, err)
			}
		}
	}

	r := reader{}
	cfg := &Config{
		HTTPAddr:      r.str("HTTP_ADDR", ":8080"),
		StorageDriver: r.str("STORAGE_DRIVER", "postgres"),
		Postgres: database.Config{
			Host:     r.str("DB_HOST", "localhost"),
			Port:     r.str("DB_PORT", "5432"),
			User:     r.str("DB_USER", "postgres"),
			Password: r.str("DB_PASSWORD", ""),
			DBName:   r.str("DB_NAME", "tour_booking"),
		},
		MongoURI: r.str("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:  r.str("MONGO_DB", "tour_booking"),
		Redis: database.RedisConfig{
			Host:     r.str("REDIS_HOST", "localhost"),
			Port:     r.str("REDIS_PORT", "6379"),
			Password: r.str("REDIS_PASSWORD", ""),
			DB:       r.int("REDIS_DB", 0),
		},
		JWTSecret:            r.str("JWT_SECRET", ""),
		PaymentWebhookSecret: r.str("PAYMENT_WEBHOOK_SECRET", ""),
		CORSOrigins:          r.list("CORS_ORIGINS", []string{"*"}),
		RateLimitRPS:         r.float("RATE_LIMIT_RPS", 5),
		RateLimitBurst:       r.int("RATE_LIMIT_BURST", 10),
		PendingHoldTTL:       r.duration("PENDING_HOLD_TTL", 0),
		CleanupInterval:      r.duration("CLEANUP_INTERVAL", time.Minute),
		SlotCacheTTL:         r.duration("SLOT_CACHE_TTL", 30*time.Second),
		PaymentEventTTL:      r.duration("PAYMENT_EVENT_TTL", 72*time.Hour),
		ShutdownTimeout:      r.duration("SHUTDOWN_TIMEOUT", 5*time.Second),
		Log: LogConfig{
			Level:      r.str("LOG_LEVEL", "info"),
			File:       r.str("LOG_FILE", ""),
			MaxSizeMB:  r.int("LOG_MAX_SIZE_MB", 100),
			MaxBackups: r.int("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: r.int("LOG_MAX_AGE_DAYS", 28),
		},
	}

	if len(r.errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(r.errs, "; "))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case "postgres", "mongo", "memory":
	default:
		return fmt.Errorf("invalid configuration: STORAGE_DRIVER must be postgres, mongo or memory, got %q", c.StorageDriver)
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("invalid configuration: JWT_SECRET is required")
	}

	return nil
}

type reader struct {
	errs []string
}

func (r *reader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (r *reader) float(key string, def float64) float64 {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return f
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}

func (r *reader) list(key string, def []string) []string {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
