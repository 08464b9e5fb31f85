package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config captures the runtime configuration for the ClipStream backend service.
type Config struct {
	AppPort       int
	DatabaseURL   string
	DBMaxConns    int
	SessionSecret string
	SessionMaxAge time.Duration
	MigrationDir  string
	SeedDir       string
	LogLevel      string
	FeedCacheTTL  time.Duration
	ObjectStore   ObjectStoreConfig
}

// ObjectStoreConfig points the upload provider at an S3-compatible bucket.
type ObjectStoreConfig struct {
	Endpoint      string
	Region        string
	Bucket        string
	PublicBaseURL string
}

// ErrMissingDatabaseURL is returned when the mandatory connection string is absent.
var ErrMissingDatabaseURL = errors.New("config: CLIPSTREAM_DATABASE_URL must be set")

// Load reads configuration from environment variables, applying sensible defaults
// for local development. The database URL has no default: without it the process
// cannot do anything useful, so its absence is a fatal startup condition.
func Load() (Config, error) {
	cfg := Config{
		AppPort:       getInt("CLIPSTREAM_PORT", 8080),
		DatabaseURL:   os.Getenv("CLIPSTREAM_DATABASE_URL"),
		DBMaxConns:    getInt("CLIPSTREAM_DB_MAX_CONNS", 10),
		SessionSecret: os.Getenv("CLIPSTREAM_SESSION_SECRET"),
		SessionMaxAge: getDuration("CLIPSTREAM_SESSION_MAX_AGE", 30*24*time.Hour),
		MigrationDir:  getString("CLIPSTREAM_MIGRATIONS", "migrations"),
		SeedDir:       getString("CLIPSTREAM_SEEDS", "seeds"),
		LogLevel:      getString("CLIPSTREAM_LOG_LEVEL", "info"),
		FeedCacheTTL:  getDuration("CLIPSTREAM_FEED_CACHE_TTL", 30*time.Second),
		ObjectStore: ObjectStoreConfig{
			Endpoint:      getString("CLIPSTREAM_S3_ENDPOINT", ""),
			Region:        getString("CLIPSTREAM_S3_REGION", "us-east-1"),
			Bucket:        getString("CLIPSTREAM_S3_BUCKET", ""),
			PublicBaseURL: getString("CLIPSTREAM_S3_PUBLIC_URL", ""),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, ErrMissingDatabaseURL
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
