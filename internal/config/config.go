package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Identity slot backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Config struct {
	Addr               string
	APIBaseURL         string
	LogLevel           string
	IdentityBackend    string
	DBPath             string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisKey           string
	HistoryWorkerCount int
	HistoryQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		APIBaseURL:         envOr("API_BASE_URL", "http://localhost:8000"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		IdentityBackend:    strings.ToLower(envOr("IDENTITY_BACKEND", BackendSQLite)),
		DBPath:             envOr("DB_PATH", "file:mathcat.db"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            envIntOr("REDIS_DB", 0),
		RedisKey:           envOr("REDIS_KEY", "mathcat:identity"),
		HistoryWorkerCount: envIntOr("HISTORY_WORKER_COUNT", 1),
		HistoryQueueSize:   envIntOr("HISTORY_QUEUE_SIZE", 32),
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		problems = append(problems, "API_BASE_URL cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch c.IdentityBackend {
	case BackendSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			problems = append(problems, "DB_PATH cannot be empty")
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			problems = append(problems, "REDIS_ADDR cannot be empty with the redis backend")
		}
		if c.RedisDB < 0 {
			problems = append(problems, "REDIS_DB cannot be negative")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("IDENTITY_BACKEND %q is not one of sqlite, redis, memory", c.IdentityBackend))
	}
	if c.HistoryWorkerCount <= 0 {
		problems = append(problems, "HISTORY_WORKER_COUNT must be positive")
	}
	if c.HistoryQueueSize <= 0 {
		problems = append(problems, "HISTORY_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
