package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// State backend selectors.
const (
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

type Config struct {
	Port string

	// State backend: memory (volatile), badger (local disk) or postgres.
	StateBackend string
	BadgerPath   string
	DBUrl        string

	// Session tokens
	JWTSecret     string
	JWTTTLMinutes int

	// Redis (login rate limiting); in-memory fallback when unset
	RedisURL      string
	RedisPassword string

	// Rate limiting
	RateLimitWindowSeconds  int
	RateLimitLoginThreshold int

	// Submit InitLedger at startup (idempotent)
	AutoInitLedger bool

	FrontendURL string
}

func LoadConfig() (*Config, error) {
	// Only effective locally; ignored in production when the file is absent.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		StateBackend:            getEnv("STATE_BACKEND", BackendBadger),
		BadgerPath:              getEnv("BADGER_PATH", "./data/ledger"),
		DBUrl:                   getEnv("DATABASE_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		JWTTTLMinutes:           getEnvInt("JWT_TTL_MINUTES", 60),
		RedisURL:                getEnv("REDIS_URL", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RateLimitWindowSeconds:  getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitLoginThreshold: getEnvInt("RATE_LIMIT_LOGIN_THRESHOLD", 10),
		AutoInitLedger:          getEnvBool("AUTO_INIT_LEDGER", true),
		FrontendURL:             getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is missing. Authenticated routes will reject every request.")
	}
	if cfg.StateBackend == BackendPostgres && cfg.DBUrl == "" {
		log.Println("WARNING: STATE_BACKEND=postgres but DATABASE_URL is missing.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
