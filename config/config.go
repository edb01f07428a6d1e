package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration read from the environment
type Config struct {
	Env    string
	Port   string
	Domain string

	MongoURI      string
	MongoDatabase string

	RedisAddress     string
	RedisPassword    string
	IssueQueuePrefix string
	IssueDailyLimit  int

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string

	SeedFile string
	SeedDemo bool
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads an optional .env file and then the process environment.
// Returns whether a .env file was found alongside the config.
func Load() (*Config, bool, error) {
	foundEnvFile := godotenv.Load() == nil

	cfg := &Config{
		Env:              getEnv("GO_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		Domain:           os.Getenv("DOMAIN"),
		MongoURI:         os.Getenv("MONGODB_URI"),
		MongoDatabase:    getEnv("MONGODB_DATABASE", "citymapper"),
		RedisAddress:     os.Getenv("REDIS_ADDRESS"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		IssueQueuePrefix: getEnv("REDIS_QUEUE_FOR_ISSUE_LIMIT", "issue_limit"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		SeedFile:         os.Getenv("SEED_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, foundEnvFile, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	var err error
	if cfg.IssueDailyLimit, err = strconv.Atoi(getEnv("ISSUE_DAILY_LIMIT", "10")); err != nil || cfg.IssueDailyLimit < 1 {
		return nil, foundEnvFile, fmt.Errorf("invalid ISSUE_DAILY_LIMIT %q", os.Getenv("ISSUE_DAILY_LIMIT"))
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "72h")); err != nil || cfg.TokenTTL <= 0 {
		return nil, foundEnvFile, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}
	if cfg.SeedDemo, err = strconv.ParseBool(getEnv("SEED_DEMO", "true")); err != nil {
		return nil, foundEnvFile, fmt.Errorf("invalid SEED_DEMO %q: %w", os.Getenv("SEED_DEMO"), err)
	}

	return cfg, foundEnvFile, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
