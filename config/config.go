package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds all settings read from the environment
type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// DBDriver is "pgx" (Postgres) or "sqlite"
	DBDriver    string `env:"DB_DRIVER" envDefault:"pgx"`
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST"`
	DBPort      string `env:"DB_PORT" envDefault:"5432"`
	DBUser      string `env:"DB_USER"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBName      string `env:"DB_NAME"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"disable"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// Redis is optional; without it shuffle sessions are client-side only
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"OUTFIT_SESSION_TTL" envDefault:"2h"`

	ComposeTimeout time.Duration `env:"OUTFIT_COMPOSE_TIMEOUT" envDefault:"3s"`
	PoolSize       int           `env:"OUTFIT_POOL_SIZE" envDefault:"40"`
	RankedPerSlot  int           `env:"OUTFIT_RANKED_PER_SLOT" envDefault:"1"`
	RankedMaxItems int           `env:"OUTFIT_RANKED_MAX_ITEMS" envDefault:"3"`
	SampledPerRole int           `env:"OUTFIT_SAMPLED_PER_ROLE" envDefault:"2"`
	RulesPath      string        `env:"OUTFIT_RULES_PATH"`

	LookboardCacheDir string        `env:"LOOKBOARD_CACHE_DIR" envDefault:"cache/lookboards"`
	ImageFetchTimeout time.Duration `env:"IMAGE_FETCH_TIMEOUT" envDefault:"5s"`
}

// Load reads .env outside production and parses the environment into Config
func Load() (Config, error) {
	// In production, variables should be set directly
	if os.Getenv("ENV") != "production" {
		envPath := ".env"
		if err := godotenv.Overload(envPath); err != nil {
			log.Printf("Warning: .env file not found at %s, using system environment variables", envPath)
		} else {
			log.Printf("Successfully loaded environment variables from %s (overriding system variables)", envPath)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.Port) > 0 && cfg.Port[0] == ':' {
		cfg.Port = cfg.Port[1:]
	}
	return cfg, nil
}

// DSN returns the database connection string, building it from the DB_*
// parts when DATABASE_URL is not set
func (c Config) DSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBDriver == "sqlite" {
		return "", fmt.Errorf("DATABASE_URL is required for the sqlite driver")
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return "", fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode), nil
}
