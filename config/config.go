package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type ServerConfig struct {
	Port    string
	BaseURL string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// URL is the golang-migrate connection string for the configured driver.
func (c DatabaseConfig) URL() string {
	if c.Driver == DriverSQLite {
		return "sqlite://" + c.SQLitePath
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
}

type RateLimitConfig struct {
	Window                time.Duration
	Tracking              int
	Sync                  int
	Reports               int
	CompactionProbability float64
}

type TrackingConfig struct {
	MinVisitMs   int64
	Timezone     string
	MaxRangeDays int
}

type Config struct {
	Server    ServerConfig
	DB        DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Tracking  TrackingConfig
	Env       string
}

func LoadConfig() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
		DB: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverPostgres),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "tracker"),
			Password:   getEnv("DB_PASS", "tracker"),
			DBName:     getEnv("DB_NAME", "productivity_tracker"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "productivity.db"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			Window:                getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			Tracking:              getEnvInt("RATE_LIMIT_TRACKING", 100),
			Sync:                  getEnvInt("RATE_LIMIT_SYNC", 50),
			Reports:               getEnvInt("RATE_LIMIT_REPORTS", 50),
			CompactionProbability: getEnvFloat("RATE_LIMIT_COMPACTION_PROBABILITY", 0.01),
		},
		Tracking: TrackingConfig{
			MinVisitMs:   int64(getEnvInt("TRACKING_MIN_VISIT_MS", 1000)),
			Timezone:     getEnv("TRACKING_TIMEZONE", "UTC"),
			MaxRangeDays: getEnvInt("TRACKING_MAX_RANGE_DAYS", 366),
		},
		Env: getEnv("ENV", "prod"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %t", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %g", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvDuration accepts Go durations ("15m") or a bare number of milliseconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
