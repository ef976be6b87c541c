package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote REST API
	APIBaseURL string
	APITimeout time.Duration

	// Gateway server
	APIPort string
	APIHost string

	// Cache
	CacheDriver string
	CachePrefix string
	CacheTTL    time.Duration
	RedisURL    string
	DatabaseURL string

	// Kafka
	KafkaBrokers string
	KafkaTopic   string
	KafkaGroupID string

	// Storefront
	CORSOrigins           []string
	Currency              string
	CombinationsThreshold int

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		APIBaseURL:            getEnv("API_BASE_URL", "http://localhost:3000/api"),
		APITimeout:            time.Duration(getEnvAsInt("API_TIMEOUT_MS", 10000)) * time.Millisecond,
		APIPort:               getEnv("API_PORT", "8080"),
		APIHost:               getEnv("API_HOST", "0.0.0.0"),
		CacheDriver:           getEnv("CACHE_DRIVER", "memory"),
		CachePrefix:           getEnv("CACHE_PREFIX", "storefront:"),
		CacheTTL:              getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
		DatabaseURL:           getEnv("DATABASE_URL", "sqlite://storefront-cache.db"),
		KafkaBrokers:          getEnv("KAFKA_BROKERS", "localhost:9092"),
		KafkaTopic:            getEnv("KAFKA_TOPIC", "catalog-events"),
		KafkaGroupID:          getEnv("KAFKA_GROUP_ID", "storefront-cache"),
		CORSOrigins:           getEnvAsList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		Currency:              getEnv("CURRENCY", "FCFA"),
		CombinationsThreshold: getEnvAsInt("COMBINATIONS_THRESHOLD", 100),
		Env:                   getEnv("ENV", "development"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}, nil
}

// Brokers splits the comma separated broker list.
func (c *Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return splitList(value)
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
