package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database (optional: analysis-run persistence)
	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis (optional: result cache)
	RedisEnabled   bool
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	RedisDB        int
	ResultCacheTTL time.Duration

	// Kafka (optional: analysis event bus)
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Artifacts
	ArtifactDir string
}

func Load() *Config {
	return &Config{
		PostgresEnabled:  getBoolEnv("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "psmatch"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "psmatch123"),
		PostgresDB:       getEnv("POSTGRES_DB", "psmatch"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisEnabled:   getBoolEnv("REDIS_ENABLED", false),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getIntEnv("REDIS_DB", 0),
		ResultCacheTTL: getDuration("RESULT_CACHE_TTL", 15*time.Minute),

		KafkaEnabled: getBoolEnv("KAFKA_ENABLED", false),
		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "psmatch.analysis"),

		ArtifactDir: getEnv("ARTIFACT_DIR", "./artifacts"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
