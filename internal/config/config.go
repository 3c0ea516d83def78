package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Session  SessionConfig
	Admin    AdminConfig
	Events   EventsConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	PageSize           int
}

type DatabaseConfig struct {
	Connection string
}

type SessionConfig struct {
	Backend           string // "memory" or "redis"
	RedisURL          string
	TTL               time.Duration
	UnlockTokenSecret string
	UnlockTokenTTL    time.Duration
}

type AdminConfig struct {
	PasswordHash string
	Password     string
}

type EventsConfig struct {
	AuditTopicName string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			PageSize:           getEnvAsInt("PAGE_SIZE", 10),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Session: SessionConfig{
			Backend:           getEnv("SESSION_BACKEND", "memory"),
			RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
			TTL:               getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			UnlockTokenSecret: getEnv("UNLOCK_TOKEN_SECRET", ""),
			UnlockTokenTTL:    getEnvAsDuration("UNLOCK_TOKEN_TTL", 30*time.Second),
		},
		Admin: AdminConfig{
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			Password:     getEnv("ADMIN_PASSWORD", ""),
		},
		Events: EventsConfig{
			AuditTopicName: getEnv("NOTEBOOK_AUDIT_TOPIC_NAME", "NOTEBOOK_AUDIT"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
