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
	SMTP     SMTPConfig
	Ai       AIBackendConfig
	Notes    NotesConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	ServiceKey         string // shared secret for the trusted backend-to-backend channel
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIBackendConfig struct {
	BaseURL        string
	APIKey         string
	WarmupTimeout  time.Duration
	WarmupInterval time.Duration
	PollInterval   time.Duration
}

type NotesConfig struct {
	AutoSaveDelay time.Duration
	AutoGenerate  bool
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
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			ServiceKey:         getEnv("BACKEND_SERVICE_KEY", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "LectureLens"),
		},
		Ai: AIBackendConfig{
			BaseURL:        getEnv("AI_BACKEND_URL", "http://localhost:8000"),
			APIKey:         getEnv("AI_BACKEND_API_KEY", ""),
			WarmupTimeout:  getEnvAsDuration("AI_WARMUP_TIMEOUT", 30*time.Second),
			WarmupInterval: getEnvAsDuration("AI_WARMUP_INTERVAL", 2*time.Second),
			PollInterval:   getEnvAsDuration("AI_POLL_INTERVAL", time.Second),
		},
		Notes: NotesConfig{
			AutoSaveDelay: getEnvAsDuration("NOTE_AUTOSAVE_DELAY", 2*time.Second),
			AutoGenerate:  getEnvAsBool("NOTE_AUTO_GENERATE", true),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
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
