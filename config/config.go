package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SchedulerConfig struct {
	// RenewalSchedule is a cron expression; the default runs the renewal
	// batch daily at 00:30.
	RenewalSchedule string
	// ItemTimeoutSeconds bounds the time spent on a single subscription so
	// one hung store call cannot stall the whole batch.
	ItemTimeoutSeconds int
}

func (c *DBConfig) GetDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

func Load() *Config {
	// Best effort; env vars win over .env and absence of the file is fine.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8081"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "memberbill"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "memberbill"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Scheduler: SchedulerConfig{
			RenewalSchedule:    getEnv("RENEWAL_SCHEDULE", "30 0 * * *"),
			ItemTimeoutSeconds: getEnvInt("RENEWAL_ITEM_TIMEOUT_SECONDS", 30),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
		return fallback
	}
	return n
}
