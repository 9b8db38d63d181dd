package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SessionSecret string
	GinMode       string

	// Magic-link delivery
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPPassword string
	AppBaseURL   string

	// CORS
	AllowedOrigins []string

	// Rate limiting for the magic-link endpoint
	RateLimitPerMinute int
	RateLimitBurst     int

	// Logging
	LogFile  string
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "kanban"),
		DBPassword:    getEnv("DB_PASSWORD", "kanbanpassword"),
		DBName:        getEnv("DB_NAME", "kanban_board"),
		DBSSLMode:     getEnv("DB_SSL_MODE", "disable"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPFrom:     getEnv("SMTP_FROM", "noreply@kanban.local"),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		AllowedOrigins: []string{getEnv("ALLOWED_ORIGIN", "http://localhost:3000")},

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 5),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 3),

		LogFile:  getEnv("LOG_FILE", "logs/kanban-api.log"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// SignInTokenRate returns the refill rate for the magic-link limiter.
func (c *Config) SignInTokenRate() time.Duration {
	if c.RateLimitPerMinute <= 0 {
		return time.Minute
	}
	return time.Minute / time.Duration(c.RateLimitPerMinute)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
