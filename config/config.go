package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort         string
	APIBaseURL         string
	ExportHistoryPath  string
	LogLevel           string
	HTTPTimeoutSeconds string
}

// GetHTTPTimeout returns the backend request timeout from environment or default.
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds == "" {
		return 30 * time.Second
	}

	seconds, err := strconv.Atoi(c.HTTPTimeoutSeconds)
	if err != nil || seconds <= 0 {
		logrus.Warnf("Invalid HTTP_TIMEOUT_SECONDS value: %s, using default 30 seconds", c.HTTPTimeoutSeconds)
		return 30 * time.Second
	}

	return time.Duration(seconds) * time.Second
}

// GetLogLevel parses the configured log level, falling back to info.
func (c *Config) GetLogLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid LOG_LEVEL value: %s, using info", c.LogLevel)
		return logrus.InfoLevel
	}
	return level
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:8000"),
		ExportHistoryPath:  getEnv("EXPORT_HISTORY_PATH", "export-history.json"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPTimeoutSeconds: getEnv("HTTP_TIMEOUT_SECONDS", "30"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
