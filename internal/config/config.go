package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port                    string
	DatabaseDSN             string
	LocalDBPath             string
	Timezone                string
	LogLevel                string
	JWTSecret               string
	CryptoKey               string
	FirebaseCredentialsFile string
	FirebaseProjectID       string
	ReminderConcurrency     int
	AllowedOrigins          []string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		DatabaseDSN:             getEnv("DATABASE_DSN", ""),
		LocalDBPath:             getEnv("LOCAL_DB_PATH", "goals.db"),
		Timezone:                getEnv("APP_TIMEZONE", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		CryptoKey:               getEnv("CRYPTO_KEY", ""),
		FirebaseCredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		ReminderConcurrency:     getEnvInt("REMINDER_CONCURRENCY", 8),
		AllowedOrigins:          getEnvList("CORS_ALLOWED_ORIGINS"),
	}
}

func (c *Config) RemoteEnabled() bool {
	return c.DatabaseDSN != ""
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
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using %d", value, defaultValue)
		return defaultValue
	}
	return n
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
