package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port              string
	GinMode           string
	LogLevel          string
	CORSAllowedOrigin string
	RateLimitRPS      float64
	RateLimitBurst    int
	SeedFile          string
	DB                DBConfig
}

type DBConfig struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	Path        string
	AutoMigrate bool
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, relying on environment variables")
	}

	driver := strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverMySQL))

	cfg := &Config{
		Port:              getEnvOrDefault("PORT", "8080"),
		GinMode:           os.Getenv("GIN_MODE"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		CORSAllowedOrigin: getEnvOrDefault("CORS_ALLOWED_ORIGIN", "http://127.0.0.1:5500"),
		RateLimitRPS:      getEnvAsFloatOrDefault("RATE_LIMIT_RPS", 50),
		RateLimitBurst:    getEnvAsIntOrDefault("RATE_LIMIT_BURST", 50),
		SeedFile:          os.Getenv("SEED_FILE"),
		DB: DBConfig{
			Driver:      driver,
			Host:        getEnvOrDefault("DB_HOST", "localhost"),
			Port:        getEnvAsIntOrDefault("DB_PORT", 3306),
			User:        getEnvOrDefault("DB_USER", "root"),
			Password:    os.Getenv("DB_PASSWORD"),
			Name:        getEnvOrDefault("DB_NAME", "reservations"),
			Path:        getEnvOrDefault("DB_PATH", "reservations.db"),
			AutoMigrate: getEnvAsBoolOrDefault("DB_AUTO_MIGRATE", driver == DriverSQLite),
		},
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("Environment variable %s is not an integer, using default value", key)
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Environment variable %s is not a number, using default value", key)
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Environment variable %s is not a boolean, using default value", key)
	}
	return defaultValue
}
