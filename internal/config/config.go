// Package config loads process configuration from the environment, with a
// local .env file loaded first via godotenv for local development — the same
// convention the teacher's deployment scripts expect.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config is the process-wide configuration tree.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Weather  WeatherConfig
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the Postgres connection parameters consumed by
// internal/pkg/database.Connect.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the connection string lib/pq expects.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// WeatherConfig controls the C1 weather provider: the store's coordinates
// and the forecast API base URL.
type WeatherConfig struct {
	Latitude  float64
	Longitude float64
	BaseURL   string
}

// Load reads configuration from the environment, loading a .env file first
// if one is present in the working directory (ignored if absent — the
// teacher's main.go runs the same way in containers with no .env file).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "pos_saas"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Weather: WeatherConfig{
			Latitude:  getEnvFloat("WEATHER_LATITUDE", 35.6895),  // Tokyo
			Longitude: getEnvFloat("WEATHER_LONGITUDE", 139.6917),
			BaseURL:   getEnv("WEATHER_BASE_URL", "https://api.open-meteo.com/v1/forecast"),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var parsed float64
	if _, err := fmt.Sscanf(v, "%f", &parsed); err != nil {
		return fallback
	}
	return parsed
}
