package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexivanou/geoweather/internal/model"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server  ServerConfig
	Weather WeatherConfig
	Seed    model.Location
	Session SessionConfig
	Geo     GeoConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// WeatherConfig holds settings for the Open-Meteo client
type WeatherConfig struct {
	ForecastURL  string
	GeocodingURL string
	// RPS is the outbound request rate shared by both endpoints
	RPS   float64
	Burst int
	// Timeout of zero leaves the transport defaults in place
	Timeout time.Duration
}

// SessionConfig holds settings for browser sessions
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// GeoConfig holds the fixed position used by the terminal client
type GeoConfig struct {
	Latitude  float64
	Longitude float64
	Enabled   bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	_, hasLat := os.LookupEnv("GEO_LATITUDE")
	_, hasLon := os.LookupEnv("GEO_LONGITUDE")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Weather: WeatherConfig{
			ForecastURL:  getEnv("FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
			GeocodingURL: getEnv("GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
			RPS:          getEnvAsFloat("WEATHER_RPS", 5),
			Burst:        getEnvAsInt("WEATHER_BURST", 10),
			Timeout:      getEnvAsDuration("WEATHER_HTTP_TIMEOUT", 0),
		},
		Seed: model.Location{
			Name:      getEnv("SEED_NAME", "Fairport, NY"),
			Admin1:    strings.TrimSpace(os.Getenv("SEED_ADMIN1")),
			Country:   getEnv("SEED_COUNTRY", "United States"),
			Latitude:  getEnvAsFloat("SEED_LATITUDE", 43.0987),
			Longitude: getEnvAsFloat("SEED_LONGITUDE", -77.4422),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", 30*time.Minute),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Geo: GeoConfig{
			Latitude:  getEnvAsFloat("GEO_LATITUDE", 0),
			Longitude: getEnvAsFloat("GEO_LONGITUDE", 0),
			Enabled:   hasLat && hasLon,
		},
	}

	return config, nil
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
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
