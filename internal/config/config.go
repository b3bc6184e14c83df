package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	Server    ServerConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Worker    WorkerConfig
}

type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

type JWTConfig struct {
	AccessSecret       string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig limits unauthenticated auth endpoints per client IP
type RateLimitConfig struct {
	AuthRequestsPerSecond float64
	AuthBurst             int
}

type WorkerConfig struct {
	MembershipExpiryInterval time.Duration
}

// ConfigurationError reports a setting the server cannot start without
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}

func LoadConfig() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "fitness_membership"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			// No defaults: a missing secret must stop the server, see Validate.
			AccessSecret:       os.Getenv("JWT_ACCESS_SECRET"),
			RefreshSecret:      os.Getenv("JWT_REFRESH_SECRET"),
			AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m"), 15*time.Minute),
			RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h"), 7*24*time.Hour),
		},
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		RateLimit: RateLimitConfig{
			AuthRequestsPerSecond: parseFloat(getEnv("AUTH_RATE_LIMIT_RPS", "5"), 5),
			AuthBurst:             parseInt(getEnv("AUTH_RATE_LIMIT_BURST", "10"), 10),
		},
		Worker: WorkerConfig{
			MembershipExpiryInterval: parseDuration(getEnv("MEMBERSHIP_EXPIRY_INTERVAL", "1h"), time.Hour),
		},
	}
}

// Validate checks the settings that have no safe default
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return &ConfigurationError{Key: "JWT_ACCESS_SECRET", Reason: "is required"}
	}
	if c.JWT.RefreshSecret == "" {
		return &ConfigurationError{Key: "JWT_REFRESH_SECRET", Reason: "is required"}
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return &ConfigurationError{Key: "JWT_REFRESH_SECRET", Reason: "must differ from JWT_ACCESS_SECRET"}
	}
	if c.JWT.AccessTokenExpiry <= 0 || c.JWT.RefreshTokenExpiry <= 0 {
		return &ConfigurationError{Key: "ACCESS_TOKEN_EXPIRY/REFRESH_TOKEN_EXPIRY", Reason: "must be positive"}
	}
	if c.Worker.MembershipExpiryInterval <= 0 {
		return &ConfigurationError{Key: "MEMBERSHIP_EXPIRY_INTERVAL", Reason: "must be positive"}
	}
	if c.RateLimit.AuthRequestsPerSecond <= 0 || c.RateLimit.AuthBurst <= 0 {
		return &ConfigurationError{Key: "AUTH_RATE_LIMIT_RPS/AUTH_RATE_LIMIT_BURST", Reason: "must be positive"}
	}
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return &ConfigurationError{Key: "DB_DRIVER", Reason: fmt.Sprintf("%q is not supported (mysql, postgres)", c.Database.Driver)}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		fmt.Printf("Warning: Invalid duration format '%s', using default\n", s)
		return fallback
	}
	return duration
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Printf("Warning: Invalid number '%s', using default\n", s)
		return fallback
	}
	return v
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		fmt.Printf("Warning: Invalid integer '%s', using default\n", s)
		return fallback
	}
	return v
}

func parseOrigins(s string) []string {
	origins := []string{}
	for _, origin := range strings.Split(s, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
