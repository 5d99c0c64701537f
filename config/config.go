// Package config provides configuration management for the devconnector application.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting.
// The resulting AppConfig is immutable after startup: components receive the pieces
// they need at construction time and never read the environment themselves.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig represents configuration for the PostgreSQL connection pool.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	JWTSecret     string        // Secret key for signing JWTs, loaded once, never rotated at runtime
	TokenDuration time.Duration // Lifetime of issued tokens
}

// GitHubConfig holds credentials for the GitHub repo lookup proxy.
// Both fields are optional; unauthenticated requests work within
// GitHub's anonymous rate limits.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Database *DatabaseConfig
	Auth     *AuthConfig
	GitHub   *GitHubConfig
	Server   *ServerConfig
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set,
// so that all missing variables are reported together.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m" or "1h30s".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within reasonable bounds. Out-of-range
// values are adjusted with a warning rather than failing startup.
func clampPoolSize(size int, varName string) int {
	if size < 2 {
		log.Printf("Warning: pool size for %s (%d) is less than minimum 2, clamping to 2", varName, size)
		return 2
	}
	if size > 100 {
		log.Printf("Warning: pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size)
		return 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errors), "DB_POOL_SIZE")

	database := &DatabaseConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// Auth configuration. Tokens expire one hour after issuance unless overridden.
	jwtSecret := getRequiredEnv("JWT_SECRET", &errors)
	tokenDuration := getOptionalEnvDuration("JWT_TOKEN_DURATION", time.Hour, &errors)

	authConfig := &AuthConfig{
		JWTSecret:     jwtSecret,
		TokenDuration: tokenDuration,
	}

	// GitHub proxy credentials are optional.
	githubConfig := &GitHubConfig{
		ClientID:     getOptionalEnv("GITHUB_CLIENT_ID", ""),
		ClientSecret: getOptionalEnv("GITHUB_CLIENT_SECRET", ""),
	}

	// Server configuration. The port is kept as a string because it is only
	// ever joined into a listen address.
	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "5000"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		Database: database,
		Auth:     authConfig,
		GitHub:   githubConfig,
		Server:   serverConfig,
	}, nil
}
