package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	IdentityURL         string        // Identity provider API root
	IdentityProjectID   string        // Project scope sent on every provider call
	IdentityAPIKey      string        // Server-side key for the profile store
	ProfileDatabaseID   string        // Document database holding profiles
	ProfileCollectionID string        // Collection holding profile documents
	Port                string        // Service port
	ProviderTimeout     time.Duration // Timeout for outbound provider calls
	RedisAddr           string        // Redis address for snapshot persistence
	RedisPassword       string        // Redis password
	SnapshotKey         string        // Named blob for the session snapshot
	HomePath            string        // Redirect target for logged-in users on auth pages
	LoginPath           string        // Redirect target for anonymous users on protected paths
	CSRFSecret          string        // CSRF secret for token generation
	AssertionSecret     string        // Secret for signing identity assertions
	AssertionIssuer     string        // Assertion issuer claim
	AssertionAudience   string        // Assertion audience claim
	AssertionTTL        time.Duration // Assertion TTL
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		IdentityURL:         getEnv("IDENTITY_URL", "http://identity:8080/v1"),
		IdentityProjectID:   getEnv("IDENTITY_PROJECT_ID", ""),
		IdentityAPIKey:      getEnv("IDENTITY_API_KEY", ""),
		ProfileDatabaseID:   getEnv("PROFILE_DATABASE_ID", "main"),
		ProfileCollectionID: getEnv("PROFILE_COLLECTION_ID", "users"),
		Port:                getEnv("PORT", "8888"),
		ProviderTimeout:     5 * time.Second, // Default 5 seconds
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		SnapshotKey:         getEnv("SNAPSHOT_KEY", "auth-storage"),
		HomePath:            getEnv("HOME_PATH", "/"),
		LoginPath:           getEnv("LOGIN_PATH", "/login"),
		CSRFSecret:          getEnv("CSRF_SECRET", ""),
		AssertionSecret:     getEnv("ASSERTION_SECRET", ""),
		AssertionIssuer:     getEnv("ASSERTION_ISSUER", "answer-hub"),
		AssertionAudience:   getEnv("ASSERTION_AUDIENCE", "answer-hub-app"),
		AssertionTTL:        5 * time.Minute, // Default 5 minutes
	}

	// Parse PROVIDER_TIMEOUT if provided
	if timeoutStr := os.Getenv("PROVIDER_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PROVIDER_TIMEOUT format: %w", err)
		}
		config.ProviderTimeout = duration
	}

	// Parse ASSERTION_TTL if provided
	if ttlStr := os.Getenv("ASSERTION_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid ASSERTION_TTL format: %w", err)
		}
		config.AssertionTTL = duration
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.IdentityURL == "" {
		return fmt.Errorf("IDENTITY_URL cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT must be positive")
	}

	if c.SnapshotKey == "" {
		return fmt.Errorf("SNAPSHOT_KEY cannot be empty")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
