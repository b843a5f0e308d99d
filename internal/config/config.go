// Package config loads the application configuration from the process
// environment and validates it before anything touches the network.
package config

import (
	"os"
	"strings"
	"time"

	"buscacnpj/apperrors"
)

// Environment variable names for the required credentials.
const (
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvCNPJAAPIKey  = "CNPJJA_API_KEY"
)

// Config holds everything the pipeline and server need.
type Config struct {
	// Credentials (required).
	GoogleAPIKey string
	CNPJAAPIKey  string

	// HTTP server bind address.
	Host string
	Port string

	// Per-request timeout for outbound API calls.
	RequestTimeout time.Duration
}

// Load reads the configuration from the environment, applying defaults for
// the optional fields. It does not validate; call Validate before use.
func Load() *Config {
	cfg := &Config{
		GoogleAPIKey:   os.Getenv(EnvGoogleAPIKey),
		CNPJAAPIKey:    os.Getenv(EnvCNPJAAPIKey),
		Host:           getEnvDefault("HOST", "0.0.0.0"),
		Port:           getEnvDefault("PORT", "5000"),
		RequestTimeout: 30 * time.Second,
	}

	if raw := os.Getenv("REQUEST_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.RequestTimeout = d
		}
	}

	return cfg
}

// Validate checks that the required credentials are present. The resulting
// ConfigError names every missing variable at once.
func (c *Config) Validate() error {
	var missing []string
	if c.GoogleAPIKey == "" {
		missing = append(missing, EnvGoogleAPIKey)
	}
	if c.CNPJAAPIKey == "" {
		missing = append(missing, EnvCNPJAAPIKey)
	}
	if len(missing) > 0 {
		return apperrors.NewConfigError("Defina as variaveis: " + strings.Join(missing, ", "))
	}
	return nil
}

// Addr is the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
