// Package config loads and validates the application configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	Address        string
	Env            string
	LogLevel       string
	LogDir         string
	DatasetPath    string
	MaxRequestBody int64 // Maximum request body size in bytes

	LLMProvider       string // zhipu, openai or deepseek
	LLMAPIKey         string // empty disables the LLM layer
	LLMAPIBase        string // overrides the provider default when set
	LLMModel          string // overrides the provider default when set
	LLMTimeoutSeconds int
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnvWithDefault("PORT", "8080"),
		Address:        getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:            getEnvWithDefault("ENV", "dev"),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:         getEnvWithDefault("LOG_DIR", "logs"),
		DatasetPath:    getEnvWithDefault("DATASET_PATH", "dataset/otc_db.json"),
		MaxRequestBody: getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576), // 1MB default

		LLMProvider:       getEnvWithDefault("LLM_PROVIDER", "zhipu"),
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMAPIBase:        os.Getenv("LLM_API_BASE"),
		LLMModel:          os.Getenv("LLM_MODEL"),
		LLMTimeoutSeconds: getIntEnvWithDefault("LLM_TIMEOUT_SECONDS", 30),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SlogLevel maps the configured log level onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// validateConfig validates all configuration values.
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.DatasetPath == "" {
		return fmt.Errorf("invalid DATASET_PATH: cannot be empty")
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateLLMProvider(cfg.LLMProvider); err != nil {
		return fmt.Errorf("invalid LLM_PROVIDER: %w", err)
	}

	if err := validateLLMBase(cfg.LLMAPIBase); err != nil {
		return fmt.Errorf("invalid LLM_API_BASE: %w", err)
	}

	if err := validateLLMTimeout(cfg.LLMTimeoutSeconds); err != nil {
		return fmt.Errorf("invalid LLM_TIMEOUT_SECONDS: %w", err)
	}

	return nil
}

// validatePort validates the PORT environment variable.
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable.
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges", address)
	}

	return nil
}

// validateEnv validates the ENV environment variable.
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
}

// validateLogLevel validates the LOG_LEVEL environment variable.
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values.
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 {
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLLMProvider validates the LLM_PROVIDER environment variable.
func validateLLMProvider(provider string) error {
	validProviders := []string{"zhipu", "openai", "deepseek"}
	provider = strings.ToLower(provider)

	for _, p := range validProviders {
		if provider == p {
			return nil
		}
	}

	return fmt.Errorf("LLM_PROVIDER must be one of: %v, got: %s", validProviders, provider)
}

// validateLLMBase validates the optional LLM_API_BASE override.
func validateLLMBase(base string) error {
	if base == "" {
		return nil
	}

	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("LLM_API_BASE must be a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("LLM_API_BASE must use http or https, got: %s", base)
	}

	return nil
}

// validateLLMTimeout validates the LLM_TIMEOUT_SECONDS environment variable.
func validateLLMTimeout(seconds int) error {
	if seconds < 1 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive, got: %d", seconds)
	}

	if seconds > 300 {
		return fmt.Errorf("LLM_TIMEOUT_SECONDS is too large (max 300), got: %d", seconds)
	}

	return nil
}

// getEnvWithDefault gets an environment variable with a default value.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value.
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value.
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
