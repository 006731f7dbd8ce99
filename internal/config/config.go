package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bl-extractor/internal/ocr"
	"bl-extractor/internal/parser"
)

// Config holds all server configuration
type Config struct {
	// Server configuration
	ServerPort      string
	ServerHost      string
	ShutdownTimeout time.Duration

	// Database configuration
	DBPath string

	// Logging
	LogLevel string

	// Cache configuration
	CacheTTL     time.Duration
	DisableCache bool

	// Rate limiting on parse routes
	RateLimitRPS     float64
	RateLimitBurst   int
	DisableRateLimit bool

	// OCR provider
	OCRProvider     string
	OCRAPIKey       string
	OCRAccessToken  string
	OCRClientID     string
	OCRClientSecret string
	OCRRefreshToken string
	OCREndpoint     string
	OCRTimeout      time.Duration

	// Extraction thresholds, zero means the engine default
	MinScore       int
	MinMargin      int
	HeaderFraction float64
}

var validLogLevels = []string{"debug", "info", "warn", "error"}

// validate checks if the configuration is valid
func (c *Config) validate() error {
	if c.ServerPort == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid server port: %s", c.ServerPort)
	}

	if c.DBPath == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	isValidLogLevel := false
	for _, level := range validLogLevels {
		if c.LogLevel == level {
			isValidLogLevel = true
			break
		}
	}
	if !isValidLogLevel {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.CacheTTL <= 0 && !c.DisableCache {
		return fmt.Errorf("cache TTL must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if !c.DisableRateLimit {
		if c.RateLimitRPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive")
		}
		if c.RateLimitBurst < 1 {
			return fmt.Errorf("rate limit burst must be at least 1")
		}
	}

	if c.OCRTimeout <= 0 {
		return fmt.Errorf("ocr timeout must be positive")
	}

	if c.MinScore < 0 || c.MinMargin < 0 {
		return fmt.Errorf("extraction thresholds must be non-negative")
	}
	if c.HeaderFraction < 0 || c.HeaderFraction > 1 {
		return fmt.Errorf("header fraction must be between 0 and 1")
	}

	return nil
}

// Address returns the full server address
func (c *Config) Address() string {
	return c.ServerHost + ":" + c.ServerPort
}

// SlogLevel maps LogLevel onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
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

// ParserRules returns the default extraction rules with any configured
// thresholds applied
func (c *Config) ParserRules() parser.Rules {
	rules := parser.DefaultRules()

	minScore, minMargin := rules.MinScore, rules.MinMargin
	if c.MinScore > 0 {
		minScore = c.MinScore
	}
	if c.MinMargin > 0 {
		minMargin = c.MinMargin
	}
	rules = rules.WithThresholds(minScore, minMargin)

	if c.HeaderFraction > 0 {
		rules = rules.WithHeaderFraction(c.HeaderFraction)
	}
	return rules
}

// OCRConfig returns the OCR client settings
func (c *Config) OCRConfig() ocr.Config {
	return ocr.Config{
		Provider:     c.OCRProvider,
		APIKey:       c.OCRAPIKey,
		AccessToken:  c.OCRAccessToken,
		ClientID:     c.OCRClientID,
		ClientSecret: c.OCRClientSecret,
		RefreshToken: c.OCRRefreshToken,
		Endpoint:     c.OCREndpoint,
		Timeout:      c.OCRTimeout,
	}
}
