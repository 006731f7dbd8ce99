package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the service reads
const EnvPrefix = "BLX"

// LoadServerConfigWithViper loads server configuration using Viper
func LoadServerConfigWithViper(v *viper.Viper) (*Config, error) {
	setServerDefaults(v)
	setupServerEnvBinding(v)

	if err := loadConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &Config{}
	if err := unmarshalServerConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setServerDefaults sets default values for server configuration
func setServerDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.path", "./blx.db")

	v.SetDefault("logging.level", "info")

	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.disabled", false)

	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 10)
	v.SetDefault("rate_limit.disabled", false)

	v.SetDefault("ocr.provider", "none")
	v.SetDefault("ocr.timeout", "30s")

	v.SetDefault("extraction.min_score", 0)
	v.SetDefault("extraction.min_margin", 0)
	v.SetDefault("extraction.header_fraction", 0.0)
}

// setupServerEnvBinding sets up environment variable binding for server configuration
func setupServerEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server.port":                "SERVER_PORT",
		"server.host":                "SERVER_HOST",
		"server.shutdown_timeout":    "SERVER_SHUTDOWN_TIMEOUT",
		"database.path":              "DATABASE_PATH",
		"logging.level":              "LOGGING_LEVEL",
		"cache.ttl":                  "CACHE_TTL",
		"cache.disabled":             "CACHE_DISABLED",
		"rate_limit.rps":             "RATE_LIMIT_RPS",
		"rate_limit.burst":           "RATE_LIMIT_BURST",
		"rate_limit.disabled":        "RATE_LIMIT_DISABLED",
		"ocr.provider":               "OCR_PROVIDER",
		"ocr.api_key":                "OCR_API_KEY",
		"ocr.access_token":           "OCR_ACCESS_TOKEN",
		"ocr.client_id":              "OCR_CLIENT_ID",
		"ocr.client_secret":          "OCR_CLIENT_SECRET",
		"ocr.refresh_token":          "OCR_REFRESH_TOKEN",
		"ocr.endpoint":               "OCR_ENDPOINT",
		"ocr.timeout":                "OCR_TIMEOUT",
		"extraction.min_score":       "EXTRACTION_MIN_SCORE",
		"extraction.min_margin":      "EXTRACTION_MIN_MARGIN",
		"extraction.header_fraction": "EXTRACTION_HEADER_FRACTION",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, EnvPrefix+"_"+envSuffix)
	}

	// Short forms used by container platforms
	v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	v.BindEnv("ocr.api_key", EnvPrefix+"_OCR_API_KEY", "GOOGLE_VISION_API_KEY")
}

// loadConfigFile loads configuration file if it exists
func loadConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.blx")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return nil
}

// unmarshalServerConfig unmarshals Viper configuration into Config struct
func unmarshalServerConfig(v *viper.Viper, config *Config) error {
	config.ServerPort = v.GetString("server.port")
	config.ServerHost = v.GetString("server.host")
	config.DBPath = v.GetString("database.path")
	config.LogLevel = v.GetString("logging.level")

	var err error
	config.ShutdownTimeout, err = time.ParseDuration(v.GetString("server.shutdown_timeout"))
	if err != nil {
		return fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	config.CacheTTL, err = time.ParseDuration(v.GetString("cache.ttl"))
	if err != nil {
		return fmt.Errorf("invalid cache TTL: %w", err)
	}

	config.OCRTimeout, err = time.ParseDuration(v.GetString("ocr.timeout"))
	if err != nil {
		return fmt.Errorf("invalid ocr timeout: %w", err)
	}

	config.DisableCache = v.GetBool("cache.disabled")

	config.RateLimitRPS = v.GetFloat64("rate_limit.rps")
	config.RateLimitBurst = v.GetInt("rate_limit.burst")
	config.DisableRateLimit = v.GetBool("rate_limit.disabled")

	config.OCRProvider = v.GetString("ocr.provider")
	config.OCRAPIKey = v.GetString("ocr.api_key")
	config.OCRAccessToken = v.GetString("ocr.access_token")
	config.OCRClientID = v.GetString("ocr.client_id")
	config.OCRClientSecret = v.GetString("ocr.client_secret")
	config.OCRRefreshToken = v.GetString("ocr.refresh_token")
	config.OCREndpoint = v.GetString("ocr.endpoint")

	config.MinScore = v.GetInt("extraction.min_score")
	config.MinMargin = v.GetInt("extraction.min_margin")
	config.HeaderFraction = v.GetFloat64("extraction.header_fraction")

	return nil
}

// LoadServerConfig loads server configuration using default Viper instance
func LoadServerConfig() (*Config, error) {
	return LoadServerConfigWithViper(viper.New())
}

// LoadServerConfigWithFile loads server configuration from a specific file
func LoadServerConfigWithFile(configFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadServerConfigWithViper(v)
}

// LoadServerConfigWithEnvFile loads a .env file first, then the server configuration
func LoadServerConfigWithEnvFile(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := LoadEnvFile(envFile); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}

	return LoadServerConfigWithViper(viper.New())
}
