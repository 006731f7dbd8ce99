package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"bl-extractor/internal/cli"
)

// LoadCLIConfigWithViper loads CLI configuration using Viper
func LoadCLIConfigWithViper(v *viper.Viper) (*cli.Config, error) {
	setCLIDefaults(v)
	setupCLIEnvBinding(v)

	if err := loadCLIConfigFile(v); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	config := &cli.Config{}
	if err := unmarshalCLIConfig(v, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setCLIDefaults sets default values for CLI configuration
func setCLIDefaults(v *viper.Viper) {
	defaults := cli.DefaultConfig()
	v.SetDefault("server_url", defaults.ServerURL)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("request_timeout", defaults.RequestTimeout.String())
}

// setupCLIEnvBinding sets up environment variable binding for CLI configuration
func setupCLIEnvBinding(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	envBindings := map[string]string{
		"server_url":      "CLI_SERVER_URL",
		"format":          "CLI_FORMAT",
		"quiet":           "CLI_QUIET",
		"no_color":        "CLI_NO_COLOR",
		"request_timeout": "CLI_TIMEOUT",
	}

	for configKey, envSuffix := range envBindings {
		v.BindEnv(configKey, EnvPrefix+"_"+envSuffix)
	}

	v.BindEnv("no_color", EnvPrefix+"_CLI_NO_COLOR", "NO_COLOR")
}

// loadCLIConfigFile loads configuration file if it exists
func loadCLIConfigFile(v *viper.Viper) error {
	if v.ConfigFileUsed() == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.blx")
		v.SetConfigName("cli")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	return nil
}

// unmarshalCLIConfig unmarshals Viper configuration into CLI Config struct
func unmarshalCLIConfig(v *viper.Viper, config *cli.Config) error {
	config.ServerURL = v.GetString("server_url")
	config.Format = v.GetString("format")
	config.Quiet = v.GetBool("quiet")
	config.NoColor = v.GetBool("no_color")

	timeout, err := parseTimeout(v.GetString("request_timeout"))
	if err != nil {
		return err
	}
	config.RequestTimeout = timeout

	return nil
}

// parseTimeout accepts a Go duration or a plain number of seconds
func parseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return cli.DefaultConfig().RequestTimeout, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	seconds, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid request timeout: %s", s)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("request timeout must be positive, got %d seconds", seconds)
	}
	return time.Duration(seconds) * time.Second, nil
}

// LoadCLIConfig loads CLI configuration using default Viper instance
func LoadCLIConfig() (*cli.Config, error) {
	return LoadCLIConfigWithViper(viper.New())
}

// LoadCLIConfigWithFile loads CLI configuration from a specific file
func LoadCLIConfigWithFile(configFile string) (*cli.Config, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	return LoadCLIConfigWithViper(v)
}
