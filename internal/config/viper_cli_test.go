package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearCLIEnvVars(t *testing.T) {
	for _, key := range []string{"BLX_CLI_SERVER_URL", "BLX_CLI_FORMAT", "BLX_CLI_QUIET", "BLX_CLI_NO_COLOR", "BLX_CLI_TIMEOUT", "NO_COLOR"} {
		t.Setenv(key, "")
	}
}

func TestCLIViperConfig_Defaults(t *testing.T) {
	clearCLIEnvVars(t)

	config, err := LoadCLIConfigWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", config.ServerURL)
	assert.Equal(t, "table", config.Format)
	assert.False(t, config.Quiet)
	assert.False(t, config.NoColor)
	assert.Equal(t, 60*time.Second, config.RequestTimeout)
}

func TestCLIViperConfig_Environment(t *testing.T) {
	clearCLIEnvVars(t)
	t.Setenv("BLX_CLI_SERVER_URL", "https://blx.example.com")
	t.Setenv("BLX_CLI_FORMAT", "json")
	t.Setenv("BLX_CLI_TIMEOUT", "90")
	t.Setenv("NO_COLOR", "1")

	config, err := LoadCLIConfigWithViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://blx.example.com", config.ServerURL)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, 90*time.Second, config.RequestTimeout)
	assert.True(t, config.NoColor)
}

func TestCLIViperConfig_File(t *testing.T) {
	clearCLIEnvVars(t)

	configFile := filepath.Join(t.TempDir(), "cli.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server_url: http://10.0.0.5:8080\nquiet: true\nrequest_timeout: 2m\n"), 0644))

	config, err := LoadCLIConfigWithFile(configFile)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8080", config.ServerURL)
	assert.True(t, config.Quiet)
	assert.Equal(t, 2*time.Minute, config.RequestTimeout)
}

func TestCLIViperConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad url", "BLX_CLI_SERVER_URL", "localhost"},
		{"bad format", "BLX_CLI_FORMAT", "xml"},
		{"bad timeout", "BLX_CLI_TIMEOUT", "soon"},
		{"negative timeout", "BLX_CLI_TIMEOUT", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCLIEnvVars(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadCLIConfigWithViper(viper.New())
			assert.Error(t, err)
		})
	}
}
