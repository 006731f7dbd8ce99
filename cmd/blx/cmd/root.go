package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	cliapi "bl-extractor/internal/cli"
	"bl-extractor/internal/config"
)

var (
	serverURL  string
	format     string
	quiet      bool
	noColor    bool
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blx",
	Short: "Find Bill of Lading numbers in OCR text",
	Long: `blx extracts Bill of Lading numbers and related shipping fields from
noisy OCR text. It can run the extraction engine locally on a text file or
talk to a running blx server.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "API server address (default from BLX_CLI_SERVER_URL or http://localhost:8080)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (minimal output)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "CLI config file")
}

// loadConfig merges the config file and BLX_CLI_* environment with flags;
// flags set on the command line win
func loadConfig(cmd *cobra.Command) (*cliapi.Config, error) {
	var (
		cfg *cliapi.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadCLIConfigWithFile(configFile)
	} else {
		cfg, err = config.LoadCLIConfig()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = serverURL
	}
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("quiet") {
		cfg.Quiet = quiet
	}
	if flags.Changed("no-color") {
		cfg.NoColor = noColor
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initializeFormatter builds the output formatter for local commands
func initializeFormatter(cmd *cobra.Command) (*cliapi.Config, *cliapi.OutputFormatter, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	formatter := cliapi.NewOutputFormatterWithColor(cfg.Format, cfg.Quiet, cfg.NoColor).
		WithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return cfg, formatter, nil
}

// initializeClient sets up configuration, formatter, and API client
func initializeClient(cmd *cobra.Command) (*cliapi.Config, *cliapi.OutputFormatter, *cliapi.Client, error) {
	cfg, formatter, err := initializeFormatter(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	client := cliapi.NewClientWithTimeout(cfg.ServerURL, cfg.RequestTimeout)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := client.HealthCheck(ctx); err != nil {
		formatter.PrintError(fmt.Errorf("server %s is not reachable: %w", cfg.ServerURL, err))
		return nil, nil, nil, err
	}

	return cfg, formatter, client, nil
}

// readInput reads the named file, or stdin when name is empty or "-"
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}
