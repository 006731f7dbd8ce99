package cmd

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	cliapi "bl-extractor/internal/cli"
	"bl-extractor/internal/normalize"
	"bl-extractor/internal/parser"
)

var (
	explainInteractive bool
	explainRaw         bool
)

var explainCmd = &cobra.Command{
	Use:   "explain [file|-]",
	Short: "Show how every BL candidate was scored",
	Long: `Rank every BL candidate in the text and show its score, the rules that
contributed to it, and why the winner was or was not accepted. Use
--interactive to browse the candidates in a table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplain,
}

func init() {
	explainCmd.Flags().BoolVarP(&explainInteractive, "interactive", "i", false, "Browse candidates in an interactive table")
	explainCmd.Flags().BoolVar(&explainRaw, "raw", false, "Skip text normalization")
	rootCmd.AddCommand(explainCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, formatter, err := initializeFormatter(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		formatter.PrintError(err)
		return err
	}
	if !explainRaw {
		text = normalize.Normalize(text)
	}

	_, decision := parser.NewExtractor().Analyze(text)

	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if shouldUseInteractiveMode(cfg, explainInteractive, isTTY) {
		return runCandidateTable(decision, cfg)
	}
	return formatter.PrintDecision(decision)
}

// shouldUseInteractiveMode reports whether to open the candidate browser.
// It only opens when asked for and there is a terminal to draw on.
func shouldUseInteractiveMode(cfg *cliapi.Config, explicit, isTTY bool) bool {
	return explicit && isTTY && cfg.Format != "json"
}
