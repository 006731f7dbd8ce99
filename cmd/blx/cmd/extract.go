package cmd

import (
	"github.com/spf13/cobra"

	"bl-extractor/internal/normalize"
	"bl-extractor/internal/parser"
)

var extractRaw bool

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract the BL number and shipping fields from a text file",
	Long: `Run the extraction engine locally over OCR text read from a file or
stdin. The text is normalized first unless --raw is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractRaw, "raw", false, "Skip text normalization")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	_, formatter, err := initializeFormatter(cmd)
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		formatter.PrintError(err)
		return err
	}
	if !extractRaw {
		text = normalize.Normalize(text)
	}

	return formatter.PrintResult(parser.NewExtractor().Extract(text))
}
