package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	cliapi "bl-extractor/internal/cli"
	"bl-extractor/internal/document"
)

var (
	parseURL        string
	parseFile       string
	parseHint       string
	parseDocumentID string
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a document through the blx server",
	Long: `Send a document to the blx server. With --url the server fetches and
OCRs the document; with --file the local text is sent as already-OCR'd text.`,
	Args: cobra.NoArgs,
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseURL, "url", "", "Document URL for the server to OCR")
	parseCmd.Flags().StringVar(&parseFile, "file", "", "Text file to parse (- for stdin)")
	parseCmd.Flags().StringVar(&parseHint, "hint", "", "Document type hint (e.g. bill_of_lading, invoice)")
	parseCmd.Flags().StringVar(&parseDocumentID, "id", "", "Caller's document identifier")
	parseCmd.MarkFlagsMutuallyExclusive("url", "file")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseURL == "" && parseFile == "" {
		return errors.New("one of --url or --file is required")
	}

	cfg, formatter, client, err := initializeClient(cmd)
	if err != nil {
		return err
	}

	var resp *document.ExtractionResponse
	if parseURL != "" {
		var spinner *cliapi.ProgressSpinner
		if !cfg.Quiet {
			spinner = cliapi.NewProgressSpinner("Running OCR on document", cfg.NoColor)
			spinner.Start()
		}
		resp, err = client.ParseDocument(cmd.Context(), document.DocumentInput{
			DocumentID: parseDocumentID,
			FileURL:    parseURL,
			Hint:       parseHint,
		})
		if spinner != nil {
			spinner.Stop()
		}
	} else {
		var text string
		text, err = readInput(cmd, []string{parseFile})
		if err == nil {
			resp, err = client.ParseText(cmd.Context(), document.TextInput{
				DocumentID: parseDocumentID,
				Text:       text,
				Hint:       parseHint,
			})
		}
	}
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	if !cfg.Quiet && resp.ExtractionID != 0 && cfg.Format != "json" {
		formatter.PrintInfo(fmt.Sprintf("Recorded as extraction %d", resp.ExtractionID))
	}
	return formatter.PrintResponse(resp)
}
