package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <extraction-id>",
	Short: "Show a recorded extraction by ID",
	Long:  `Show the response the server recorded for one extraction.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	id, err := validateAndParseID(args[0])
	if err != nil {
		return err
	}

	_, formatter, client, err := initializeClient(cmd)
	if err != nil {
		return err
	}

	detail, err := client.GetExtraction(cmd.Context(), id)
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	detail.Response.ExtractionID = detail.ID
	return formatter.PrintResponse(&detail.Response)
}

// validateAndParseID validates that the argument is a non-empty, valid integer ID
func validateAndParseID(arg string) (int64, error) {
	if strings.TrimSpace(arg) == "" {
		return 0, fmt.Errorf("ID cannot be empty")
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID '%s': must be a positive integer", arg)
	}

	if id <= 0 {
		return 0, fmt.Errorf("invalid ID '%d': must be a positive integer", id)
	}

	return id, nil
}
