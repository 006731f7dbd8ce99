package cmd

import (
	"github.com/spf13/cobra"

	"bl-extractor/internal/database"
)

var listFilter database.ExtractionFilter

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded extractions",
	Long:    `List extractions recorded by the server, newest first.`,
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVar(&listFilter.DocumentID, "document", "", "Only extractions for this document ID")
	listCmd.Flags().StringVar(&listFilter.BLNumber, "bl", "", "Only extractions that found this BL number")
	listCmd.Flags().IntVar(&listFilter.Limit, "limit", database.DefaultListLimit, "Maximum rows to show")
	listCmd.Flags().IntVar(&listFilter.Offset, "offset", 0, "Rows to skip")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient(cmd)
	if err != nil {
		return err
	}

	list, err := client.ListExtractions(cmd.Context(), listFilter)
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	return formatter.PrintExtractions(list)
}
