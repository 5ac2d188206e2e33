package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	createArchive string
	createDetails string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new template from a zip bundle and a details file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := readDetails(createDetails)
		if err != nil {
			return err
		}
		archive, err := os.Open(createArchive)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer archive.Close()

		info, err := newClient().CreateTemplate(cmd.Context(), archive, details)
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

func init() {
	createCmd.Flags().StringVar(&createArchive, "archive", "", "Path to the template zip bundle")
	createCmd.Flags().StringVar(&createDetails, "details", "", "Path to the template details JSON file")
	createCmd.MarkFlagRequired("archive")
	createCmd.MarkFlagRequired("details")
	rootCmd.AddCommand(createCmd)
}
