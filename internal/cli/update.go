package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	updateArchive string
	updateDetails string

	updateDetailsFile string
)

var updateCmd = &cobra.Command{
	Use:   "update TEMPLATE_ID",
	Short: "Replace a template's zip bundle and details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := readDetails(updateDetails)
		if err != nil {
			return err
		}
		archive, err := os.Open(updateArchive)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer archive.Close()

		info, err := newClient().UpdateTemplate(cmd.Context(), args[0], archive, details)
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

var updateDetailsCmd = &cobra.Command{
	Use:   "update-details TEMPLATE_ID",
	Short: "Update a template's details without touching its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		details, err := readDetails(updateDetailsFile)
		if err != nil {
			return err
		}
		info, err := newClient().UpdateTemplateDetails(cmd.Context(), args[0], details)
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateArchive, "archive", "", "Path to the template zip bundle")
	updateCmd.Flags().StringVar(&updateDetails, "details", "", "Path to the template details JSON file")
	updateCmd.MarkFlagRequired("archive")
	updateCmd.MarkFlagRequired("details")
	rootCmd.AddCommand(updateCmd)

	updateDetailsCmd.Flags().StringVar(&updateDetailsFile, "details", "", "Path to the template details JSON file")
	updateDetailsCmd.MarkFlagRequired("details")
	rootCmd.AddCommand(updateDetailsCmd)
}
