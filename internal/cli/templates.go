package cli

import (
	"github.com/spf13/cobra"
)

var listTags []string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List and inspect templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates registered on the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := newClient().Templates(cmd.Context(), listTags...)
		if err != nil {
			return err
		}
		return printJSON(cmd, templates)
	},
}

var templatesGetCmd = &cobra.Command{
	Use:   "get TEMPLATE_ID",
	Short: "Show a single template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := newClient().Template(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, info)
	},
}

func init() {
	templatesListCmd.Flags().StringArrayVar(&listTags, "tag", nil, "Only list templates carrying this tag (repeatable)")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesGetCmd)
	rootCmd.AddCommand(templatesCmd)
}
