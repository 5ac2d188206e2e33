package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vizidox/plato-client-go/plato"
)

var composeData string

var composeCmd = &cobra.Command{
	Use:   "compose TEMPLATE_ID",
	Short: "Compose a document from a template and a JSON data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := map[string]any{}
		if composeData != "" {
			var err error
			data, err = readDetails(composeData)
			if err != nil {
				return err
			}
		}
		opts, err := renderOptions(cmd)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		c := newClient()
		if out != "" {
			if err := c.ComposeToFile(cmd.Context(), args[0], data, out, opts...); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		result, err := c.Compose(cmd.Context(), args[0], data, opts...)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(result.Content)
		return err
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example TEMPLATE_ID",
	Short: "Compose a template's example document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := renderOptions(cmd)
		if err != nil {
			return err
		}
		result, err := newClient().TemplateExample(cmd.Context(), args[0], opts...)
		if err != nil {
			return err
		}
		if out, _ := cmd.Flags().GetString("output"); out != "" {
			if err := os.WriteFile(out, result.Content, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(result.Content)
		return err
	},
}

// addRenderFlags attaches the output and render shaping flags shared by
// compose and example.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Write the composed document to this file instead of stdout")
	cmd.Flags().String("mime-type", "", "Requested output MIME type (default application/pdf)")
	cmd.Flags().Int("page", 0, "Render only this page")
	cmd.Flags().Int("height", 0, "Resize output to this height")
	cmd.Flags().Int("width", 0, "Resize output to this width")
}

// renderOptions maps the render flags onto compose options. Only flags
// the user actually set are forwarded.
func renderOptions(cmd *cobra.Command) ([]plato.ComposeOption, error) {
	var opts []plato.ComposeOption
	if mime, _ := cmd.Flags().GetString("mime-type"); mime != "" {
		opts = append(opts, plato.WithMIMEType(mime))
	}
	if cmd.Flags().Changed("page") {
		page, _ := cmd.Flags().GetInt("page")
		opts = append(opts, plato.WithPage(page))
	}
	if cmd.Flags().Changed("height") != cmd.Flags().Changed("width") {
		return nil, fmt.Errorf("--height and --width must be set together")
	}
	if cmd.Flags().Changed("height") {
		height, _ := cmd.Flags().GetInt("height")
		width, _ := cmd.Flags().GetInt("width")
		opts = append(opts, plato.WithResize(height, width))
	}
	return opts, nil
}

func init() {
	composeCmd.Flags().StringVar(&composeData, "data", "", "Path to the JSON file with compose data")
	addRenderFlags(composeCmd)
	rootCmd.AddCommand(composeCmd)

	addRenderFlags(exampleCmd)
	rootCmd.AddCommand(exampleCmd)
}
