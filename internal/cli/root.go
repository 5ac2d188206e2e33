// Package cli implements the platoctl command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	u "github.com/vizidox/plato-client-go/internal/utils"
	"github.com/vizidox/plato-client-go/plato"
)

var (
	// Persistent flags available to all subcommands
	configFile  string
	hostFlag    string
	maxRetries  int
	timeoutSecs int
)

var rootCmd = &cobra.Command{
	Use:   "platoctl",
	Short: "platoctl manages templates on a Plato templating service",
	Long: `platoctl talks to a Plato templating service over HTTP: it lists and
inspects templates, uploads new template bundles, and composes documents.

Configuration can be provided via flags, environment variables, or a
configuration file. By default, platoctl looks for config.yaml in the
working directory (override with PLATO_CONFIG or --config).`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var cfg u.Config
		if configFile != "" {
			var err error
			cfg, err = u.LoadConfigFile(configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
		} else {
			cfg = u.LoadConfig()
		}
		u.InitLogger(
			cfg.Logger.File,
			cfg.Logger.MaxSizeMB,
			cfg.Logger.MaxBackups,
			cfg.Logger.MaxAgeDays,
			cfg.Logger.Compress,
			cfg.Logger.Level,
		)
		u.SetLogLevel(cfg.Logger.Level)
		return nil
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Templating service base URL (overrides config)")
	rootCmd.PersistentFlags().IntVar(&maxRetries, "max-retries", -1, "Connection retry budget (overrides config)")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "Request timeout in seconds (overrides config)")
}

// newClient builds a service client from config, letting persistent
// flags win over the config file.
func newClient() *plato.Client {
	cfg := u.GetConfig()

	host := cfg.Service.Host
	if hostFlag != "" {
		host = hostFlag
	}
	retries := cfg.Service.MaxRetries
	if maxRetries >= 0 {
		retries = maxRetries
	}
	timeout := cfg.Service.TimeoutSecs
	if timeoutSecs > 0 {
		timeout = timeoutSecs
	}

	opts := []plato.Option{
		plato.WithMaxRetries(retries),
		plato.WithTimeout(time.Duration(timeout) * time.Second),
		plato.WithLogger(u.Logger()),
	}
	if cfg.Auth.TokenURL != "" {
		opts = append(opts, plato.WithClientCredentials(cfg.Auth.TokenURL, cfg.Auth.ClientID, cfg.Auth.ClientSecret))
	}
	return plato.New(host, opts...)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readDetails loads a template details document from a JSON file.
func readDetails(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read details: %w", err)
	}
	var details map[string]any
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, fmt.Errorf("parse details %s: %w", path, err)
	}
	return details, nil
}
