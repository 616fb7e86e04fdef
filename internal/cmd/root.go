// Package cmd implements the courtdesk command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/ux"
)

var rootCmd = &cobra.Command{
	Use:   "courtdesk",
	Short: "Role-based case management shell",
	Long: `courtdesk is the client shell for the case management backend.

It keeps the signed-in session, decides which portal pages the current role
may open, builds the sidebar and breadcrumbs for each page and shows toast
notifications. Run it as a terminal shell or serve it over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath   string
	logLevel     string
	logFormat    string
	apiURL       string
	ephemeral    bool
	outputFormat string
)

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which commands use for
// cancellation.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default is $HOME/.courtdesk/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&apiURL, "api-url", "", "backend base URL, e.g. http://localhost:5000/api")
	flags.BoolVar(&ephemeral, "ephemeral", false, "keep the session in memory only")
	flags.StringVarP(&outputFormat, "output", "o", ux.FormatText, "output format: text, json or yaml")
}
