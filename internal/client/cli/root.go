package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/skillip/internal/client/app"
	"github.com/dmitrijs2005/skillip/internal/client/config"
	"github.com/dmitrijs2005/skillip/internal/logging"
)

const configFlag = "config"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skillip",
		Short: "Talent portal client",
		Long: `skillip signs you in to the talent portal, keeps your session locally
and lets you fill in your professional profile and upload a profile picture.

Use "serve" for the browser interface or "shell" for an interactive prompt.
Both share the same local session.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringP(configFlag, "c", "", "Path to a JSON or YAML config file")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newShellCmd())

	return cmd
}

// loadApp resolves configuration for cmd and builds the shared components.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	path, err := cmd.Flags().GetString(configFlag)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}

	log := logging.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.LogLevel)
	return app.New(cmd.Context(), cfg, log)
}
