package cli

import (
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web interface",
		Long: `Starts the skillip web interface on the configured address.

Sign in, fill in the "get hired" form and crop and upload a profile picture
from the browser.`,
		Example: `  # Start on the default address 127.0.0.1:8090
  skillip serve --api-url https://api.example.com

  # Listen on another port
  skillip serve -l 127.0.0.1:3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.ListenAndServe(cmd.Context())
		},
	}
}
