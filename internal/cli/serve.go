package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/entrypoint"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	return entrypoint.Run(cfg, appVersion)
}
