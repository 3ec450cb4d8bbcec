// Package cli implements the catalog command line.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/config"
	"github.com/mrlokans/catalog/internal/entrypoint"
	"github.com/mrlokans/catalog/internal/logging"
)

var (
	cfg        *config.Config
	flushLogs  func()
	appVersion = "dev"
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Catalog - a personal book catalog",
	Long: `Catalog keeps track of the books you own.

Settings come from environment variables (DATABASE_PATH, PORT, LOG_LEVEL, ...).
Without a subcommand the web interface is started, same as "catalog serve".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.NewConfig()
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		flush, err := logging.Setup(cfg.Logging)
		if err != nil {
			return err
		}
		flushLogs = flush
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		syncLogs()
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite catalog file (overrides DATABASE_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(isbnImportCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(cleanupTagsCmd)
}

// Execute runs the command selected by os.Args.
func Execute(version string) error {
	appVersion = version
	rootCmd.Version = version
	defer syncLogs()
	return rootCmd.Execute()
}

func syncLogs() {
	if flushLogs != nil {
		flushLogs()
		flushLogs = nil
	}
}

func openApp() (*entrypoint.App, error) {
	return entrypoint.NewApp(cfg)
}
