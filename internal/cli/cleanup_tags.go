package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupTagsCmd = &cobra.Command{
	Use:   "cleanup-tags",
	Short: "Delete tags no book uses",
	Args:  cobra.NoArgs,
	RunE:  runCleanupTags,
}

func runCleanupTags(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	deleted, err := app.Tags.DeleteOrphanTags()
	if err != nil {
		return fmt.Errorf("cleanup orphan tags: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d orphan tag(s)\n", deleted)
	return nil
}
