package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Load books from a YAML fixture",
	Long: `Load books from a YAML fixture into the catalog.

Books whose ISBN is already cataloged are skipped, so a fixture can be
loaded repeatedly.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	fixture, err := seed.ParseFile(args[0])
	if err != nil {
		return err
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Seeder().Seed(fixture)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %d book(s), skipped %d already cataloged\n", report.Created, report.Skipped)
	return nil
}
