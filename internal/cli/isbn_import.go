package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/catalog/internal/importers"
)

var isbnFile string

var isbnImportCmd = &cobra.Command{
	Use:   "isbn-import [isbn...]",
	Short: "Import books by ISBN using OpenLibrary metadata",
	Long: `Import books by ISBN. ISBNs come from the arguments and, with --file,
from a file holding one ISBN per line ("-" reads stdin). Blank lines and
lines starting with # are skipped.

Books already in the catalog are reported and left untouched. The command
exits non-zero when any ISBN failed.`,
	Example: `  catalog isbn-import 9780441172719 0-14-312755-X
  catalog isbn-import --file shelf.txt`,
	RunE: runISBNImport,
}

func init() {
	isbnImportCmd.Flags().StringVarP(&isbnFile, "file", "f", "", "file with one ISBN per line")
}

func runISBNImport(cmd *cobra.Command, args []string) error {
	codes := append([]string(nil), args...)
	if isbnFile != "" {
		fromFile, err := readISBNFile(cmd, isbnFile)
		if err != nil {
			return err
		}
		codes = append(codes, fromFile...)
	}
	if len(codes) == 0 {
		return errors.New("no ISBNs given, pass them as arguments or with --file")
	}

	app, err := openApp()
	if err != nil {
		return err
	}
	defer app.Close()

	results := app.ISBNImporter.Import(cmd.Context(), codes)

	out := cmd.OutOrStdout()
	failed := 0
	for _, result := range results {
		switch result.Status {
		case importers.StatusImported:
			fmt.Fprintf(out, "imported  %s  %s (book %d)\n", result.ISBN, result.Title, result.BookID)
		case importers.StatusExisting:
			fmt.Fprintf(out, "existing  %s  %s (book %d)\n", result.ISBN, result.Title, result.BookID)
		default:
			failed++
			fmt.Fprintf(out, "failed    %s  %s\n", result.ISBN, result.Message)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d ISBNs failed", failed, len(results))
	}
	return nil
}

func readISBNFile(cmd *cobra.Command, path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ISBN file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var codes []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		codes = append(codes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ISBN file: %w", err)
	}
	return codes, nil
}
