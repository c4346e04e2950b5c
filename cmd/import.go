package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var importYes bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace every post with the contents of an export file",
	Long: `Replace every post with the contents of an export file.

The file must be an export produced by "folio export" (a JSON object
with a "blogs" array). If any record is invalid nothing is changed.
Use - to read from stdin.

Examples:
  folio import blog-dashboard-export-2024-12-01.json
  cat backup.json | folio import - --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runImport(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	// Stdin is the data, so there is nothing left to answer a prompt with
	assumeYes := importYes || args[0] == "-"
	if postStore.Len() > 0 {
		confirm := newPromptConfirmer(os.Stdin, os.Stdout, assumeYes)
		msg := fmt.Sprintf("Importing replaces all %d existing posts.", postStore.Len())
		if !confirm.Confirm("Import posts", msg) {
			fmt.Println(ui.FormatInfo("Operation cancelled."))
			return nil
		}
	}

	n, err := dashboard.Import(getContext(), bytes.NewReader(data))
	if err != nil {
		slog.Warn("import failed", "file", args[0], "error", err)
		fmt.Println(ui.FormatError(msgImportFailed))
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s (%d posts)", msgImported, n)))
	return nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}

// importFile replaces the store with the export at path
func importFile(d *services.Dashboard, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return d.Import(getContext(), f)
}
