package cmd

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/folio/internal/core/services"
	"github.com/kamal-hamza/folio/pkg/ui"
)

var (
	exportOutput    string
	exportStdout    bool
	exportClipboard bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every post to a JSON file",
	Long: `Export every post to a JSON file that "folio import" can read.

By default the file is written to the exports directory as
blog-dashboard-export-YYYY-MM-DD.json. Old exports are pruned when
export_retention_days is set.

Examples:
  folio export
  folio export -o backup.json
  folio export --stdout | jq '.blogs | length'
  folio export --clipboard`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of the exports directory")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Write the export to stdout")
	exportCmd.Flags().BoolVar(&exportClipboard, "clipboard", false, "Copy the export to the clipboard")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportStdout {
		_, err := dashboard.Export(cmd.OutOrStdout())
		return err
	}

	if exportClipboard {
		var buf bytes.Buffer
		doc, err := dashboard.Export(&buf)
		if err != nil {
			fmt.Println(ui.FormatError("Failed to export posts"))
			return err
		}
		if err := clipboard.WriteAll(buf.String()); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s (%d posts copied to clipboard)", msgExported, len(doc.Blogs))))
		return nil
	}

	path := exportOutput
	if path == "" {
		if n, err := appVault.PruneExports(appConfig.ExportRetention(), time.Now()); err != nil {
			slog.Warn("pruning old exports failed", "error", err)
		} else if n > 0 {
			slog.Info("pruned old exports", "removed", n)
		}
		path = appVault.GetExportPath(appConfig.ExportDir, dashboard.ExportFilename())
	}

	doc, err := writeExport(dashboard, path)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to export posts"))
		return err
	}

	fmt.Println(ui.FormatSuccess(msgExported))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Posts", fmt.Sprintf("%d", len(doc.Blogs))))
	fmt.Println(ui.RenderKeyValue("File", path))
	return nil
}

// writeExport writes the store to path, creating parent directories
func writeExport(d *services.Dashboard, path string) (*services.ExportDocument, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	doc, err := d.Export(f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return doc, nil
}
