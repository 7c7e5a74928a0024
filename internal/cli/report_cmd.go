package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/pantry/internal/cli/formatter"
	"github.com/alexanderramin/pantry/internal/service"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	var xlsxPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize project costs and estimated time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			uid, err := app.userID(ctx)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("xlsx") {
				report, err := app.Reports.ProjectReport(ctx, uid)
				if err != nil {
					return err
				}
				fmt.Fprintln(out(cmd), formatter.FormatProjectReport(report))
				return nil
			}

			path := xlsxPath
			if path == "" {
				path = service.ReportFilename(time.Now())
			} else if info, err := os.Stat(path); err == nil && info.IsDir() {
				path = filepath.Join(path, service.ReportFilename(time.Now()))
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			if err := app.Reports.ExportXLSX(ctx, uid, f); err != nil {
				f.Close()
				os.Remove(path)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", path, err)
			}
			fmt.Fprintf(out(cmd), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Write the report as an Excel workbook to this file or directory (\"\" for the current directory)")
	return cmd
}
