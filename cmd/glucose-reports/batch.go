package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/glucose-reports/internal/export"
	"github.com/joseph-ayodele/glucose-reports/internal/ingest"
)

var (
	batchOut        string
	batchWorkers    int
	batchShowHidden bool
)

func init() {
	batchCmd.Flags().StringVarP(&batchOut, "out", "o", "", "output XLSX file (default <dir>/../glucose-reports.xlsx)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "concurrent extractions (default batch.workers)")
	batchCmd.Flags().BoolVar(&batchShowHidden, "hidden", false, "include hidden files and directories")
}

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract every report under a directory into an XLSX workbook",
	Long: `Walk a directory, extract every PDF report concurrently and write one row per
report (path, vendor, status, error and all record fields) to an XLSX workbook.

Examples:
  glucose-reports batch ./reports -o results.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	dir := args[0]
	if batchOut == "" {
		batchOut = filepath.Join(filepath.Dir(filepath.Clean(dir)), "glucose-reports.xlsx")
	}
	workers := a.cfg.Batch.Workers
	if batchWorkers > 0 {
		workers = batchWorkers
	}

	rows, summary, err := ingest.RunBatch(cmd.Context(), a.proc, dir, ingest.BatchConfig{
		Workers:        workers,
		QueueSize:      a.cfg.Batch.QueueSize,
		ProcessTimeout: a.cfg.Batch.ProcessTimeout,
		SkipHidden:     !batchShowHidden,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("batch %s: %w", dir, err)
	}

	xlsx, err := export.NewService(a.logger).ExportResultsXLSX(cmd.Context(), rows)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(batchOut, xlsx, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", batchOut, err)
	}

	_, _ = fmt.Fprintf(out(cmd), "%d reports written to %s\n", len(rows), batchOut)
	for status, n := range summary.ByStatus {
		_, _ = fmt.Fprintf(out(cmd), "  %-13s %d\n", status, n)
	}
	return nil
}
