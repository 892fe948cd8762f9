// Package main implements the glucose-reports CLI: extract records from glucose report PDFs
// one by one, in batch to an XLSX workbook, or as they appear in a watched directory.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is an optional YAML config file
	configPath string
	// allowLegacySnapshot overrides provider.allow_legacy_snapshot
	allowLegacySnapshot bool
	// version information
	version = "dev"
)

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func main() {
	err := rootCmd.Execute()
	var ee exitError
	switch {
	case err == nil:
	case errors.As(err, &ee):
		os.Exit(ee.code)
	default:
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitExtractFailed)
	}
}

var rootCmd = &cobra.Command{
	Use:   "glucose-reports",
	Short: "Extract structured records from CGM and insulin pump report PDFs",
	Long: `glucose-reports reads vendor report PDFs (Dexcom Clarity, Glooko, FreeStyle Libre,
Medtronic CareLink) with poppler-utils and prints one JSON record per report.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&allowLegacySnapshot, "allow-legacy-snapshot", false, "extract old Libre Snapshot reports instead of rejecting them")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
}
