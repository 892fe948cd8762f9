package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
)

// Exit codes of the extract command.
const (
	exitOK            = 0
	exitUnrecognized  = 1
	exitExtractFailed = 2
)

var extractVendor string

func init() {
	extractCmd.Flags().StringVar(&extractVendor, "vendor", "",
		"skip classification and use this extractor ("+strings.Join(constants.VendorsAsStringSlice(), ", ")+")")
}

var extractCmd = &cobra.Command{
	Use:   "extract <report.pdf>...",
	Short: "Extract records from report PDFs",
	Long: `Extract one record per report and print it as "path: {json}".

Exit status is 0 when every report was extracted, 1 when a report was not
recognized, and 2 when a report failed to extract.

Examples:
  # Extract a single report
  glucose-reports extract clarity.pdf

  # Extract several reports with a config file
  glucose-reports extract -c glucose.yaml reports/*.pdf

  # Force the Medtronic 780G extractor
  glucose-reports extract --vendor 780g carelink.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	var forced constants.Vendor
	if extractVendor != "" {
		v, ok := constants.ParseVendor(extractVendor)
		if !ok {
			return fmt.Errorf("%w: unknown vendor %q", common.ErrInvalidInput, extractVendor)
		}
		forced = v
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	var ex reportExtractor = a.proc
	if forced != constants.VendorUnknown {
		ex = forcedVendor{proc: a.proc, vendor: forced}
	}
	code := extractAll(cmd.Context(), ex, args, out(cmd), cmd.ErrOrStderr())
	if code != exitOK {
		return exitError{code: code}
	}
	return nil
}

type reportExtractor interface {
	ExtractReport(ctx context.Context, path string) (*core.Result, error)
}

// forcedVendor runs one extractor regardless of the report markers.
type forcedVendor struct {
	proc   *core.Processor
	vendor constants.Vendor
}

func (f forcedVendor) ExtractReport(ctx context.Context, path string) (*core.Result, error) {
	return f.proc.ExtractReportAs(ctx, path, f.vendor)
}

// extractAll prints a line per path and returns the highest exit code seen.
func extractAll(ctx context.Context, ex reportExtractor, paths []string, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	code := exitOK
	for _, path := range paths {
		res, err := ex.ExtractReport(ctx, path)
		if err != nil {
			c := exitCode(err)
			code = max(code, c)
			_, _ = fmt.Fprintf(stderr, "%s: %v\n", path, err)
			continue
		}
		b, err := json.Marshal(res.Record)
		if err != nil {
			code = max(code, exitExtractFailed)
			_, _ = fmt.Fprintf(stderr, "%s: encode record: %v\n", path, err)
			continue
		}
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", path, b)
	}
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, common.ErrUnrecognizedFormat):
		return exitUnrecognized
	default:
		return exitExtractFailed
	}
}
