package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/core/async"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

const sheet = "Reports"

// Row is one processed report.
type Row struct {
	Path   string
	Vendor constants.Vendor
	Status constants.ParseStatus
	Error  string
	Record *entity.Record
}

// RowFromJob converts a finished queue job into an export row.
func RowFromJob(r async.JobResult) Row {
	row := Row{Path: r.Job.Path, Status: r.Status}
	if r.Err != nil {
		row.Error = r.Err.Error()
	}
	if r.Result != nil {
		rec := r.Result.Record
		row.Vendor = r.Result.Vendor
		row.Record = &rec
	}
	return row
}

type column struct {
	header string
	width  float64
	value  func(Row) any
}

func field(get func(*entity.Record) *float64) func(Row) any {
	return func(r Row) any {
		if r.Record == nil {
			return nil
		}
		if v := get(r.Record); v != nil {
			return *v
		}
		return nil
	}
}

func date(get func(*entity.Record) *entity.Date) func(Row) any {
	return func(r Row) any {
		if r.Record == nil {
			return nil
		}
		if d := get(r.Record); d != nil && !d.IsZero() {
			return d.String()
		}
		return nil
	}
}

func text(get func(Row) string) func(Row) any {
	return func(r Row) any {
		if s := get(r); s != "" {
			return s
		}
		return nil
	}
}

var columns = []column{
	{"Report Path", 60, func(r Row) any { return r.Path }},
	{"Vendor", 18, text(func(r Row) string { return string(r.Vendor) })},
	{"Status", 14, text(func(r Row) string { return string(r.Status) })},
	{"Error", 48, text(func(r Row) string { return truncate(r.Error, 140) })},
	{"Period Start", 14, date(func(rec *entity.Record) *entity.Date { return rec.PeriodStart })},
	{"Period End", 14, date(func(rec *entity.Record) *entity.Date { return rec.PeriodEnd })},
	{"Time Active %", 14, field(func(rec *entity.Record) *float64 { return rec.TimeActive })},
	{"Very High %", 12, field(func(rec *entity.Record) *float64 { return rec.TimeInRangeVeryHigh })},
	{"High %", 12, field(func(rec *entity.Record) *float64 { return rec.TimeInRangeHigh })},
	{"In Range %", 12, field(func(rec *entity.Record) *float64 { return rec.TimeInRangeNormal })},
	{"Low %", 12, field(func(rec *entity.Record) *float64 { return rec.TimeInRangeLow })},
	{"Very Low %", 12, field(func(rec *entity.Record) *float64 { return rec.TimeInRangeVeryLow })},
	{"Average (mmol/L)", 16, field(func(rec *entity.Record) *float64 { return rec.AverageGlucose })},
	{"SD (mmol/L)", 14, field(func(rec *entity.Record) *float64 { return rec.StddevGlucose })},
	{"CV %", 10, field(func(rec *entity.Record) *float64 { return rec.VariationCoefficient })},
	{"GMI (mmol/mol)", 16, field(func(rec *entity.Record) *float64 { return rec.GMI })},
	{"Daily Dose (U)", 14, field(func(rec *entity.Record) *float64 { return rec.DailyInsulinDose })},
	{"Basal (U)", 12, field(func(rec *entity.Record) *float64 { return rec.BasalInsulin })},
	{"Correction (U)", 14, field(func(rec *entity.Record) *float64 { return rec.CorrectionInsulin })},
	{"Bolus (U)", 12, field(func(rec *entity.Record) *float64 { return rec.BolusInsulin })},
}

// Service produces XLSX workbooks of batch results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportResultsXLSX returns an XLSX workbook (as bytes) with one row per report, sorted by path.
func (s *Service) ExportResultsXLSX(ctx context.Context, rows []Row) ([]byte, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	index, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	for i, c := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.header); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, c.width)
	}

	for r, row := range sorted {
		for i, c := range columns {
			v := c.value(row)
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx cell %s: %w", cell, err)
			}
		}
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(sorted),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
