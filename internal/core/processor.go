package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/classify"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/parsers"
	"github.com/joseph-ayodele/glucose-reports/internal/postprocess"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
	"github.com/joseph-ayodele/glucose-reports/internal/schema"
)

// bandSumTolerance is how far the five bands may drift from 100 before a warning is logged.
const bandSumTolerance = 2.0

// Config holds the extraction behavior flags.
type Config struct {
	ClassifierPages     int  // default 3
	AllowLegacySnapshot bool // pass old Libre Snapshot reports to their extractor
}

// Result is the outcome of one successful extraction.
type Result struct {
	Path     string
	Vendor   constants.Vendor
	Record   entity.Record
	Status   constants.ParseStatus
	Duration time.Duration
}

// Processor coordinates classification, vendor extraction and record checks for one report.
type Processor struct {
	logger     *slog.Logger
	classifier *classify.Classifier
	deps       parsers.Deps
}

func NewProcessor(src provider.Source, cfg Config, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger: logger,
		classifier: classify.New(src,
			classify.WithPages(cfg.ClassifierPages),
			classify.WithLegacySnapshot(cfg.AllowLegacySnapshot),
			classify.WithLogger(logger),
		),
		deps: parsers.NewDeps(src, logger),
	}
}

// ExtractReport classifies the PDF at path, runs the matching extractor and checks the
// resulting record. Every failure is returned as an error; nothing is retried.
func (p *Processor) ExtractReport(ctx context.Context, path string) (*Result, error) {
	start := time.Now()
	if err := checkPath(path); err != nil {
		return nil, err
	}

	vendor, err := p.classifier.Classify(ctx, path)
	if err != nil {
		p.logger.Error("report.classify.failed", "path", path, "err", err)
		return nil, err
	}
	if vendor == constants.VendorUnknown {
		return nil, fmt.Errorf("%w: %s", common.ErrUnrecognizedFormat, filepath.Base(path))
	}
	return p.extract(ctx, start, path, vendor)
}

// ExtractReportAs skips classification and runs the extractor registered for vendor.
func (p *Processor) ExtractReportAs(ctx context.Context, path string, vendor constants.Vendor) (*Result, error) {
	start := time.Now()
	if err := checkPath(path); err != nil {
		return nil, err
	}
	return p.extract(ctx, start, path, vendor)
}

func checkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty path", common.ErrInvalidInput)
	}
	if !constants.IsAllowedExt(filepath.Ext(path)) {
		return fmt.Errorf("%w: %s is not a PDF", common.ErrInvalidInput, filepath.Base(path))
	}
	return nil
}

func (p *Processor) extract(ctx context.Context, start time.Time, path string, vendor constants.Vendor) (*Result, error) {
	parse, ok := parsers.Lookup(vendor)
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for %q", common.ErrUnrecognizedFormat, vendor)
	}

	rec, err := parse(ctx, p.deps, path)
	if err != nil {
		p.logger.Error("report.extract.failed", "path", path, "vendor", vendor, "err", err)
		return nil, err
	}

	res := &Result{Path: path, Vendor: vendor, Status: constants.StatusOK}
	if rec.Unavailable {
		res.Record = *rec
		res.Status = constants.StatusEmpty
	} else {
		out, err := p.finish(path, vendor, *rec)
		if err != nil {
			return nil, err
		}
		res.Record = out
	}
	res.Duration = time.Since(start)

	p.logger.Info("report.extract.ok",
		"path", path,
		"vendor", vendor,
		"status", res.Status,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// finish derives the implied values and checks the record before it is returned.
func (p *Processor) finish(path string, vendor constants.Vendor, rec entity.Record) (entity.Record, error) {
	out := postprocess.Apply(rec)

	if err := CheckRanges(out); err != nil {
		p.logger.Error("report.validate.failed", "path", path, "vendor", vendor, "err", err)
		return entity.Record{}, err
	}
	if err := schema.Validate(out); err != nil {
		p.logger.Error("report.schema.failed", "path", path, "vendor", vendor, "err", err)
		return entity.Record{}, err
	}

	if b, ok := out.Bands(); ok {
		if sum := b.Sum(); math.Abs(sum-100) > bandSumTolerance {
			p.logger.Warn("report.bands.sum", "path", path, "vendor", vendor, "sum", sum)
		}
	}
	return out, nil
}

// CheckRanges validates percent and non-negative fields of rec.
func CheckRanges(rec entity.Record) error {
	v := common.NewValidator()
	v.Field("timeActive", rec.TimeActive, common.Percent).
		Field("timeInRangeVeryHigh", rec.TimeInRangeVeryHigh, common.Percent).
		Field("timeInRangeHigh", rec.TimeInRangeHigh, common.Percent).
		Field("timeInRangeNormal", rec.TimeInRangeNormal, common.Percent).
		Field("timeInRangeLow", rec.TimeInRangeLow, common.Percent).
		Field("timeInRangeVeryLow", rec.TimeInRangeVeryLow, common.Percent).
		Field("averageGlucose", rec.AverageGlucose, common.NonNegative).
		Field("stddevGlucose", rec.StddevGlucose, common.NonNegative).
		Field("variationCoefficient", rec.VariationCoefficient, common.NonNegative).
		Field("gmi", rec.GMI, common.NonNegative).
		Field("dailyInsulinDose", rec.DailyInsulinDose, common.NonNegative).
		Field("basalInsulin", rec.BasalInsulin, common.NonNegative).
		Field("correctionInsulin", rec.CorrectionInsulin, common.NonNegative).
		Field("bolusInsulin", rec.BolusInsulin, common.NonNegative)
	if rec.PeriodStart != nil && rec.PeriodEnd != nil && rec.PeriodEnd.Before(*rec.PeriodStart) {
		v.Field("periodEnd", rec.PeriodEnd.String(), func(name string, value interface{}) *common.ValidationError {
			return &common.ValidationError{Field: name, Value: value, Message: "must not precede periodStart"}
		})
	}
	return v.RecordError()
}

// StatusFor maps an ExtractReport error to the status written into batch results.
func StatusFor(err error) constants.ParseStatus {
	switch {
	case err == nil:
		return constants.StatusOK
	case errors.Is(err, common.ErrUnrecognizedFormat):
		return constants.StatusUnrecognized
	case errors.Is(err, common.ErrRejectedFormat):
		return constants.StatusRejected
	default:
		return constants.StatusFailed
	}
}
