package parsers

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/locale"
	"github.com/joseph-ayodele/glucose-reports/internal/postprocess"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

// ParseLibreAGP extracts a FreeStyle Libre ambulatory glucose profile from its layout text.
func ParseLibreAGP(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	text, err := deps.Source.Text(ctx, path, provider.TextOptions{Layout: true})
	if err != nil {
		return nil, err
	}
	return parseLibreAGPText(text)
}

func parseLibreAGPText(text string) (*entity.Record, error) {
	p := locale.Libre
	rec := &entity.Record{}

	rec.AverageGlucose = number(p.Average, text)
	rec.VariationCoefficient = number(p.Variability, text)
	rec.TimeActive = number(p.SensorTime, text)
	// mmol/mol when printed, otherwise converted from percent
	if m := p.GMI.Primary.FindStringSubmatch(text); m != nil {
		rec.GMI = group(m, 1)
	} else if pct := group(p.GMI.Fallback.FindStringSubmatch(text), 1); pct != nil {
		rec.GMI = entity.Float(postprocess.PercentToGMI(*pct))
	}
	if rec.StddevGlucose == nil && rec.AverageGlucose != nil && rec.VariationCoefficient != nil {
		rec.StddevGlucose = entity.Float(*rec.AverageGlucose * *rec.VariationCoefficient / 100)
	}

	var start, end string
	if m := p.Period.Find(text); m != nil {
		start, end = m[1], m[2]
	}

	v := common.NewValidator()
	v.Field(fieldPeriodStart, start, common.Required)
	v.Field(fieldPeriodEnd, end, common.Required)
	requireBands(v, rec, findBands(p.Bands, text))
	v.Field(fieldAverage, rec.AverageGlucose, common.Required)
	if err := v.MissingFieldsError(string(constants.VendorLibreAGP)); err != nil {
		return nil, err
	}

	loc, _ := locale.Detect(text)
	from, err := locale.ParseDate(start, loc)
	if err != nil {
		return nil, fmt.Errorf("libre period start: %w", err)
	}
	to, err := locale.ParseDate(end, loc)
	if err != nil {
		return nil, fmt.Errorf("libre period end: %w", err)
	}
	rec.SetPeriod(from, to)
	return rec, nil
}

// ParseLibreSnapshot extracts the average glucose of a legacy Libre Snapshot report.
func ParseLibreSnapshot(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	text, err := deps.Source.Text(ctx, path, provider.TextOptions{Raw: true})
	if err != nil {
		return nil, err
	}
	return parseLibreSnapshotText(text)
}

func parseLibreSnapshotText(text string) (*entity.Record, error) {
	rec := &entity.Record{AverageGlucose: number(locale.Libre.SnapshotAverage, text)}

	v := common.NewValidator()
	v.Field(fieldAverage, rec.AverageGlucose, common.Required)
	if err := v.MissingFieldsError(string(constants.VendorLibreSnapshot)); err != nil {
		return nil, err
	}
	return rec, nil
}
