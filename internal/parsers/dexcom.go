package parsers

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/locale"
	"github.com/joseph-ayodele/glucose-reports/internal/postprocess"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

// ParseDexcom extracts a Dexcom Clarity overview from its content-order text.
func ParseDexcom(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	text, err := deps.Source.Text(ctx, path, provider.TextOptions{Raw: true})
	if err != nil {
		return nil, err
	}
	return parseDexcomText(text)
}

func parseDexcomText(text string) (*entity.Record, error) {
	p := locale.Dexcom
	rec := &entity.Record{}

	var start, end, patient string
	if m := p.Header.Find(text); m != nil {
		start, end, patient = m[2], m[3], strings.TrimSpace(m[4])
	}

	rec.TimeActive = number(p.TimeActive, text)
	rec.AverageGlucose = number(p.Average, text)
	rec.StddevGlucose = number(p.Stddev, text)
	if pct := number(p.GMIPercent, text); pct != nil {
		rec.GMI = entity.Float(postprocess.PercentToGMI(*pct))
	}

	v := common.NewValidator()
	v.Field(fieldPeriodStart, start, common.Required)
	v.Field(fieldPeriodEnd, end, common.Required)
	v.Field(fieldPatientName, patient, common.Required)
	v.Field(fieldTimeActive, rec.TimeActive, common.Required)
	v.Field(fieldAverage, rec.AverageGlucose, common.Required)
	v.Field(fieldStddev, rec.StddevGlucose, common.Required)
	v.Field(fieldGMI, rec.GMI, common.Required)
	requireBands(v, rec, findBands(p.Bands, text))
	if err := v.MissingFieldsError(string(constants.VendorDexcom)); err != nil {
		return nil, err
	}

	loc, _ := locale.Detect(text)
	from, err := locale.ParseDate(start, loc)
	if err != nil {
		return nil, fmt.Errorf("dexcom period start: %w", err)
	}
	to, err := locale.ParseDate(end, loc)
	if err != nil {
		return nil, fmt.Errorf("dexcom period end: %w", err)
	}
	rec.SetPeriod(from, to)
	return rec, nil
}
