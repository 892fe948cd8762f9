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

const medtronicHeaderLines = 3

// medtronicLayout is what differs between the CareLink report variants.
type medtronicLayout struct {
	vendor     constants.Vendor
	chart      entity.Region // band labels of the time-in-range bar, page 1
	basal      locale.Pattern
	correction *locale.Pattern
}

var (
	medtronic640G = medtronicLayout{
		vendor: constants.VendorMedtronic640G,
		chart:  entity.Region{MinX: 160, MaxX: 180, MinY: 320, MaxY: 510},
		basal:  locale.Medtronic.Basal640G,
	}
	medtronic780G = medtronicLayout{
		vendor:     constants.VendorMedtronic780G,
		chart:      entity.Region{MinX: 30, MaxX: 55, MinY: 310, MaxY: 500},
		basal:      locale.Medtronic.Basal780G,
		correction: &locale.Medtronic.Correction,
	}
	medtronicGuardian = medtronicLayout{
		vendor: constants.VendorMedtronicGuardian,
		chart:  entity.Region{MinX: 30, MaxX: 55, MinY: 310, MaxY: 500},
		basal:  locale.Medtronic.BasalGuardian,
	}
)

func ParseMedtronic640G(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	return parseMedtronic(ctx, deps, path, medtronic640G)
}

func ParseMedtronic780G(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	return parseMedtronic(ctx, deps, path, medtronic780G)
}

func ParseMedtronicGuardian(ctx context.Context, deps Deps, path string) (*entity.Record, error) {
	return parseMedtronic(ctx, deps, path, medtronicGuardian)
}

func parseMedtronic(ctx context.Context, deps Deps, path string, layout medtronicLayout) (*entity.Record, error) {
	if deps.Bands == nil || deps.Logger == nil {
		deps = NewDeps(deps.Source, deps.Logger)
	}
	tokens, err := deps.Source.Tokens(ctx, path, provider.SinglePage(1))
	if err != nil {
		return nil, err
	}
	res, err := deps.Bands.Resolve(ctx, path, tokens, layout.chart)
	if err != nil {
		return nil, fmt.Errorf("%s time in range: %w", layout.vendor, err)
	}
	if res.Empty {
		deps.Logger.Info("report states no data for the period", "path", path, "vendor", layout.vendor)
		return &entity.Record{Unavailable: true}, nil
	}
	if res.Sampled {
		deps.Logger.Debug("report.bands.sampled", "path", path, "vendor", layout.vendor)
	}

	text, err := deps.Source.Text(ctx, path, provider.TextOptions{Layout: true})
	if err != nil {
		return nil, err
	}
	rec, err := parseMedtronicText(text, layout)
	if err != nil {
		return nil, err
	}
	rec.SetBands(res.Bands)
	return rec, nil
}

func parseMedtronicText(text string, layout medtronicLayout) (*entity.Record, error) {
	p := locale.Medtronic
	rec := &entity.Record{}

	rec.TimeActive = number(p.SensorWear, text)
	if m := p.AverageSD.Find(text); m != nil {
		rec.AverageGlucose = group(m, 1)
		rec.StddevGlucose = group(m, 2)
	}
	rec.VariationCoefficient = number(p.CV, text)
	if m := p.GMI.Find(text); m != nil {
		if mmol := group(m, 2); mmol != nil {
			rec.GMI = mmol
		} else if pct := group(m, 1); pct != nil {
			rec.GMI = entity.Float(postprocess.PercentToGMI(*pct))
		}
	}
	rec.DailyInsulinDose = number(p.TotalDaily, text)
	rec.BolusInsulin = number(p.Bolus, text)
	rec.BasalInsulin = number(layout.basal, text)
	if layout.correction != nil {
		rec.CorrectionInsulin = number(*layout.correction, text)
	}

	start, end := medtronicPeriod(text)

	v := common.NewValidator()
	v.Field(fieldPeriodStart, start, common.Required)
	v.Field(fieldPeriodEnd, end, common.Required)
	v.Field(fieldTimeActive, rec.TimeActive, common.Required)
	v.Field(fieldAverage, rec.AverageGlucose, common.Required)
	v.Field(fieldStddev, rec.StddevGlucose, common.Required)
	v.Field(fieldCV, rec.VariationCoefficient, common.Required)
	if err := v.MissingFieldsError(string(layout.vendor)); err != nil {
		return nil, err
	}

	from, err := locale.ParseNumericDate(start)
	if err != nil {
		return nil, fmt.Errorf("%s period start: %w", layout.vendor, err)
	}
	to, err := locale.ParseNumericDate(end)
	if err != nil {
		return nil, fmt.Errorf("%s period end: %w", layout.vendor, err)
	}
	rec.SetPeriod(from, to)
	return rec, nil
}

// medtronicPeriod reads the reporting range from the first non-blank header lines.
func medtronicPeriod(text string) (start, end string) {
	seen := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if m := locale.Medtronic.Period.Find(line); m != nil {
			return m[1], m[2]
		}
		if seen++; seen == medtronicHeaderLines {
			break
		}
	}
	return "", ""
}
