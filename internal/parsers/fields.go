package parsers

import (
	"math"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/locale"
)

// Field names reported in MissingFieldsError, matching the record's JSON names.
const (
	fieldPeriodStart = "periodStart"
	fieldPeriodEnd   = "periodEnd"
	fieldPatientName = "patientName"
	fieldTimeActive  = "timeActive"
	fieldVeryHigh    = "timeInRangeVeryHigh"
	fieldHigh        = "timeInRangeHigh"
	fieldNormal      = "timeInRangeNormal"
	fieldLow         = "timeInRangeLow"
	fieldVeryLow     = "timeInRangeVeryLow"
	fieldAverage     = "averageGlucose"
	fieldStddev      = "stddevGlucose"
	fieldCV          = "variationCoefficient"
	fieldGMI         = "gmi"
)

// group parses submatch i of m; nil when absent or not a number.
func group(m []string, i int) *float64 {
	if i >= len(m) || m[i] == "" {
		return nil
	}
	v, err := locale.ParseNumber(m[i])
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// number returns the first submatch of p in text as a number.
func number(p locale.Pattern, text string) *float64 {
	return group(p.Find(text), 1)
}

// bandValues holds the five bands as found; nil entries were not found.
type bandValues [5]*float64

var bandFields = [5]string{fieldVeryHigh, fieldHigh, fieldNormal, fieldLow, fieldVeryLow}

func (b bandValues) complete() bool {
	for _, v := range b {
		if v == nil {
			return false
		}
	}
	return true
}

func (b bandValues) bands() entity.Bands {
	return entity.Bands{VeryHigh: *b[0], High: *b[1], Normal: *b[2], Low: *b[3], VeryLow: *b[4]}
}

// findBands reads all five bands with the primary expressions and, unless that finds every
// band, with the fallback expressions. The two are never mixed. The returned values are
// those of the primary pass when neither is complete.
func findBands(bp locale.BandPatterns, text string) bandValues {
	patterns := [5]locale.Pattern{bp.VeryHigh, bp.High, bp.Normal, bp.Low, bp.VeryLow}

	var primary, fallback bandValues
	for i, p := range patterns {
		if p.Primary != nil {
			primary[i] = group(p.Primary.FindStringSubmatch(text), 1)
		}
	}
	if primary.complete() {
		return primary
	}
	for i, p := range patterns {
		if p.Fallback != nil {
			fallback[i] = group(p.Fallback.FindStringSubmatch(text), 1)
		}
	}
	if fallback.complete() {
		return fallback
	}
	return primary
}

// requireBands records the missing bands in v and sets them on rec when all are present.
func requireBands(v *common.Validator, rec *entity.Record, b bandValues) {
	for i, val := range b {
		v.Field(bandFields[i], val, common.Required)
	}
	if b.complete() {
		rec.SetBands(b.bands())
	}
}

func abs(f float64) float64 { return math.Abs(f) }
