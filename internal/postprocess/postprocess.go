// Package postprocess derives the values a report implies but does not state.
package postprocess

import "github.com/joseph-ayodele/glucose-reports/internal/entity"

const (
	gmiSlope     = 0.09148
	gmiIntercept = 2.152
)

// PercentToGMI converts a GMI in percent (NGSP) to mmol/mol (IFCC).
func PercentToGMI(percent float64) float64 {
	return (percent - gmiIntercept) / gmiSlope
}

// GMIToPercent converts a GMI in mmol/mol back to percent.
func GMIToPercent(mmolPerMol float64) float64 {
	return mmolPerMol*gmiSlope + gmiIntercept
}

// Apply fills the coefficient of variation from average and deviation, or the deviation
// from average and coefficient, when exactly one of the two is known. Present values are
// never overwritten, so applying twice changes nothing.
func Apply(rec entity.Record) entity.Record {
	out := rec.Clone()
	if out.AverageGlucose == nil || *out.AverageGlucose == 0 {
		return out
	}
	avg := *out.AverageGlucose

	switch {
	case out.StddevGlucose != nil && out.VariationCoefficient == nil:
		out.VariationCoefficient = entity.Float(*out.StddevGlucose / avg * 100)
	case out.StddevGlucose == nil && out.VariationCoefficient != nil:
		out.StddevGlucose = entity.Float(*out.VariationCoefficient / 100 * avg)
	}
	return out
}
