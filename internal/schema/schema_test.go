package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

func completeRecord() entity.Record {
	var rec entity.Record
	rec.SetPeriod(entity.MustDate(2024, time.January, 1), entity.MustDate(2024, time.January, 14))
	rec.SetBands(entity.Bands{VeryHigh: 2, High: 18, Normal: 76, Low: 3, VeryLow: 1})
	rec.AverageGlucose = entity.Float(8.1)
	rec.StddevGlucose = entity.Float(2.6)
	rec.VariationCoefficient = entity.Float(32.1)
	rec.GMI = entity.Float(48)
	rec.TimeActive = entity.Float(97)
	return rec
}

func TestValidateAcceptsCompleteRecord(t *testing.T) {
	require.NoError(t, Validate(completeRecord()))
}

func TestValidateAcceptsUnavailableRecord(t *testing.T) {
	require.NoError(t, Validate(entity.Record{Unavailable: true}))
}

func TestValidateRejectsOutOfRangePercent(t *testing.T) {
	rec := completeRecord()
	rec.TimeActive = entity.Float(140)

	err := Validate(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidRecord)
}

func TestValidateRejectsPartialBands(t *testing.T) {
	rec := completeRecord()
	rec.TimeInRangeLow = nil

	err := Validate(rec)
	assert.ErrorIs(t, err, common.ErrInvalidRecord)
}

func TestValidateRejectsOneSidedPeriod(t *testing.T) {
	rec := completeRecord()
	rec.PeriodEnd = nil

	assert.ErrorIs(t, Validate(rec), common.ErrInvalidRecord)
}

func TestValidateJSONRejectsUnknownField(t *testing.T) {
	err := ValidateJSON([]byte(`{"averageGlucose": 7.2, "patientName": "x"}`))
	assert.ErrorIs(t, err, common.ErrInvalidRecord)
}

func TestRecordSchemaIsCopy(t *testing.T) {
	b := RecordSchema()
	b[0] = 'x'
	assert.Equal(t, byte('{'), RecordSchema()[0])
}
