package entity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, always in the proleptic Gregorian calendar.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, rejecting days that do not exist in the given month.
func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid calendar date %04d-%02d-%02d", year, int(month), day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// MustDate is NewDate for literals in tables and tests.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*d = Date{}
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return err
	}
	*d = Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
	return nil
}

// Record is the structured result of one report. A nil field was not observed in the report.
type Record struct {
	PeriodStart *Date `json:"periodStart,omitempty"`
	PeriodEnd   *Date `json:"periodEnd,omitempty"`

	// percent of the period with an active sensor, 0..100
	TimeActive *float64 `json:"timeActive,omitempty"`

	// time-in-range bands, percent 0..100
	TimeInRangeVeryHigh *float64 `json:"timeInRangeVeryHigh,omitempty"`
	TimeInRangeHigh     *float64 `json:"timeInRangeHigh,omitempty"`
	TimeInRangeNormal   *float64 `json:"timeInRangeNormal,omitempty"`
	TimeInRangeLow      *float64 `json:"timeInRangeLow,omitempty"`
	TimeInRangeVeryLow  *float64 `json:"timeInRangeVeryLow,omitempty"`

	// mmol/L
	AverageGlucose *float64 `json:"averageGlucose,omitempty"`
	StddevGlucose  *float64 `json:"stddevGlucose,omitempty"`
	// percent
	VariationCoefficient *float64 `json:"variationCoefficient,omitempty"`
	// mmol/mol
	GMI *float64 `json:"gmi,omitempty"`

	// units per day
	DailyInsulinDose  *float64 `json:"dailyInsulinDose,omitempty"`
	BasalInsulin      *float64 `json:"basalInsulin,omitempty"`
	CorrectionInsulin *float64 `json:"correctionInsulin,omitempty"`
	BolusInsulin      *float64 `json:"bolusInsulin,omitempty"`

	// Unavailable marks a report that explicitly states there is no clinical data for the period.
	Unavailable bool `json:"unavailable,omitempty"`
}

// Bands holds the five time-in-range values as one unit.
type Bands struct {
	VeryHigh float64
	High     float64
	Normal   float64
	Low      float64
	VeryLow  float64
}

// Sum of all five bands.
func (b Bands) Sum() float64 {
	return b.VeryHigh + b.High + b.Normal + b.Low + b.VeryLow
}

// SetBands assigns all five bands at once so a single detection mechanism supplies them.
func (r *Record) SetBands(b Bands) {
	r.TimeInRangeVeryHigh = Float(b.VeryHigh)
	r.TimeInRangeHigh = Float(b.High)
	r.TimeInRangeNormal = Float(b.Normal)
	r.TimeInRangeLow = Float(b.Low)
	r.TimeInRangeVeryLow = Float(b.VeryLow)
}

// Bands returns the five bands, ok is false unless all of them are known.
func (r Record) Bands() (Bands, bool) {
	if r.TimeInRangeVeryHigh == nil || r.TimeInRangeHigh == nil || r.TimeInRangeNormal == nil ||
		r.TimeInRangeLow == nil || r.TimeInRangeVeryLow == nil {
		return Bands{}, false
	}
	return Bands{
		VeryHigh: *r.TimeInRangeVeryHigh,
		High:     *r.TimeInRangeHigh,
		Normal:   *r.TimeInRangeNormal,
		Low:      *r.TimeInRangeLow,
		VeryLow:  *r.TimeInRangeVeryLow,
	}, true
}

// SetPeriod sets both period boundaries.
func (r *Record) SetPeriod(start, end Date) {
	r.PeriodStart = &start
	r.PeriodEnd = &end
}

// Clone returns a deep copy; pointer fields of the copy never alias the receiver.
func (r Record) Clone() Record {
	out := r
	out.PeriodStart = cloneDate(r.PeriodStart)
	out.PeriodEnd = cloneDate(r.PeriodEnd)
	for _, p := range []**float64{
		&out.TimeActive,
		&out.TimeInRangeVeryHigh, &out.TimeInRangeHigh, &out.TimeInRangeNormal,
		&out.TimeInRangeLow, &out.TimeInRangeVeryLow,
		&out.AverageGlucose, &out.StddevGlucose, &out.VariationCoefficient, &out.GMI,
		&out.DailyInsulinDose, &out.BasalInsulin, &out.CorrectionInsulin, &out.BolusInsulin,
	} {
		if *p != nil {
			v := **p
			*p = &v
		}
	}
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
