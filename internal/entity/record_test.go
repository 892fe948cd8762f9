package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate_RejectsImpossibleDays(t *testing.T) {
	_, err := NewDate(2024, time.February, 30)
	require.Error(t, err)

	d, err := NewDate(2024, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestDate_JSON(t *testing.T) {
	d := MustDate(2024, time.January, 15)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-01-15"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestRecord_JSONFieldNames(t *testing.T) {
	var r Record
	r.SetPeriod(MustDate(2024, time.January, 1), MustDate(2024, time.January, 14))
	r.AverageGlucose = Float(8.1)
	r.GMI = Float(53)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"periodStart":"2024-01-01","periodEnd":"2024-01-14","averageGlucose":8.1,"gmi":53}`, string(b))
}

func TestRecord_SetBandsAndBands(t *testing.T) {
	var r Record
	_, ok := r.Bands()
	assert.False(t, ok)

	r.SetBands(Bands{VeryHigh: 2, High: 20, Normal: 70, Low: 6, VeryLow: 2})
	b, ok := r.Bands()
	require.True(t, ok)
	assert.InDelta(t, 100, b.Sum(), 1e-9)
	assert.Equal(t, 70.0, *r.TimeInRangeNormal)
}

func TestRecord_CloneDoesNotAlias(t *testing.T) {
	var r Record
	r.AverageGlucose = Float(7)
	r.SetPeriod(MustDate(2024, time.March, 1), MustDate(2024, time.March, 2))

	c := r.Clone()
	*c.AverageGlucose = 9
	c.PeriodStart.Day = 5

	assert.Equal(t, 7.0, *r.AverageGlucose)
	assert.Equal(t, 1, r.PeriodStart.Day)
}

func TestPixelSample_Every(t *testing.T) {
	green := RGB{R: 135, G: 210, B: 140}
	s := PixelSample{Width: 2, Height: 1, Pixels: []RGB{green, green}}
	isGreen := func(p RGB) bool { return p == green }
	assert.True(t, s.Every(isGreen))
	assert.Equal(t, green, s.Pixels[1])

	s.Pixels[1] = RGB{}
	assert.False(t, s.Every(isGreen))
	assert.False(t, PixelSample{}.Every(isGreen))
}

func TestRegion_ContainsOrigin(t *testing.T) {
	r := Region{MinX: 30, MaxX: 55, MinY: 310, MaxY: 500}
	assert.True(t, r.ContainsOrigin(Token{Left: 40, Top: 320}))
	assert.False(t, r.ContainsOrigin(Token{Left: 30, Top: 320}))
	assert.False(t, r.ContainsOrigin(Token{Left: 40, Top: 500}))
}
