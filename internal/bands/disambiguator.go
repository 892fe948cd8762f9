// Package bands reads the five time-in-range percentages from a stacked bar chart whose
// labels are positioned next to their segment. Segments narrower than their label leave
// fewer than five labels; the target band is then found by the color of its segment.
package bands

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/locale"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

const (
	sampleDPI    = 72
	swatchWidth  = 16
	swatchHeight = 1
	swatchGapX   = 10 // right of the widest label
	swatchDropY  = 3  // below the label top
	markerSlackX = 40 // the unavailable marker is wider than a percentage label
)

// Result of a resolution. Empty means the chart explicitly states there is no data.
type Result struct {
	Bands   entity.Bands
	Empty   bool
	Sampled bool
}

type Disambiguator struct {
	sampler provider.PixelSampler
	logger  *slog.Logger
}

// New builds a Disambiguator. sampler may be nil; charts that need color sampling then fail
// with ErrAmbiguousChart.
func New(sampler provider.PixelSampler, logger *slog.Logger) *Disambiguator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Disambiguator{sampler: sampler, logger: logger}
}

// Resolve assigns the chart labels found in region to the five bands. Labels are ordered
// top to bottom: very high first, very low last.
func (d *Disambiguator) Resolve(ctx context.Context, path string, tokens []entity.Token, region entity.Region) (Result, error) {
	var labels []entity.Token
	for _, t := range tokens {
		if region.ContainsOrigin(t) && locale.Medtronic.BandValue.MatchString(t.Text) {
			labels = append(labels, t)
		}
	}

	if len(labels) == 0 {
		wide := region
		wide.MaxX += markerSlackX
		for _, t := range tokens {
			if wide.ContainsOrigin(t) && locale.Medtronic.Unavailable.MatchString(t.Text) {
				return Result{Empty: true}, nil
			}
		}
		return Result{}, fmt.Errorf("%w: no band labels in region %+v", common.ErrBandDataMissing, region)
	}

	sort.SliceStable(labels, func(i, j int) bool { return labels[i].Top < labels[j].Top })
	values := make([]float64, len(labels))
	for i, t := range labels {
		v, err := locale.ParseNumber(t.Text)
		if err != nil {
			return Result{}, fmt.Errorf("%w: band label %q: %v", common.ErrBandDataMissing, t.Text, err)
		}
		values[i] = v
	}

	if len(values) == 5 {
		return Result{Bands: entity.Bands{
			VeryHigh: values[0],
			High:     values[1],
			Normal:   values[2],
			Low:      values[3],
			VeryLow:  values[4],
		}}, nil
	}

	if d.sampler == nil {
		return Result{}, fmt.Errorf("%w: %d band labels and no pixel sampler", common.ErrAmbiguousChart, len(values))
	}

	green, err := d.findGreen(ctx, path, labels)
	if err != nil {
		return Result{}, err
	}
	at := func(i int) float64 {
		if i < 0 || i >= len(values) {
			return 0
		}
		return values[i]
	}
	return Result{
		Bands: entity.Bands{
			VeryHigh: at(green - 2),
			High:     at(green - 1),
			Normal:   values[green],
			Low:      at(green + 1),
			VeryLow:  at(green + 2),
		},
		Sampled: true,
	}, nil
}

func (d *Disambiguator) findGreen(ctx context.Context, path string, labels []entity.Token) (int, error) {
	right := 0.0
	for _, t := range labels {
		right = math.Max(right, t.Right())
	}
	x := int(math.Floor(right + swatchGapX))

	for i, t := range labels {
		req := provider.SampleRequest{
			Page:   max(t.Page, 1),
			DPI:    sampleDPI,
			X:      x,
			Y:      int(math.Floor(t.Top + swatchDropY)),
			Width:  swatchWidth,
			Height: swatchHeight,
		}
		s, err := d.sampler.PixelSample(ctx, path, req)
		if err != nil {
			return 0, err
		}
		if s.Every(IsTargetGreen) {
			d.logger.Debug("band chart resolved by color", "path", path, "labels", len(labels), "target_index", i)
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: none of %d band segments is the target color", common.ErrAmbiguousChart, len(labels))
}

// IsTargetGreen reports whether px is the target range color of the chart.
func IsTargetGreen(px entity.RGB) bool {
	return px.R > 130 && px.R < 140 &&
		px.G > 205 && px.G < 215 &&
		px.B > 135 && px.B < 145
}
