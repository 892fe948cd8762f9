// Package parsers holds one extractor per report format family. Each extractor turns the
// text, tokens and pixels of a report into an entity.Record and fails with a
// *common.MissingFieldsError naming every required field it could not find.
package parsers

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/bands"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

// Deps are the collaborators an extractor may use.
type Deps struct {
	Source provider.Source
	Bands  *bands.Disambiguator
	Logger *slog.Logger
}

// NewDeps wires a Disambiguator that samples pixels when src supports it.
func NewDeps(src provider.Source, logger *slog.Logger) Deps {
	if logger == nil {
		logger = slog.Default()
	}
	sampler, _ := provider.SamplerOf(src)
	return Deps{Source: src, Bands: bands.New(sampler, logger), Logger: logger}
}

// ParseFunc extracts one report.
type ParseFunc func(ctx context.Context, deps Deps, path string) (*entity.Record, error)

var registry = map[constants.Vendor]ParseFunc{
	constants.VendorDexcom:            ParseDexcom,
	constants.VendorGlooko:            ParseGlooko,
	constants.VendorLibreAGP:          ParseLibreAGP,
	constants.VendorLibreSnapshot:     ParseLibreSnapshot,
	constants.VendorMedtronic640G:     ParseMedtronic640G,
	constants.VendorMedtronic780G:     ParseMedtronic780G,
	constants.VendorMedtronicGuardian: ParseMedtronicGuardian,
}

// Lookup returns the extractor registered for v.
func Lookup(v constants.Vendor) (ParseFunc, bool) {
	fn, ok := registry[v]
	return fn, ok
}
