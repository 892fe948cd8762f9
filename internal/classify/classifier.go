// Package classify decides which extractor handles a report by looking for vendor markers
// in the text of its first pages.
package classify

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

const defaultPages = 3

type Classifier struct {
	src            provider.TextSource
	logger         *slog.Logger
	pages          int
	legacySnapshot bool
}

type Option func(*Classifier)

// WithLegacySnapshot lets old Libre Snapshot reports through to their extractor instead of rejecting them.
func WithLegacySnapshot(allow bool) Option {
	return func(c *Classifier) { c.legacySnapshot = allow }
}

// WithPages sets how many leading pages are scanned for markers.
func WithPages(n int) Option {
	return func(c *Classifier) {
		if n > 0 {
			c.pages = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

func New(src provider.TextSource, opts ...Option) *Classifier {
	c := &Classifier{src: src, logger: slog.Default(), pages: defaultPages}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Classify reads the first pages of path and applies ClassifyText.
func (c *Classifier) Classify(ctx context.Context, path string) (constants.Vendor, error) {
	last := c.pages
	if pc, ok := c.src.(provider.PageCounter); ok {
		// the text provider may still read a PDF the page counter rejects
		if n, err := pc.PageCount(path); err != nil {
			c.logger.Warn("report.pagecount.failed", "path", path, "error", err)
		} else {
			last = min(last, n)
		}
	}

	text, err := c.src.Text(ctx, path, provider.TextOptions{FirstPage: 1, LastPage: last})
	if err != nil {
		return constants.VendorUnknown, err
	}

	v, err := c.ClassifyText(text)
	if err != nil {
		c.logger.Info("report rejected", "path", path, "error", err)
		return v, err
	}
	c.logger.Debug("report classified", "path", path, "vendor", v, "pages", last)
	return v, nil
}

// ClassifyText applies the vendor predicates in order; the first match wins.
// No match is VendorUnknown with a nil error.
func (c *Classifier) ClassifyText(text string) (constants.Vendor, error) {
	has := func(s string) bool { return strings.Contains(text, s) }

	switch {
	case has("Glooko"):
		return constants.VendorGlooko, nil
	case has("Dexcom"):
		if has("Nightscout") {
			return constants.VendorUnknown, &common.RejectedFormatError{Vendor: string(constants.VendorDexcom), Marker: "Nightscout"}
		}
		return constants.VendorDexcom, nil
	case has("MiniMed 640G"):
		return constants.VendorMedtronic640G, nil
	case has("MiniMed 780G"):
		return constants.VendorMedtronic780G, nil
	case has("Guardian™"), has("Guardian Connect"):
		return constants.VendorMedtronicGuardian, nil
	case has("AGP") && has("Libre"):
		return constants.VendorLibreAGP, nil
	case has("Snapshot") && has("Libre"):
		if !c.legacySnapshot {
			return constants.VendorUnknown, &common.RejectedFormatError{Vendor: string(constants.VendorLibreSnapshot), Marker: "Snapshot"}
		}
		return constants.VendorLibreSnapshot, nil
	}
	return constants.VendorUnknown, nil
}
