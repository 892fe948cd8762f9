package provider

import (
	"context"

	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

// TextOptions selects pages and pdftotext output mode. Zero pages mean "no bound".
type TextOptions struct {
	FirstPage int
	LastPage  int
	Layout    bool // keep the physical layout (columns stay on one line)
	Raw       bool // content stream order
}

// PageRange is an inclusive 1-based page range. Zero bounds mean "no bound".
type PageRange struct {
	First int
	Last  int
}

// SinglePage returns the range covering only page n.
func SinglePage(n int) PageRange { return PageRange{First: n, Last: n} }

// SampleRequest addresses a rectangle of a rendered page, in pixels at DPI.
type SampleRequest struct {
	Page   int
	DPI    int
	X, Y   int
	Width  int
	Height int
}

// TextSource returns the plain text of a document.
type TextSource interface {
	Text(ctx context.Context, path string, opts TextOptions) (string, error)
}

// TokenSource returns word-level tokens with bounding boxes.
type TokenSource interface {
	Tokens(ctx context.Context, path string, pages PageRange) ([]entity.Token, error)
}

// Source is what every extractor needs. Pixel sampling and page counting are optional
// capabilities discovered with type assertions.
type Source interface {
	TextSource
	TokenSource
}

// PixelSampler renders a small region of a page.
type PixelSampler interface {
	PixelSample(ctx context.Context, path string, req SampleRequest) (entity.PixelSample, error)
}

// PageCounter reports the number of pages without extracting text.
type PageCounter interface {
	PageCount(path string) (int, error)
}

// SamplerOf returns the pixel sampling capability of src, if it has one.
func SamplerOf(src Source) (PixelSampler, bool) {
	s, ok := src.(PixelSampler)
	return s, ok
}
