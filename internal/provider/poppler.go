package provider

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/image/tiff"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	DPI       int    // default sampling resolution, default 72
	TempDir   string // parent for per-call render directories; "" uses os.TempDir
}

// Poppler reads documents with the poppler command line tools.
type Poppler struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

var (
	_ Source       = (*Poppler)(nil)
	_ PixelSampler = (*Poppler)(nil)
	_ PageCounter  = (*Poppler)(nil)
)

func NewPoppler(cfg Config, logger *slog.Logger) *Poppler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 72
	}
	return &Poppler{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner replaces the command runner, used by tests.
func (p *Poppler) WithRunner(r Runner) *Poppler {
	p.runner = r
	return p
}

func pageArgs(first, last int) []string {
	var args []string
	if first > 0 {
		args = append(args, "-f", strconv.Itoa(first))
	}
	if last > 0 {
		args = append(args, "-l", strconv.Itoa(last))
	}
	return args
}

// Text runs pdftotext and returns its normalized output. Pages are separated by \f.
func (p *Poppler) Text(ctx context.Context, path string, opts TextOptions) (string, error) {
	args := pageArgs(opts.FirstPage, opts.LastPage)
	if opts.Layout {
		args = append(args, "-layout")
	}
	if opts.Raw {
		args = append(args, "-raw")
	}
	args = append(args, "-enc", "UTF-8", "-eol", "unix", path, "-")

	out, errb, err := p.runner.Run(ctx, p.cfg.Pdftotext, p.logger, args...)
	if err != nil {
		return "", &common.ProviderError{Command: p.cfg.Pdftotext, Stderr: truncate(string(errb), 1<<10), Err: err}
	}
	return Normalize(string(out)), nil
}

// Tokens runs pdftotext -tsv and returns its words.
func (p *Poppler) Tokens(ctx context.Context, path string, pages PageRange) ([]entity.Token, error) {
	args := pageArgs(pages.First, pages.Last)
	args = append(args, "-tsv", "-enc", "UTF-8", path, "-")

	out, errb, err := p.runner.Run(ctx, p.cfg.Pdftotext, p.logger, args...)
	if err != nil {
		return nil, &common.ProviderError{Command: p.cfg.Pdftotext, Stderr: truncate(string(errb), 1<<10), Err: err}
	}
	rows, err := ParseTSV(Normalize(string(out)))
	if err != nil {
		return nil, &common.ProviderError{Command: p.cfg.Pdftotext, Err: err}
	}
	return rows, nil
}

// PixelSample renders the requested rectangle with pdftoppm and decodes it.
func (p *Poppler) PixelSample(ctx context.Context, path string, req SampleRequest) (entity.PixelSample, error) {
	if req.Width <= 0 || req.Height <= 0 || req.Page <= 0 {
		return entity.PixelSample{}, fmt.Errorf("%w: invalid sample request %+v", common.ErrInvalidInput, req)
	}
	dpi := req.DPI
	if dpi <= 0 {
		dpi = p.cfg.DPI
	}

	tmpDir, err := os.MkdirTemp(p.cfg.TempDir, "gr-px-*")
	if err != nil {
		return entity.PixelSample{}, err
	}
	defer func(dir string) {
		if err := os.RemoveAll(dir); err != nil {
			p.logger.Warn("failed to remove temp dir", "dir", dir, "error", err)
		}
	}(tmpDir)

	prefix := filepath.Join(tmpDir, "sample")
	args := append(pageArgs(req.Page, req.Page),
		"-r", strconv.Itoa(dpi),
		"-x", strconv.Itoa(req.X),
		"-y", strconv.Itoa(req.Y),
		"-W", strconv.Itoa(req.Width),
		"-H", strconv.Itoa(req.Height),
		"-tiff", "-singlefile",
		path, prefix,
	)
	_, errb, err := p.runner.Run(ctx, p.cfg.Pdftoppm, p.logger, args...)
	if err != nil {
		return entity.PixelSample{}, &common.ProviderError{Command: p.cfg.Pdftoppm, Stderr: truncate(string(errb), 1<<10), Err: err}
	}

	f, err := os.Open(prefix + ".tif")
	if err != nil {
		return entity.PixelSample{}, &common.ProviderError{Command: p.cfg.Pdftoppm, Err: fmt.Errorf("no image rendered: %w", err)}
	}
	defer func() { _ = f.Close() }()

	img, err := tiff.Decode(f)
	if err != nil {
		return entity.PixelSample{}, &common.ProviderError{Command: p.cfg.Pdftoppm, Err: fmt.Errorf("decode tiff: %w", err)}
	}
	return ToPixelSample(img), nil
}

// PageCount reads the page tree with pdfcpu without spawning a process.
func (p *Poppler) PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, &common.ProviderError{Command: "pdfcpu", Err: err}
	}
	if n <= 0 {
		return 0, &common.ProviderError{Command: "pdfcpu", Err: errors.New("document has no pages")}
	}
	return n, nil
}

// ToPixelSample flattens img into 8-bit RGB, row-major.
func ToPixelSample(img image.Image) entity.PixelSample {
	b := img.Bounds()
	s := entity.PixelSample{Width: b.Dx(), Height: b.Dy(), Pixels: make([]entity.RGB, 0, b.Dx()*b.Dy())}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			s.Pixels = append(s.Pixels, entity.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)})
		}
	}
	return s
}
