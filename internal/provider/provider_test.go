package provider

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
)

type fakeRunner struct {
	calls  [][]string
	stdout string
	stderr string
	err    error
	onRun  func(args []string) error
}

func (f *fakeRunner) Run(_ context.Context, name string, _ *slog.Logger, args ...string) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.onRun != nil {
		if err := f.onRun(args); err != nil {
			return nil, nil, err
		}
	}
	return []byte(f.stdout), []byte(f.stderr), f.err
}

const sampleTSV = "level\tpage_num\tpar_num\tblock_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0.000000\t0.000000\t595.000000\t842.000000\t-1\t###PAGE###\n" +
	"3\t1\t0\t1\t0\t0\t300.000000\t100.000000\t60.000000\t10.000000\t-1\t###FLOW###\n" +
	"4\t1\t0\t1\t0\t0\t300.000000\t100.000000\t60.000000\t10.000000\t-1\t###LINE###\n" +
	"5\t1\t0\t1\t0\t0\t300.000000\t100.000000\t20.000000\t10.000000\t100\t7.2\n" +
	"5\t1\t0\t1\t0\t1\t322.000000\t101.000000\t38.000000\t10.000000\t100\tmmol/L\n" +
	"4\t1\t0\t1\t1\t0\t300.000000\t85.000000\t40.000000\t10.000000\t-1\t###LINE###\n" +
	"5\t1\t0\t1\t1\t0\t300.000000\t85.000000\t40.000000\t10.000000\t100\tAverage\n"

func TestParseTSVAndMergeLines(t *testing.T) {
	rows, err := ParseTSV(sampleTSV)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, rows[0].Line, rows[1].Line)
	assert.NotEqual(t, rows[1].Line, rows[2].Line)

	lines := MergeLines(rows)
	require.Len(t, lines, 2)

	assert.Equal(t, "7.2 mmol/L", lines[0].Text)
	assert.InDelta(t, 300, lines[0].Left, 1e-9)
	assert.InDelta(t, 100, lines[0].Top, 1e-9)
	assert.InDelta(t, 360, lines[0].Right(), 1e-9)
	assert.InDelta(t, 111, lines[0].Bottom(), 1e-9)

	assert.Equal(t, "Average", lines[1].Text)
	assert.Equal(t, 1, lines[1].Page)
}

func TestParseTSVRejectsShortRows(t *testing.T) {
	_, err := ParseTSV("5\t1\t0\n")
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	got := Normalize("Průměr  \r\nline two   \r\n\fpage two\n\n")
	assert.Equal(t, "Průměr\nline two\n\fpage two", got)
	assert.Equal(t, "\u00e9", Normalize("e\u0301"))
}

func TestPages(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Pages("a\fb\f"))
	assert.Equal(t, []string{""}, Pages(""))
}

func TestPopplerTextArgs(t *testing.T) {
	r := &fakeRunner{stdout: "Dexcom Clarity\r\n"}
	p := NewPoppler(Config{}, nil).WithRunner(r)

	got, err := p.Text(context.Background(), "in.pdf", TextOptions{FirstPage: 1, LastPage: 3, Layout: true})
	require.NoError(t, err)
	assert.Equal(t, "Dexcom Clarity", got)

	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"pdftotext", "-f", "1", "-l", "3", "-layout", "-enc", "UTF-8", "-eol", "unix", "in.pdf", "-"}, r.calls[0])
}

func TestPopplerTextFailureIsProviderError(t *testing.T) {
	r := &fakeRunner{stderr: "Syntax Error: Couldn't find trailer dictionary", err: errors.New("exit status 1")}
	p := NewPoppler(Config{Pdftotext: "/usr/bin/pdftotext"}, nil).WithRunner(r)

	_, err := p.Text(context.Background(), "broken.pdf", TextOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrProvider)
	assert.False(t, common.IsParseError(err))

	var pe *common.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/usr/bin/pdftotext", pe.Command)
	assert.Contains(t, pe.Stderr, "trailer")
}

func TestPopplerTokens(t *testing.T) {
	r := &fakeRunner{stdout: sampleTSV}
	p := NewPoppler(Config{}, nil).WithRunner(r)

	toks, err := p.Tokens(context.Background(), "in.pdf", SinglePage(2))
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, "mmol/L", toks[1].Text)
	assert.Equal(t, []string{"pdftotext", "-f", "2", "-l", "2", "-tsv", "-enc", "UTF-8", "in.pdf", "-"}, r.calls[0])
}

func TestPopplerPixelSample(t *testing.T) {
	green := color.RGBA{R: 135, G: 210, B: 140, A: 255}
	r := &fakeRunner{}
	r.onRun = func(args []string) error {
		prefix := args[len(args)-1]
		img := image.NewRGBA(image.Rect(0, 0, 16, 1))
		for x := 0; x < 16; x++ {
			img.Set(x, 0, green)
		}
		f, err := os.Create(prefix + ".tif")
		if err != nil {
			return err
		}
		defer f.Close()
		return tiff.Encode(f, img, nil)
	}
	tmp := t.TempDir()
	p := NewPoppler(Config{TempDir: tmp}, nil).WithRunner(r)

	s, err := p.PixelSample(context.Background(), "in.pdf", SampleRequest{Page: 1, X: 330, Y: 200, Width: 16, Height: 1})
	require.NoError(t, err)
	assert.Equal(t, 16, s.Width)
	assert.Equal(t, 1, s.Height)
	assert.Equal(t, uint8(135), s.Pixels[3].R)
	assert.Equal(t, uint8(210), s.Pixels[15].G)

	args := strings.Join(r.calls[0], " ")
	assert.Contains(t, args, "-r 72 -x 330 -y 200 -W 16 -H 1 -tiff -singlefile")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "render directory must be removed")
}

func TestPopplerPixelSampleRejectsEmptyRequest(t *testing.T) {
	p := NewPoppler(Config{}, nil).WithRunner(&fakeRunner{})
	_, err := p.PixelSample(context.Background(), "in.pdf", SampleRequest{Page: 1})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestPageCountMissingFile(t *testing.T) {
	p := NewPoppler(Config{}, nil)
	_, err := p.PageCount("does-not-exist.pdf")
	assert.ErrorIs(t, err, common.ErrProvider)
}
