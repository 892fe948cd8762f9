package classify

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

type fakeText struct {
	text  string
	pages int
	err   error
	got   provider.TextOptions
}

func (f *fakeText) Text(_ context.Context, _ string, opts provider.TextOptions) (string, error) {
	f.got = opts
	return f.text, f.err
}

type countingText struct {
	fakeText
	countErr error
}

func (c *countingText) PageCount(string) (int, error) { return c.pages, c.countErr }

func TestClassifyText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want constants.Vendor
	}{
		{"glooko", "Glooko  Souhrn CGM", constants.VendorGlooko},
		{"glooko wins over dexcom", "Glooko import from Dexcom G6", constants.VendorGlooko},
		{"dexcom", "Dexcom Clarity Overview", constants.VendorDexcom},
		{"640g", "CareLink MiniMed 640G", constants.VendorMedtronic640G},
		{"780g", "CareLink MiniMed 780G", constants.VendorMedtronic780G},
		{"guardian", "Guardian™ Connect", constants.VendorMedtronicGuardian},
		{"libre agp", "FreeStyle Libre AGP Report", constants.VendorLibreAGP},
		{"unknown", "Some lab results", constants.VendorUnknown},
		{"empty", "", constants.VendorUnknown},
	}
	c := New(&fakeText{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.ClassifyText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyTextRejectsNightscoutDexcom(t *testing.T) {
	v, err := New(&fakeText{}).ClassifyText("Nightscout report with Dexcom data")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRejectedFormat)
	assert.Equal(t, constants.VendorUnknown, v)

	var rej *common.RejectedFormatError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "Nightscout", rej.Marker)
}

func TestClassifyTextLibreSnapshot(t *testing.T) {
	text := "FreeStyle Libre Snapshot"

	_, err := New(&fakeText{}).ClassifyText(text)
	assert.ErrorIs(t, err, common.ErrRejectedFormat)

	v, err := New(&fakeText{}, WithLegacySnapshot(true)).ClassifyText(text)
	require.NoError(t, err)
	assert.Equal(t, constants.VendorLibreSnapshot, v)
}

func TestClassifyReadsFirstPages(t *testing.T) {
	src := &fakeText{text: "Dexcom"}
	v, err := New(src).Classify(context.Background(), "r.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.VendorDexcom, v)
	assert.Equal(t, provider.TextOptions{FirstPage: 1, LastPage: 3}, src.got)
}

func TestClassifyClampsToPageCount(t *testing.T) {
	src := &countingText{fakeText: fakeText{text: "MiniMed 780G", pages: 1}}
	v, err := New(src, WithPages(5)).Classify(context.Background(), "r.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.VendorMedtronic780G, v)
	assert.Equal(t, 1, src.got.LastPage)
}

func TestClassifyKeepsDefaultPagesWhenCountFails(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	src := &countingText{fakeText: fakeText{text: "Dexcom Clarity"}, countErr: errors.New("pdfcpu: xref corrupt")}

	v, err := New(src, WithLogger(logger)).Classify(context.Background(), "r.pdf")
	require.NoError(t, err)
	assert.Equal(t, constants.VendorDexcom, v)
	assert.Equal(t, provider.TextOptions{FirstPage: 1, LastPage: 3}, src.got)
	assert.Contains(t, logs.String(), "report.pagecount.failed")
}

func TestClassifyPropagatesProviderErrors(t *testing.T) {
	perr := &common.ProviderError{Command: "pdftotext", Err: errors.New("exit status 1")}
	_, err := New(&fakeText{err: perr}).Classify(context.Background(), "r.pdf")
	assert.ErrorIs(t, err, common.ErrProvider)
}
