package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

type mapExtractor map[string]error

func (m mapExtractor) ExtractReport(_ context.Context, path string) (*core.Result, error) {
	if err := m[path]; err != nil {
		return nil, err
	}
	return &core.Result{Path: path, Vendor: constants.VendorLibreAGP, Status: constants.StatusOK,
		Record: entity.Record{AverageGlucose: entity.Float(6.5)}}, nil
}

func TestExtractAllExitCodes(t *testing.T) {
	unrecognized := fmt.Errorf("%w: x", common.ErrUnrecognizedFormat)
	failed := common.NewMissingFieldsError("Dexcom", []string{"gmi"})

	tests := []struct {
		name  string
		paths []string
		code  int
	}{
		{"all extracted", []string{"a.pdf"}, exitOK},
		{"unrecognized", []string{"a.pdf", "u.pdf"}, exitUnrecognized},
		{"failure wins", []string{"f.pdf", "u.pdf"}, exitExtractFailed},
	}
	ex := mapExtractor{"u.pdf": unrecognized, "f.pdf": failed}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, extractAll(context.Background(), ex, tt.paths, &stdout, &stderr))
		})
	}
}

func TestExtractAllOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := extractAll(context.Background(), mapExtractor{"bad.pdf": errors.New("boom")}, []string{"ok.pdf", "bad.pdf"}, &stdout, &stderr)

	assert.Equal(t, exitExtractFailed, code)
	assert.Equal(t, "ok.pdf: {\"averageGlucose\":6.5}\n", stdout.String())
	assert.Equal(t, "bad.pdf: boom\n", stderr.String())
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
		assert.NotEmpty(t, c.Short, c.Name())
	}
	for _, want := range []string{"extract", "batch", "watch"} {
		assert.True(t, names[want], want)
	}
}

func TestExtractRequiresArgs(t *testing.T) {
	rootCmd.SetArgs([]string{"extract"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer rootCmd.SetArgs(nil)
	assert.Error(t, rootCmd.Execute())
}

func TestExtractRejectsUnknownVendor(t *testing.T) {
	rootCmd.SetArgs([]string{"extract", "--vendor", "acme", "r.pdf"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	defer func() {
		rootCmd.SetArgs(nil)
		extractVendor = ""
	}()

	err := rootCmd.Execute()
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
