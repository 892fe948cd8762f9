package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
	"github.com/joseph-ayodele/glucose-reports/internal/provider"
)

// app is the wiring shared by every command.
type app struct {
	cfg    *common.Config
	logger *slog.Logger
	proc   *core.Processor
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("allow-legacy-snapshot") {
		cfg.Provider.AllowLegacySnapshot = allowLegacySnapshot
	}
	logger := common.NewLogger(cmd.ErrOrStderr(), cfg.Log)
	slog.SetDefault(logger)
	return &app{cfg: cfg, logger: logger, proc: newProcessor(cfg, logger)}, nil
}

func newProcessor(cfg *common.Config, logger *slog.Logger) *core.Processor {
	src := provider.NewPoppler(provider.Config{
		Pdftotext: cfg.Provider.Pdftotext,
		Pdftoppm:  cfg.Provider.Pdftoppm,
		DPI:       cfg.Provider.DPI,
		TempDir:   cfg.Provider.TempDir,
	}, logger)
	return core.NewProcessor(src, core.Config{
		ClassifierPages:     cfg.Provider.ClassifierPages,
		AllowLegacySnapshot: cfg.Provider.AllowLegacySnapshot,
	}, logger)
}

// out is where command results are printed.
func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
