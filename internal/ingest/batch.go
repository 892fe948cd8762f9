package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/core/async"
	"github.com/joseph-ayodele/glucose-reports/internal/export"
)

// BatchConfig configures RunBatch.
type BatchConfig struct {
	Workers        int
	QueueSize      int
	ProcessTimeout time.Duration
	SkipHidden     bool
}

// BatchSummary counts results per status.
type BatchSummary struct {
	Stats    DirStats
	ByStatus map[constants.ParseStatus]int
}

// RunBatch extracts every distinct report under root on a worker pool and returns one
// export row per report plus one per file that could not be read.
func RunBatch(ctx context.Context, ex async.Extractor, root string, cfg BatchConfig, logger *slog.Logger) ([]export.Row, BatchSummary, error) {
	if logger == nil {
		logger = slog.Default()
	}
	q := async.NewProcessorQueue(ex, logger,
		async.WithWorkers(cfg.Workers),
		async.WithQueueSize(cfg.QueueSize),
		async.WithProcessTimeout(cfg.ProcessTimeout),
	)

	var rows []export.Row
	summary := BatchSummary{ByStatus: map[constants.ParseStatus]int{}}
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range q.Results() {
			rows = append(rows, export.RowFromJob(r))
			summary.ByStatus[r.Status]++
		}
	}()

	found, stats, err := NewUsecase(q, logger).SubmitDirectory(ctx, root, cfg.SkipHidden)
	q.Shutdown(context.Background())
	<-collected
	summary.Stats = stats
	if err != nil {
		return rows, summary, err
	}

	for _, d := range found {
		if d.Err != "" {
			rows = append(rows, export.Row{Path: d.Path, Status: constants.StatusFailed, Error: d.Err})
			summary.ByStatus[constants.StatusFailed]++
		}
	}
	logger.Info("batch.complete", "root", root, "reports", len(rows), "by_status", summary.ByStatus)
	return rows, summary, nil
}
