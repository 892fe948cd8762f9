package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/glucose-reports/internal/core/async"
	"github.com/joseph-ayodele/glucose-reports/internal/ingest"
)

var watchInitial bool

func init() {
	watchCmd.Flags().BoolVar(&watchInitial, "initial", false, "also extract reports already present")
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Extract reports as they appear in watched directories",
	Long: `Watch directories recursively and print "path: {json}" for every new PDF report.
Identical files are extracted once. Stops on SIGINT or SIGTERM.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	q := async.NewProcessorQueue(a.proc, a.logger,
		async.WithWorkers(a.cfg.Batch.Workers),
		async.WithQueueSize(a.cfg.Batch.QueueSize),
		async.WithProcessTimeout(a.cfg.Batch.ProcessTimeout),
	)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for r := range q.Results() {
			if r.Err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", r.Job.Path, r.Err)
				continue
			}
			b, _ := json.Marshal(r.Result.Record)
			_, _ = fmt.Fprintf(out(cmd), "%s: %s\n", r.Job.Path, b)
		}
	}()

	a.logger.Info("watching for reports", "roots", args)
	err = ingest.NewUsecase(q, a.logger).Watch(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: watchInitial,
		Debounce:    a.cfg.Batch.Debounce,
		SkipHidden:  true,
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Batch.ProcessTimeout+5*time.Second)
	defer cancel()
	q.Shutdown(shutdownCtx)
	select {
	case <-printed:
	case <-shutdownCtx.Done():
	}
	return err
}
