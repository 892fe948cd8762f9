package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/joseph-ayodele/glucose-reports/internal/core/async"
)

// Usecase feeds discovered report files into an extraction queue.
type Usecase struct {
	queue  Enqueuer
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]string // content hash -> first path
}

func NewUsecase(queue Enqueuer, logger *slog.Logger) *Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Usecase{queue: queue, logger: logger, seen: map[string]string{}}
}

// SubmitDirectory enqueues every distinct report under root and returns the scan results.
func (u *Usecase) SubmitDirectory(ctx context.Context, root string, skipHidden bool) ([]Discovered, DirStats, error) {
	found, stats, err := ScanDirectory(ctx, root, skipHidden)
	if err != nil {
		return found, stats, err
	}
	for i := range found {
		d := &found[i]
		if d.Err != "" || d.Deduplicated {
			continue
		}
		if !u.remember(d.HashHex, d.Path) {
			d.Deduplicated = true
			stats.Deduplicated++
			continue
		}
		if err := u.queue.Enqueue(ctx, async.NewJob(d.Path)); err != nil {
			return found, stats, fmt.Errorf("enqueue %s: %w", d.Path, err)
		}
	}
	u.logger.Info("ingest.directory.ok",
		"root", root,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"deduplicated", stats.Deduplicated,
		"failed", stats.Failed,
	)
	return found, stats, nil
}

// SubmitPath hashes one file and enqueues it unless identical content was submitted before.
// It reports whether a job was enqueued.
func (u *Usecase) SubmitPath(ctx context.Context, path string) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("abs path: %w", err)
	}
	if !AllowedExt(filepath.Ext(abs)) {
		return false, fmt.Errorf("unsupported or missing extension: %q", filepath.Ext(abs))
	}
	sum, _, err := hashFile(abs)
	if err != nil {
		return false, err
	}
	if !u.remember(sum, abs) {
		u.logger.Debug("duplicate report skipped", "path", abs)
		return false, nil
	}
	if err := u.queue.Enqueue(ctx, async.NewJob(abs)); err != nil {
		return false, err
	}
	return true, nil
}

// Watch submits files reported by the watcher until ctx is done.
func (u *Usecase) Watch(ctx context.Context, cfg WatchConfig) error {
	if cfg.Logger == nil {
		cfg.Logger = u.logger
	}
	events, errs, err := StartWatcher(ctx, cfg)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case p, ok := <-events:
			if !ok {
				return nil
			}
			if _, err := u.SubmitPath(ctx, p); err != nil {
				u.logger.Warn("ingest.watch.skip", "path", p, "error", err)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			u.logger.Warn("ingest.watch.error", "error", err)
		}
	}
}

func (u *Usecase) remember(hash, path string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.seen[hash]; ok {
		return false
	}
	u.seen[hash] = path
	return true
}
