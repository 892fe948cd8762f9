package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/glucose-reports/internal/core"
)

// ErrQueueClosed is returned by Enqueue after Shutdown has started.
var ErrQueueClosed = errors.New("queue is shutting down")

// Extractor is the part of core.Processor the queue depends on.
type Extractor interface {
	ExtractReport(ctx context.Context, path string) (*core.Result, error)
}

// ProcessorQueue runs ExtractReport jobs on a fixed pool of workers. Each job is an
// independent pipeline; results arrive on Results in completion order.
type ProcessorQueue struct {
	proc    Extractor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch      chan Job
	results chan JobResult
	wg      sync.WaitGroup
	once    sync.Once

	mu      sync.Mutex
	closed  bool
	closing chan struct{}  // closed when Shutdown starts; wakes blocked Enqueue calls
	senders sync.WaitGroup // Enqueue calls past the closed check
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
			q.results = make(chan JobResult, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// NewProcessorQueue starts the workers. The caller must keep reading Results until it is
// closed, otherwise workers block once the results buffer is full.
func NewProcessorQueue(proc Extractor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: 2 * time.Minute,
		ch:      make(chan Job, 256),
		results: make(chan JobResult, 256),
		closing: make(chan struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

// Results is closed after Shutdown has drained every queued job.
func (q *ProcessorQueue) Results() <-chan JobResult {
	return q.results
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Debug("worker started", "worker_id", workerID)

				for job := range q.ch {
					q.results <- q.run(workerID, job)
				}

				q.logger.Debug("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) run(workerID int, job Job) JobResult {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	start := time.Now()
	res, err := q.proc.ExtractReport(ctx, job.Path)
	out := JobResult{Job: job, Result: res, Err: err, Duration: time.Since(start)}
	if err != nil {
		out.Status = core.StatusFor(err)
		q.logger.Error("processing failed", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "status", out.Status, "error", err)
		return out
	}
	out.Status = res.Status
	q.logger.Info("processed report successfully", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "vendor", res.Vendor)
	return out
}

// Enqueue blocks while the queue is full, until ctx ends or Shutdown starts.
func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.ID, "path", job.Path)
		return ErrQueueClosed
	}
	q.senders.Add(1)
	q.mu.Unlock()
	defer q.senders.Done()

	select {
	case q.ch <- job:
		q.logger.Debug("queued report for processing", "job_id", job.ID, "path", job.Path)
		return nil
	default:
	}
	q.logger.Warn("queue full, applying backpressure", "job_id", job.ID, "path", job.Path)
	select {
	case q.ch <- job:
		return nil
	case <-q.closing:
		q.logger.Warn("cannot enqueue: queue is shutting down", "job_id", job.ID, "path", job.Path)
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for ctx to end.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.closing)
	q.mu.Unlock()

	// q.ch is only closed once no Enqueue can still send on it
	q.senders.Wait()
	close(q.ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.wg.Wait()
		close(q.results)
	}()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
