package async

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
)

type fakeExtractor struct {
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeExtractor) ExtractReport(ctx context.Context, path string) (*core.Result, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if path == "unknown.pdf" {
		return nil, fmt.Errorf("%w: unknown.pdf", common.ErrUnrecognizedFormat)
	}
	return &core.Result{Path: path, Vendor: constants.VendorDexcom, Status: constants.StatusOK}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessorQueueDeliversEveryResult(t *testing.T) {
	ext := &fakeExtractor{}
	q := NewProcessorQueue(ext, discardLogger(), WithWorkers(3), WithQueueSize(8))

	paths := []string{"a.pdf", "b.pdf", "unknown.pdf", "c.pdf"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(context.Background(), NewJob(p)))
	}
	q.Shutdown(context.Background())

	var got []string
	statuses := map[string]constants.ParseStatus{}
	for r := range q.Results() {
		got = append(got, r.Job.Path)
		statuses[r.Job.Path] = r.Status
	}
	sort.Strings(got)
	assert.Equal(t, []string{"a.pdf", "b.pdf", "c.pdf", "unknown.pdf"}, got)
	assert.Equal(t, constants.StatusUnrecognized, statuses["unknown.pdf"])
	assert.Equal(t, constants.StatusOK, statuses["a.pdf"])
	assert.EqualValues(t, 4, ext.calls.Load())
}

func TestProcessorQueueRejectsAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeExtractor{}, discardLogger(), WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), NewJob("late.pdf"))
	assert.ErrorIs(t, err, ErrQueueClosed)
	_, open := <-q.Results()
	assert.False(t, open)
}

func TestProcessorQueueTimeout(t *testing.T) {
	q := NewProcessorQueue(&fakeExtractor{delay: time.Second}, discardLogger(),
		WithWorkers(1), WithProcessTimeout(10*time.Millisecond))

	require.NoError(t, q.Enqueue(context.Background(), NewJob("slow.pdf")))
	q.Shutdown(context.Background())

	r := <-q.Results()
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	assert.Equal(t, constants.StatusFailed, r.Status)
}

type gatedExtractor struct {
	calls atomic.Int32
	gate  chan struct{}
}

func (g *gatedExtractor) ExtractReport(ctx context.Context, path string) (*core.Result, error) {
	g.calls.Add(1)
	select {
	case <-g.gate:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &core.Result{Path: path, Vendor: constants.VendorDexcom, Status: constants.StatusOK}, nil
}

func TestProcessorQueueShutdownReleasesBlockedEnqueue(t *testing.T) {
	ext := &gatedExtractor{gate: make(chan struct{})}
	q := NewProcessorQueue(ext, discardLogger(), WithWorkers(1), WithQueueSize(1))

	require.NoError(t, q.Enqueue(context.Background(), NewJob("a.pdf")))
	require.Eventually(t, func() bool { return ext.calls.Load() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(context.Background(), NewJob("b.pdf")))

	// the worker is busy and the buffer is full, so this one blocks
	errc := make(chan error, 1)
	go func() { errc <- q.Enqueue(context.Background(), NewJob("c.pdf")) }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	q.Shutdown(ctx)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("Enqueue still blocked after Shutdown")
	}

	close(ext.gate)
	var got []string
	for r := range q.Results() {
		got = append(got, r.Job.Path)
	}
	sort.Strings(got)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, got)
}

func TestNewJobAssignsDistinctIDs(t *testing.T) {
	a, b := NewJob("x.pdf"), NewJob("x.pdf")
	assert.NotEqual(t, a.ID, b.ID)
}
