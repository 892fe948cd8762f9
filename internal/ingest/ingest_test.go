package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
	"github.com/joseph-ayodele/glucose-reports/internal/core/async"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []async.Job
}

func (q *recordingQueue) Enqueue(_ context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) paths() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []string
	for _, j := range q.jobs {
		out = append(out, j.Path)
	}
	sort.Strings(out)
	return out
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestScanDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "report A")
	writeFile(t, filepath.Join(root, "sub", "b.PDF"), "report B")
	writeFile(t, filepath.Join(root, "sub", "copy-of-a.pdf"), "report A")
	writeFile(t, filepath.Join(root, "notes.txt"), "not a report")
	writeFile(t, filepath.Join(root, ".hidden", "c.pdf"), "report C")
	writeFile(t, filepath.Join(root, ".d.pdf"), "report D")

	found, stats, err := ScanDirectory(context.Background(), root, true)
	require.NoError(t, err)

	var paths []string
	for _, d := range found {
		rel, _ := filepath.Rel(root, d.Path)
		paths = append(paths, rel)
	}
	assert.Equal(t, []string{"a.pdf", filepath.Join("sub", "b.PDF"), filepath.Join("sub", "copy-of-a.pdf")}, paths)
	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 1, stats.Deduplicated)
	assert.True(t, found[2].Deduplicated)
	assert.Equal(t, found[0].HashHex, found[2].HashHex)
	assert.EqualValues(t, len("report A"), found[0].Size)

	all, stats, err := ScanDirectory(context.Background(), root, false)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.EqualValues(t, 5, stats.Matched)
}

func TestScanDirectoryRequiresRoot(t *testing.T) {
	_, _, err := ScanDirectory(context.Background(), " ", false)
	assert.Error(t, err)
}

func TestSubmitDirectorySkipsDuplicates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "one")
	writeFile(t, filepath.Join(root, "b.pdf"), "two")
	writeFile(t, filepath.Join(root, "c.pdf"), "one")

	q := &recordingQueue{}
	u := NewUsecase(q, discard())
	_, stats, err := u.SubmitDirectory(context.Background(), root, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Deduplicated)
	assert.Equal(t, []string{filepath.Join(root, "a.pdf"), filepath.Join(root, "b.pdf")}, q.paths())

	// a second submission of the same tree enqueues nothing new
	_, stats, err = u.SubmitDirectory(context.Background(), root, true)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Deduplicated)
	assert.Len(t, q.paths(), 2)
}

func TestSubmitPath(t *testing.T) {
	root := t.TempDir()
	pdf := filepath.Join(root, "r.pdf")
	writeFile(t, pdf, "content")

	q := &recordingQueue{}
	u := NewUsecase(q, discard())

	ok, err := u.SubmitPath(context.Background(), pdf)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = u.SubmitPath(context.Background(), pdf)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = u.SubmitPath(context.Background(), filepath.Join(root, "r.txt"))
	assert.Error(t, err)
}

func TestStartWatcherEmitsNewReports(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "existing.pdf"), "old")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		Debounce:    20 * time.Millisecond,
		Logger:      discard(),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "existing.pdf"), <-events)

	writeFile(t, filepath.Join(root, "ignored.txt"), "x")
	writeFile(t, filepath.Join(root, "new.pdf"), "new")

	select {
	case p := <-events:
		assert.Equal(t, filepath.Join(root, "new.pdf"), p)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for new.pdf")
	}

	cancel()
	for range events {
	}
}

func TestStartWatcherRequiresRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{Logger: discard()})
	assert.Error(t, err)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/tmp/.cache"))
	assert.False(t, IsHidden("/tmp/report.pdf"))
	assert.False(t, IsHidden("."))
}

type contentExtractor struct{}

func (contentExtractor) ExtractReport(_ context.Context, path string) (*core.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if string(data) == "junk" {
		return nil, fmt.Errorf("%w: %s", common.ErrUnrecognizedFormat, path)
	}
	return &core.Result{Path: path, Vendor: constants.VendorGlooko, Status: constants.StatusOK}, nil
}

func TestRunBatch(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.pdf"), "glooko")
	writeFile(t, filepath.Join(root, "b.pdf"), "junk")
	writeFile(t, filepath.Join(root, "dup.pdf"), "glooko")

	rows, summary, err := RunBatch(context.Background(), contentExtractor{}, root, BatchConfig{Workers: 2, SkipHidden: true}, discard())
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, summary.ByStatus[constants.StatusOK])
	assert.Equal(t, 1, summary.ByStatus[constants.StatusUnrecognized])
	assert.EqualValues(t, 1, summary.Stats.Deduplicated)
}
