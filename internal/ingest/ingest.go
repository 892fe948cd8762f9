package ingest

import (
	"context"

	"github.com/joseph-ayodele/glucose-reports/internal/core/async"
)

// Discovered is one report file found on disk.
type Discovered struct {
	Path         string
	HashHex      string
	Size         int64
	Deduplicated bool // same content as a file discovered earlier
	Err          string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Deduplicated uint32
	Failed       uint32
}

// Enqueuer accepts extraction jobs; *async.ProcessorQueue implements it.
type Enqueuer interface {
	Enqueue(ctx context.Context, job async.Job) error
}
