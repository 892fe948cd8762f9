package async

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
)

// Job asks the queue to extract one report.
type Job struct {
	ID   uuid.UUID
	Path string
}

// NewJob returns a Job with a fresh ID.
func NewJob(path string) Job {
	return Job{ID: uuid.New(), Path: path}
}

// JobResult is delivered on the results channel once a job finishes, successfully or not.
type JobResult struct {
	Job      Job
	Result   *core.Result
	Status   constants.ParseStatus
	Err      error
	Duration time.Duration
}
