package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/glucose-reports/constants"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
	"github.com/joseph-ayodele/glucose-reports/internal/entity"
)

// Extractor is the part of core.Processor the servers depend on.
type Extractor interface {
	ExtractReport(ctx context.Context, path string) (*core.Result, error)
}

// ScanResponse is the body returned for an extracted upload.
type ScanResponse struct {
	RequestID string                `json:"requestId,omitempty"`
	Vendor    constants.Vendor      `json:"vendor"`
	Status    constants.ParseStatus `json:"status"`
	Record    entity.Record         `json:"record"`
}

// ErrorResponse is the body returned when an upload could not be extracted.
type ErrorResponse struct {
	RequestID string                `json:"requestId,omitempty"`
	Status    constants.ParseStatus `json:"status,omitempty"`
	Error     string                `json:"error"`
}

// uploads writes each upload to its own temp file and removes it once extracted.
type uploads struct {
	ex     Extractor
	dir    string
	logger *slog.Logger
}

func (u uploads) scan(ctx context.Context, requestID string, body io.Reader) (*core.Result, error) {
	f, err := os.CreateTemp(u.dir, "upload-"+uuid.NewString()+"-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	path := f.Name()
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			u.logger.Warn("failed to remove upload", "path", path, "error", err)
		}
	}()

	n, err := io.Copy(f, body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}
	u.logger.Debug("upload stored", "request_id", requestID, "path", path, "bytes", n)

	return u.ex.ExtractReport(ctx, path)
}

// recordMap converts a record to the generic map form used by the gRPC response.
func recordMap(rec entity.Record) (map[string]any, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
