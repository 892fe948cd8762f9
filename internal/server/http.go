package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/glucose-reports/internal/common"
	"github.com/joseph-ayodele/glucose-reports/internal/core"
	"github.com/joseph-ayodele/glucose-reports/internal/schema"
)

// UploadField is the multipart form field carrying the report.
const UploadField = "report"

// HTTPHandler serves the upload API.
type HTTPHandler struct {
	uploads  uploads
	maxBytes int64
	logger   *slog.Logger
}

func NewHTTPHandler(ex Extractor, cfg common.ServerConfig, tempDir string, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	maxBytes := cfg.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	return &HTTPHandler{
		uploads:  uploads{ex: ex, dir: tempDir, logger: logger},
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Routes returns the router with every endpoint registered.
func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	h.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers the endpoints on an existing router.
func (h *HTTPHandler) RegisterHTTP(r chi.Router) {
	r.Post("/api/scan", h.handleScan)
	r.Get("/api/schema/record", h.handleSchema)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// handleScan extracts the PDF uploaded in the "report" multipart field.
// POST /api/scan
func (h *HTTPHandler) handleScan(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetReqID(r.Context())
	ctx := r.Context()
	if requestID != "" {
		ctx = common.WithRequestID(ctx, requestID)
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile(UploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{RequestID: requestID, Error: "report too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{RequestID: requestID, Error: "no report uploaded"})
		return
	}
	defer func() { _ = file.Close() }()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	h.logger.Info("http.scan.start", "request_id", requestID, "filename", header.Filename, "size", header.Size)
	res, err := h.uploads.scan(ctx, requestID, file)
	if err != nil {
		code := httpStatus(err)
		h.logger.Error("http.scan.failed", "request_id", requestID, "code", code, "err", err)
		writeJSON(w, code, ErrorResponse{RequestID: requestID, Status: core.StatusFor(err), Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, ScanResponse{
		RequestID: requestID,
		Vendor:    res.Vendor,
		Status:    res.Status,
		Record:    res.Record,
	})
}

// GET /api/schema/record
func (h *HTTPHandler) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(schema.RecordSchema())
}

// httpStatus maps an extraction error to a response code.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrProvider):
		return http.StatusBadGateway
	case common.IsParseError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("failed to write response", "error", err)
	}
}
