package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"bl-extractor/internal/document"
)

// maxBodyBytes bounds request bodies; text requests carry up to
// document.MaxTextSize bytes plus JSON framing
const maxBodyBytes = document.MaxTextSize + 64<<10

// Parser is the document service as seen by the HTTP layer
type Parser interface {
	Parse(ctx context.Context, in document.DocumentInput) (*document.ExtractionResponse, error)
	ParseText(ctx context.Context, in document.TextInput) (*document.ExtractionResponse, error)
}

// ParseHandler handles document parse requests
type ParseHandler struct {
	parser Parser
	logger *slog.Logger
}

// NewParseHandler creates a new parse handler
func NewParseHandler(parser Parser, logger *slog.Logger) *ParseHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseHandler{parser: parser, logger: logger}
}

// ParseDocument handles POST /api/v1/parse/document
func (h *ParseHandler) ParseDocument(w http.ResponseWriter, r *http.Request) {
	var in document.DocumentInput
	if !h.decode(w, r, &in) {
		return
	}

	resp, err := h.parser.Parse(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ParseText handles POST /api/v1/parse/text
func (h *ParseHandler) ParseText(w http.ResponseWriter, r *http.Request) {
	var in document.TextInput
	if !h.decode(w, r, &in) {
		return
	}

	resp, err := h.parser.ParseText(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ParseHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.logger.Warn("Invalid JSON in parse request", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}

func (h *ParseHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, document.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "document processing timed out")
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body
		h.logger.Debug("Parse request cancelled", "path", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("Failed to parse document", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to parse document")
	}
}
