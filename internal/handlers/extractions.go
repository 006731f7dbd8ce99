package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bl-extractor/internal/database"
	"bl-extractor/internal/document"
)

// ExtractionReader reads the extraction audit log
type ExtractionReader interface {
	List(filter database.ExtractionFilter) ([]database.Extraction, error)
	Count(filter database.ExtractionFilter) (int, error)
	GetByID(id int64) (*database.Extraction, error)
}

// ExtractionList is one page of the audit log
type ExtractionList struct {
	Extractions []database.Extraction `json:"extractions"`
	Total       int                   `json:"total"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
}

// ExtractionDetail is one audit row with the response it recorded
type ExtractionDetail struct {
	database.Extraction
	Response json.RawMessage `json:"response"`
}

// ExtractionsHandler serves the extraction audit log
type ExtractionsHandler struct {
	store  ExtractionReader
	logger *slog.Logger
}

// NewExtractionsHandler creates a new extractions handler
func NewExtractionsHandler(store ExtractionReader, logger *slog.Logger) *ExtractionsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractionsHandler{store: store, logger: logger}
}

// ListExtractions handles GET /api/v1/extractions
func (h *ExtractionsHandler) ListExtractions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := database.ExtractionFilter{
		DocumentID: query.Get("document_id"),
		BLNumber:   query.Get("bl_number"),
	}

	var err error
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if filter.Offset, err = intParam(query.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	extractions, err := h.store.List(filter)
	if err != nil {
		h.logger.Error("Failed to list extractions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list extractions")
		return
	}

	total, err := h.store.Count(filter)
	if err != nil {
		h.logger.Error("Failed to count extractions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list extractions")
		return
	}

	writeJSON(w, http.StatusOK, ExtractionList{
		Extractions: extractions,
		Total:       total,
		Limit:       filter.PageLimit(),
		Offset:      filter.Offset,
	})
}

// GetExtraction handles GET /api/v1/extractions/{id}
func (h *ExtractionsHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid extraction ID")
		return
	}

	extraction, err := h.store.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			writeError(w, http.StatusNotFound, "extraction not found")
			return
		}
		h.logger.Error("Failed to get extraction", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get extraction")
		return
	}

	detail := ExtractionDetail{Extraction: *extraction}
	if json.Valid([]byte(extraction.ResponseData)) {
		detail.Response = json.RawMessage(extraction.ResponseData)
	} else {
		h.logger.Warn("Stored response is not valid JSON", "id", id)
		detail.Response = json.RawMessage("null")
	}

	writeJSON(w, http.StatusOK, detail)
}

// intParam parses an optional non-negative integer query parameter
func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// compile-time check that the SQLite store satisfies the reader
var _ ExtractionReader = (*database.ExtractionStore)(nil)

// compile-time check that the service satisfies the parser
var _ Parser = (*document.Service)(nil)
