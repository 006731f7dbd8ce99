package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bl-extractor/internal/database"
	"bl-extractor/internal/document"
)

func seedExtractions(t *testing.T, db *database.DB) {
	svc := newTestService(db, "")
	for _, in := range []document.TextInput{
		{DocumentID: "doc-1", Text: "B/L NO: MEDU1234567"},
		{DocumentID: "doc-1", Text: "INVOICE 12"},
		{DocumentID: "doc-2", Text: "BILL OF LADING NO: HLCU123456789"},
	} {
		_, err := svc.ParseText(context.Background(), in)
		require.NoError(t, err)
	}
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestExtractionsHandler_List(t *testing.T) {
	db := setupTestDB(t)
	seedExtractions(t, db)
	handler := NewExtractionsHandler(db.Extractions, nil)

	t.Run("All", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListExtractions(w, httptest.NewRequest(http.MethodGet, "/api/v1/extractions", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var list ExtractionList
		require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
		assert.Len(t, list.Extractions, 3)
		assert.Equal(t, 3, list.Total)
		assert.Equal(t, database.DefaultListLimit, list.Limit)
		assert.Equal(t, "doc-2", list.Extractions[0].DocumentID)
	})

	t.Run("FilteredAndPaged", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListExtractions(w, httptest.NewRequest(http.MethodGet, "/api/v1/extractions?document_id=doc-1&limit=1&offset=1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var list ExtractionList
		require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
		assert.Len(t, list.Extractions, 1)
		assert.Equal(t, 2, list.Total)
		assert.Equal(t, 1, list.Limit)
		assert.Equal(t, 1, list.Offset)
	})

	t.Run("ByBLNumber", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListExtractions(w, httptest.NewRequest(http.MethodGet, "/api/v1/extractions?bl_number=HLCU123456789", nil))

		var list ExtractionList
		require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
		require.Len(t, list.Extractions, 1)
		assert.Equal(t, "doc-2", list.Extractions[0].DocumentID)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListExtractions(w, httptest.NewRequest(http.MethodGet, "/api/v1/extractions?limit=-3", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExtractionsHandler_Get(t *testing.T) {
	db := setupTestDB(t)
	seedExtractions(t, db)
	handler := NewExtractionsHandler(db.Extractions, nil)

	t.Run("Found", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/extractions/1", nil), "id", "1")
		w := httptest.NewRecorder()
		handler.GetExtraction(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var detail struct {
			database.Extraction
			Response document.ExtractionResponse `json:"response"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&detail))
		assert.Equal(t, int64(1), detail.ID)
		assert.Equal(t, "MEDU1234567", detail.BLNumber)
		assert.Equal(t, "MEDU1234567", detail.Response.BLNumber())
	})

	t.Run("NotFound", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/extractions/999", nil), "id", "999")
		w := httptest.NewRecorder()
		handler.GetExtraction(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/extractions/abc", nil), "id", "abc")
		w := httptest.NewRecorder()
		handler.GetExtraction(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
