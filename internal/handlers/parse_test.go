package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bl-extractor/internal/classifier"
	"bl-extractor/internal/document"
)

func TestParseHandler_ParseDocument(t *testing.T) {
	db := setupTestDB(t)
	handler := NewParseHandler(newTestService(db, "BILL OF LADING\nB/L NO: MEDU1234567"), nil)

	body := `{"document_id":"doc-42","file_url":"https://files.example.com/bl.pdf","hint":"bill_of_lading"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/document", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ParseDocument(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp document.ExtractionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "doc-42", resp.DocumentID)
	assert.Equal(t, classifier.TypeBL, resp.DocumentType)
	assert.Equal(t, "MEDU1234567", resp.BLNumber())
	assert.NotZero(t, resp.ExtractionID)
}

func TestParseHandler_ParseDocumentWithoutHint(t *testing.T) {
	db := setupTestDB(t)
	handler := NewParseHandler(newTestService(db, "BILL OF LADING\nB/L NO: MEDU1234567"), nil)

	body := `{"document_id":"doc-43","file_url":"https://files.example.com/bl.pdf"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/document", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ParseDocument(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp document.ExtractionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, classifier.TypeUnknown, resp.DocumentType)
	assert.Empty(t, resp.BLNumber())
	assert.Empty(t, resp.Fields)
	assert.Empty(t, resp.RawTextSnippet)
	assert.Nil(t, resp.Extraction)
}

func TestParseHandler_ParseText(t *testing.T) {
	db := setupTestDB(t)
	handler := NewParseHandler(newTestService(db, ""), nil)

	body := `{"document_id":"doc-7","text":"b/l no: medu1234567"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse/text", strings.NewReader(body))
	w := httptest.NewRecorder()

	handler.ParseText(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp document.ExtractionResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "MEDU1234567", resp.BLNumber())
	assert.InDelta(t, 0.8, resp.Confidence, 0.0001)
}

func TestParseHandler_Errors(t *testing.T) {
	db := setupTestDB(t)
	handler := NewParseHandler(newTestService(db, ""), nil)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"malformed json", "/api/v1/parse/document", `{"file_url":`, http.StatusBadRequest},
		{"missing url", "/api/v1/parse/document", `{"document_id":"d"}`, http.StatusBadRequest},
		{"relative url", "/api/v1/parse/document", `{"file_url":"/tmp/bl.pdf"}`, http.StatusBadRequest},
		{"long document id", "/api/v1/parse/text", `{"document_id":"` + strings.Repeat("d", document.MaxDocumentIDLength+1) + `","text":"x"}`, http.StatusBadRequest},
		{"text over limit", "/api/v1/parse/text", `{"text":"` + strings.Repeat("A", document.MaxTextSize+1) + `"}`, http.StatusBadRequest},
		{"oversized body", "/api/v1/parse/text", `{"text":"` + strings.Repeat("A", maxBodyBytes) + `"}`, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			if strings.HasSuffix(tt.path, "/text") {
				handler.ParseText(w, req)
			} else {
				handler.ParseDocument(w, req)
			}

			assert.Equal(t, tt.status, w.Code)

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResp))
			assert.Equal(t, tt.status, errResp.Code)
			assert.NotEmpty(t, errResp.Message)
		})
	}
}
