package handlers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"bl-extractor/internal/database"
	"bl-extractor/internal/document"
)

type stubOCR struct {
	text string
	err  error
}

func (s stubOCR) TextFromURL(ctx context.Context, url string) (string, error) {
	return s.text, s.err
}

func setupTestDB(t *testing.T) *database.DB {
	db, err := database.Open(filepath.Join(t.TempDir(), "handlers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(db *database.DB, ocrText string) *document.Service {
	return document.NewService(nil, stubOCR{text: ocrText}, document.WithAuditStore(db.Extractions))
}
