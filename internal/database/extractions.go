package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Extraction is one audited parse request and its response
type Extraction struct {
	ID           int64     `json:"id"`
	DocumentID   string    `json:"document_id"`
	DocumentType string    `json:"document_type"`
	BLNumber     string    `json:"bl_number"`
	Confidence   float64   `json:"confidence"`
	RawTextHash  string    `json:"raw_text_hash"`
	Source       string    `json:"source"`
	ResponseData string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExtractionFilter narrows List results; zero values mean no filter
type ExtractionFilter struct {
	DocumentID string
	BLNumber   string
	Limit      int
	Offset     int
}

// List page sizes
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// PageLimit is the row limit List applies for f
func (f ExtractionFilter) PageLimit() int {
	if f.Limit <= 0 || f.Limit > MaxListLimit {
		return DefaultListLimit
	}
	return f.Limit
}

func (f ExtractionFilter) where() (string, []any) {
	clause := ` WHERE 1=1`
	var args []any
	if f.DocumentID != "" {
		clause += ` AND document_id = ?`
		args = append(args, f.DocumentID)
	}
	if f.BLNumber != "" {
		clause += ` AND bl_number = ?`
		args = append(args, f.BLNumber)
	}
	return clause, args
}

// ExtractionStore handles database operations for the extraction audit log
type ExtractionStore struct {
	db *sql.DB
}

// NewExtractionStore creates a new extraction store
func NewExtractionStore(db *sql.DB) *ExtractionStore {
	return &ExtractionStore{db: db}
}

const extractionColumns = `id, document_id, document_type, bl_number, confidence, raw_text_hash, source, response_data, created_at`

// Create inserts e and fills in its ID and creation time
func (s *ExtractionStore) Create(e *Extraction) error {
	query := `INSERT INTO extractions (document_id, document_type, bl_number, confidence, raw_text_hash, source, response_data, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	result, err := s.db.Exec(query, e.DocumentID, e.DocumentType, e.BLNumber, e.Confidence, e.RawTextHash, e.Source, e.ResponseData, now)
	if err != nil {
		return fmt.Errorf("failed to create extraction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read extraction id: %w", err)
	}

	e.ID = id
	e.CreatedAt = now
	return nil
}

// GetByID returns the extraction with the given ID
func (s *ExtractionStore) GetByID(id int64) (*Extraction, error) {
	query := `SELECT ` + extractionColumns + ` FROM extractions WHERE id = ?`
	return s.scanOne(s.db.QueryRow(query, id))
}

// GetLatestByHash returns the newest extraction for a text hash
func (s *ExtractionStore) GetLatestByHash(hash string) (*Extraction, error) {
	query := `SELECT ` + extractionColumns + ` FROM extractions WHERE raw_text_hash = ? ORDER BY id DESC LIMIT 1`
	return s.scanOne(s.db.QueryRow(query, hash))
}

// List returns extractions newest first
func (s *ExtractionStore) List(filter ExtractionFilter) ([]Extraction, error) {
	where, args := filter.where()
	query := `SELECT ` + extractionColumns + ` FROM extractions` + where

	query += ` ORDER BY id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.PageLimit(), max(filter.Offset, 0))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list extractions: %w", err)
	}
	defer rows.Close()

	extractions := []Extraction{}
	for rows.Next() {
		var e Extraction
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.DocumentType, &e.BLNumber, &e.Confidence,
			&e.RawTextHash, &e.Source, &e.ResponseData, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan extraction: %w", err)
		}
		extractions = append(extractions, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating extractions: %w", err)
	}
	return extractions, nil
}

// Count returns the number of audited extractions matching the filter,
// ignoring its Limit and Offset
func (s *ExtractionStore) Count(filter ExtractionFilter) (int, error) {
	where, args := filter.where()
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM extractions`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count extractions: %w", err)
	}
	return count, nil
}

func (s *ExtractionStore) scanOne(row *sql.Row) (*Extraction, error) {
	var e Extraction
	err := row.Scan(&e.ID, &e.DocumentID, &e.DocumentType, &e.BLNumber, &e.Confidence,
		&e.RawTextHash, &e.Source, &e.ResponseData, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get extraction: %w", err)
	}
	return &e, nil
}
