package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ParseCacheEntry is a cached parse response keyed by the OCR text hash
type ParseCacheEntry struct {
	TextHash     string    `json:"text_hash"`
	ResponseData []byte    `json:"response_data"`
	CachedAt     time.Time `json:"cached_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ParseCacheStore handles database operations for the parse cache
type ParseCacheStore struct {
	db *sql.DB
}

// NewParseCacheStore creates a new parse cache store
func NewParseCacheStore(db *sql.DB) *ParseCacheStore {
	return &ParseCacheStore{db: db}
}

// Get returns the cached response for hash. A miss, including an expired
// entry, returns nil data and no error.
func (r *ParseCacheStore) Get(hash string) ([]byte, error) {
	query := `SELECT response_data, expires_at FROM parse_cache WHERE text_hash = ?`

	var responseData string
	var expiresAt time.Time

	err := r.db.QueryRow(query, hash).Scan(&responseData, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached response: %w", err)
	}

	if time.Now().After(expiresAt) {
		if err := r.Delete(hash); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return []byte(responseData), nil
}

// Set stores data for hash with the given TTL
func (r *ParseCacheStore) Set(hash string, data []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl)

	query := `INSERT OR REPLACE INTO parse_cache (text_hash, response_data, cached_at, expires_at)
			  VALUES (?, ?, CURRENT_TIMESTAMP, ?)`

	if _, err := r.db.Exec(query, hash, string(data), expiresAt); err != nil {
		return fmt.Errorf("failed to cache response: %w", err)
	}
	return nil
}

// Delete removes the cached entry for hash
func (r *ParseCacheStore) Delete(hash string) error {
	if _, err := r.db.Exec(`DELETE FROM parse_cache WHERE text_hash = ?`, hash); err != nil {
		return fmt.Errorf("failed to delete cached entry: %w", err)
	}
	return nil
}

// DeleteExpired removes all expired entries and reports how many went
func (r *ParseCacheStore) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM parse_cache WHERE expires_at <= ?`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired entries: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

// LoadAll loads every unexpired entry, used to warm the memory tier on startup
func (r *ParseCacheStore) LoadAll() ([]ParseCacheEntry, error) {
	query := `SELECT text_hash, response_data, cached_at, expires_at FROM parse_cache WHERE expires_at > ?`

	rows, err := r.db.Query(query, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to load cache entries: %w", err)
	}
	defer rows.Close()

	var entries []ParseCacheEntry
	for rows.Next() {
		var e ParseCacheEntry
		var data string
		if err := rows.Scan(&e.TextHash, &data, &e.CachedAt, &e.ExpiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan cache entry: %w", err)
		}
		e.ResponseData = []byte(data)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cache entries: %w", err)
	}
	return entries, nil
}

// GetStats returns the total and expired entry counts
func (r *ParseCacheStore) GetStats() (int, int, error) {
	var total, expired int

	if err := r.db.QueryRow("SELECT COUNT(*) FROM parse_cache").Scan(&total); err != nil {
		return 0, 0, fmt.Errorf("failed to get total cache entries: %w", err)
	}

	err := r.db.QueryRow("SELECT COUNT(*) FROM parse_cache WHERE expires_at <= ?", time.Now()).Scan(&expired)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get expired cache entries: %w", err)
	}

	return total, expired, nil
}
