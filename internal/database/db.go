// Copyright 2024 Package Tracking System
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// DB wraps the sql.DB connection and provides access to stores
type DB struct {
	*sql.DB
	Extractions *ExtractionStore
	ParseCache  *ParseCacheStore
}

// Open opens a database connection and initializes stores
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL lets the audit writer and API readers proceed together
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	database := &DB{
		DB:          db,
		Extractions: NewExtractionStore(db),
		ParseCache:  NewParseCacheStore(db),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

// migrate creates the database schema
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS extractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id TEXT NOT NULL DEFAULT '',
		document_type TEXT NOT NULL,
		bl_number TEXT NOT NULL DEFAULT '',
		confidence REAL NOT NULL DEFAULT 0,
		raw_text_hash TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		response_data TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS parse_cache (
		text_hash TEXT PRIMARY KEY,
		response_data TEXT NOT NULL,
		cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_extractions_document ON extractions(document_id);
	CREATE INDEX IF NOT EXISTS idx_extractions_hash ON extractions(raw_text_hash);
	CREATE INDEX IF NOT EXISTS idx_extractions_bl ON extractions(bl_number);
	CREATE INDEX IF NOT EXISTS idx_parse_cache_expires ON parse_cache(expires_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
