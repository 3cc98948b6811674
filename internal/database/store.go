package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hypersonic/internal/models"
)

// SQLiteStore keeps the app data document as a JSON blob in a single row.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns nil when no document has been saved yet.
func (s *SQLiteStore) Load() (*models.AppData, error) {
	var doc string
	err := s.db.QueryRow("SELECT document FROM app_data WHERE id = 1").Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read app data: %w", err)
	}

	var data models.AppData
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return nil, fmt.Errorf("failed to parse app data: %w", err)
	}
	data.Normalize()
	return &data, nil
}

// Save replaces the stored document. Last write wins.
func (s *SQLiteStore) Save(data *models.AppData) error {
	doc, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal app data: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO app_data (id, document, last_reset_date, updated_at)
		VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
		document = excluded.document,
		last_reset_date = excluded.last_reset_date,
		updated_at = CURRENT_TIMESTAMP`,
		string(doc), data.LastResetDate,
	)
	if err != nil {
		return fmt.Errorf("failed to write app data: %w", err)
	}
	return nil
}
