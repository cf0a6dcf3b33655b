package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Store is a JSON key-value collection stored in the kv table
type Store struct {
	db        *Database
	namespace string
}

// NewStore creates a Store for one namespace
func NewStore(db *Database, namespace string) *Store {
	return &Store{db: db, namespace: namespace}
}

// Get decodes the value for key into v and reports whether it exists
func (s *Store) Get(key string, v any) (bool, error) {
	raw, found, err := s.GetRaw(key)
	if err != nil || !found {
		return found, err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return true, fmt.Errorf("failed to decode %s/%s: %w", s.namespace, key, err)
	}
	return true, nil
}

// GetRaw returns the stored JSON for key
func (s *Store) GetRaw(key string) (json.RawMessage, bool, error) {
	query := `SELECT value FROM kv WHERE namespace = ? AND key = ?`

	var raw string
	err := s.db.GetDB().QueryRow(query, s.namespace, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get %s/%s: %w", s.namespace, key, err)
	}
	return json.RawMessage(raw), true, nil
}

// Set stores v as JSON under key
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", s.namespace, key, err)
	}

	query := `
		INSERT INTO kv (namespace, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := s.db.GetDB().Exec(query, s.namespace, key, string(data), time.Now()); err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// GetAll returns every raw value in the namespace keyed by key
func (s *Store) GetAll() (map[string]json.RawMessage, error) {
	query := `SELECT key, value FROM kv WHERE namespace = ? ORDER BY key`

	rows, err := s.db.GetDB().Query(query, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.namespace, err)
	}
	defer rows.Close()

	values := make(map[string]json.RawMessage)
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", s.namespace, err)
		}
		values[key] = json.RawMessage(raw)
	}

	return values, rows.Err()
}

// Count returns the number of keys in the namespace
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.GetDB().QueryRow(`SELECT COUNT(*) FROM kv WHERE namespace = ?`, s.namespace).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.namespace, err)
	}
	return n, nil
}
