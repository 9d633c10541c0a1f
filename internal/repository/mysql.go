package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// MySQLStorage persists browser storage in the browser_storage table.
type MySQLStorage struct {
	db *sql.DB
}

// NewMySQLStorage creates a new MySQLStorage.
func NewMySQLStorage(db *sql.DB) *MySQLStorage {
	return &MySQLStorage{db: db}
}

func (s *MySQLStorage) Get(ctx context.Context, sid, key string) (string, error) {
	query := `SELECT item_value FROM browser_storage WHERE sid = ? AND item_key = ?`

	var value string
	if err := s.db.QueryRowContext(ctx, query, sid, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *MySQLStorage) Set(ctx context.Context, sid, key, value string) error {
	query := `INSERT INTO browser_storage (sid, item_key, item_value) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE item_value = VALUES(item_value)`

	_, err := s.db.ExecContext(ctx, query, sid, key, value)
	return err
}

func (s *MySQLStorage) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args := deleteQuery(sid, keys)
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// deleteQuery builds the DELETE statement for a set of keys.
func deleteQuery(sid string, keys []string) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]any, 0, len(keys)+1)
	args = append(args, sid)
	for _, k := range keys {
		args = append(args, k)
	}
	return `DELETE FROM browser_storage WHERE sid = ? AND item_key IN (` + placeholders + `)`, args
}
