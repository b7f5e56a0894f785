package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/aedstrom/kursbord/internal/models"
	"github.com/aedstrom/kursbord/internal/store"
)

type SQLiteStore struct {
	store.BaseStore
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite: %w", err)
	}

	// single writer: keeps concurrent upserts from hitting SQLITE_BUSY
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &SQLiteStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			return query
		},
	}}, nil
}

func (s *SQLiteStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, translateToSQLite)
}

// translateToSQLite converts Postgres SQL to SQLite dialect. Ordered
// pairs, longest phrase first, so BIGSERIAL PRIMARY KEY is rewritten
// before a bare PRIMARY KEY match could mangle it.
func translateToSQLite(sql string) string {
	replacements := [][2]string{
		{"BIGSERIAL PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"DOUBLE PRECISION", "REAL"},
		{"TIMESTAMPTZ", "DATETIME"},
		{"BIGINT", "INTEGER"},
		{"now()", "CURRENT_TIMESTAMP"},
	}
	result := sql
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r[0], r[1])
	}
	return result
}

// UpsertScore mirrors the Postgres store: revision stays 0 only for a
// freshly inserted row, the update arm bumps it, so creation detection
// holds even when an update carries a timestamp equal to the stored
// created_at.
func (s *SQLiteStore) UpsertScore(rec *models.ScoreRecord) (bool, error) {
	// SQLite has no boolean type, the comparison comes back as 0/1
	var created int
	err := s.DB.Get(&created, `
		INSERT INTO scores (name, email, course_name, score, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (email, course_name) DO UPDATE SET
			name = excluded.name,
			score = excluded.score,
			updated_at = excluded.updated_at,
			revision = revision + 1
		RETURNING revision = 0 AS created
	`, rec.Name, rec.Email, rec.CourseName, rec.Score, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		if sqliteErr, ok := err.(sqlite3.Error); ok && sqliteErr.Code == sqlite3.ErrConstraint {
			return false, store.ErrConflict
		}
		return false, fmt.Errorf("failed to upsert score: %w", err)
	}

	return created == 1, nil
}
