package postgres

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/aedstrom/kursbord/internal/models"
	"github.com/aedstrom/kursbord/internal/store"
)

type PostgresStore struct {
	store.BaseStore
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &PostgresStore{BaseStore: store.BaseStore{
		DB: db,
		Converter: func(query string) string {
			out := query
			for i := 1; strings.Contains(out, "?"); i++ {
				out = strings.Replace(out, "?", fmt.Sprintf("$%d", i), 1)
			}
			return out
		},
	}}, nil
}

func (s *PostgresStore) ApplyMigrations(dir string) error {
	return s.BaseStore.ApplyMigrations(dir, nil)
}

// UpsertScore is a single INSERT ... ON CONFLICT statement, so two
// concurrent submissions for the same (email, course_name) can never
// both take the insert arm. The update arm bumps revision, so revision
// stays 0 only for a freshly inserted row, which distinguishes creation
// from update without any timestamp assumptions.
func (s *PostgresStore) UpsertScore(rec *models.ScoreRecord) (bool, error) {
	var created bool
	err := s.DB.Get(&created, `
		INSERT INTO scores (name, email, course_name, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (email, course_name) DO UPDATE SET
			name = EXCLUDED.name,
			score = EXCLUDED.score,
			updated_at = EXCLUDED.updated_at,
			revision = scores.revision + 1
		RETURNING (revision = 0) AS created
	`, rec.Name, rec.Email, rec.CourseName, rec.Score, rec.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return false, store.ErrConflict
		}
		return false, fmt.Errorf("failed to upsert score: %w", err)
	}

	return created, nil
}
