package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/aedstrom/kursbord/internal/models"
)

// ErrConflict reports a uniqueness violation raised by the database
// itself, as opposed to the update arm of the upsert.
var ErrConflict = errors.New("score record conflicts with an existing one")

type ScoreStore interface {
	Close() error
	ApplyMigrations(dir string) error

	// UpsertScore writes rec atomically, keyed on (email, course_name).
	// Reports whether a new record was created rather than an existing
	// one updated.
	UpsertScore(rec *models.ScoreRecord) (created bool, err error)

	// FetchScoresByEmail returns every record for the email, oldest
	// first (created_at ascending). An unknown email yields an empty
	// slice, not an error.
	FetchScoresByEmail(email string) ([]models.ScoreRecord, error)
}

// BaseStore provides common functionality for different DB implementations
type BaseStore struct {
	DB        *sqlx.DB
	Converter func(string) string
}

func (s *BaseStore) Close() error {
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

// ApplyMigrations applies SQL migrations from a directory, translating dialect if needed
func (s *BaseStore) ApplyMigrations(dir string, translateSQL func(string) string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		content, err := os.ReadFile(fmt.Sprintf("%s/%s", dir, file.Name()))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file.Name(), err)
		}

		sql := string(content)
		if translateSQL != nil {
			sql = translateSQL(sql)
		}

		if _, err := s.DB.Exec(sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Name(), err)
		}
	}

	return nil
}

func (s *BaseStore) FetchScoresByEmail(email string) ([]models.ScoreRecord, error) {
	var records []models.ScoreRecord
	query := s.Converter(`
		SELECT id, name, email, course_name, score, created_at, updated_at
		FROM scores
		WHERE email = ?
		ORDER BY created_at ASC
	`)

	err := s.DB.Select(&records, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	return records, nil
}
