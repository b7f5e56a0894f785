package app

import (
	"strings"

	"github.com/aedstrom/kursbord/internal/store"
	"github.com/aedstrom/kursbord/internal/store/postgres"
	"github.com/aedstrom/kursbord/internal/store/sqlite"
)

// NewStore picks the backend from the DSN scheme: postgres:// URLs go
// to Postgres, anything else is treated as a SQLite path.
func NewStore(dsn string) (store.ScoreStore, error) {
	if strings.HasPrefix(dsn, "postgres") {
		return postgres.NewPostgresStore(dsn)
	}
	return sqlite.NewSQLiteStore(dsn)
}
