package sqlite

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/bryanwahyu/devscreen/internal/infra/db/sqlstore"
)

// Open opens a SQLite database at the given path and configures WAL mode.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	// single writer
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return db, nil
}

var Dialect = sqlstore.Dialect{
	Name:   "sqlite",
	Upsert: sqlstore.ConflictUpsert,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS screenings (
  id                   TEXT     PRIMARY KEY,
  child_id             TEXT     NOT NULL,
  parent_id            TEXT     NOT NULL,
  status               TEXT     NOT NULL,
  child_dob            DATETIME NOT NULL,
  age_months           INTEGER  NOT NULL,
  age_group            TEXT     NOT NULL,
  questionnaire_score  INTEGER  NOT NULL,
  critical_items_count INTEGER  NOT NULL,
  risk_level           TEXT     NOT NULL,
  combined_score       INTEGER  NOT NULL,
  responses            TEXT     NOT NULL,
  videos               TEXT     NOT NULL,
  assessment           TEXT     NOT NULL,
  review               TEXT,
  created_at           DATETIME NOT NULL,
  submitted_at         DATETIME NOT NULL,
  updated_at           DATETIME NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_screenings_child ON screenings(child_id)`,
		`CREATE INDEX IF NOT EXISTS idx_screenings_parent ON screenings(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_screenings_submitted ON screenings(submitted_at)`,
	},
}

func NewScreeningRepository(db *sql.DB) *sqlstore.ScreeningRepository {
	return sqlstore.NewScreeningRepository(db, Dialect)
}
