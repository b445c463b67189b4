package postgres

import (
	"database/sql"

	"github.com/bryanwahyu/devscreen/internal/infra/db/sqlstore"
)

var Dialect = sqlstore.Dialect{
	Name:     "postgres",
	Numbered: true,
	Upsert:   sqlstore.ConflictUpsert,
	Schema: []string{
		`CREATE TABLE IF NOT EXISTS screenings (
  id                   TEXT        PRIMARY KEY,
  child_id             TEXT        NOT NULL,
  parent_id            TEXT        NOT NULL,
  status               TEXT        NOT NULL,
  child_dob            TIMESTAMPTZ NOT NULL,
  age_months           INTEGER     NOT NULL,
  age_group            TEXT        NOT NULL,
  questionnaire_score  INTEGER     NOT NULL,
  critical_items_count INTEGER     NOT NULL,
  risk_level           TEXT        NOT NULL,
  combined_score       INTEGER     NOT NULL,
  responses            JSONB       NOT NULL,
  videos               JSONB       NOT NULL,
  assessment           JSONB       NOT NULL,
  review               JSONB,
  created_at           TIMESTAMPTZ NOT NULL,
  submitted_at         TIMESTAMPTZ NOT NULL,
  updated_at           TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_screenings_child ON screenings (child_id, submitted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_screenings_parent ON screenings (parent_id, submitted_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_screenings_submitted ON screenings (submitted_at DESC)`,
	},
}

func NewScreeningRepository(db *sql.DB) *sqlstore.ScreeningRepository {
	return sqlstore.NewScreeningRepository(db, Dialect)
}
