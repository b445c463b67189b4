package mysql

import (
	"database/sql"

	"github.com/bryanwahyu/devscreen/internal/infra/db/sqlstore"
)

// Dialect for MySQL 8. The DSN must carry parseTime=true.
var Dialect = sqlstore.Dialect{
	Name: "mysql",
	Upsert: `
ON DUPLICATE KEY UPDATE
 status=VALUES(status),
 review=VALUES(review),
 updated_at=VALUES(updated_at)`,
	Schema: []string{`
CREATE TABLE IF NOT EXISTS screenings (
  id                   VARCHAR(64)  NOT NULL PRIMARY KEY,
  child_id             VARCHAR(128) NOT NULL,
  parent_id            VARCHAR(128) NOT NULL,
  status               VARCHAR(32)  NOT NULL,
  child_dob            DATETIME     NOT NULL,
  age_months           INT          NOT NULL,
  age_group            VARCHAR(32)  NOT NULL,
  questionnaire_score  INT          NOT NULL,
  critical_items_count INT          NOT NULL,
  risk_level           VARCHAR(16)  NOT NULL,
  combined_score       INT          NOT NULL,
  responses            JSON         NOT NULL,
  videos               JSON         NOT NULL,
  assessment           JSON         NOT NULL,
  review               JSON         NULL,
  created_at           DATETIME(6)  NOT NULL,
  submitted_at         DATETIME(6)  NOT NULL,
  updated_at           DATETIME(6)  NOT NULL,
  INDEX idx_screenings_child (child_id, submitted_at),
  INDEX idx_screenings_parent (parent_id, submitted_at),
  INDEX idx_screenings_submitted (submitted_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

func NewScreeningRepository(db *sql.DB) *sqlstore.ScreeningRepository {
	return sqlstore.NewScreeningRepository(db, Dialect)
}
