package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"

	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
)

type ScreeningRepository struct {
	db *sql.DB
	d  Dialect
}

func NewScreeningRepository(db *sql.DB, d Dialect) *ScreeningRepository {
	return &ScreeningRepository{db: db, d: d}
}

// Migrate creates the screenings table and its indexes.
func (r *ScreeningRepository) Migrate(ctx context.Context) error {
	for _, stmt := range r.d.Schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return eris.Wrapf(err, "%s: migrate", r.d.Name)
		}
	}
	return nil
}

func (r *ScreeningRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const columns = `id, child_id, parent_id, status, child_dob, age_months, age_group,
 questionnaire_score, critical_items_count, risk_level, combined_score,
 responses, videos, assessment, review, created_at, submitted_at, updated_at`

// Save insert/update Screening record
func (r *ScreeningRepository) Save(ctx context.Context, s *domain.Screening) error {
	b, err := encode(s)
	if err != nil {
		return err
	}
	created := s.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	var review any
	if b.review != nil {
		review = string(b.review)
	}

	q := r.d.rebind(`INSERT INTO screenings (` + columns + `)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)` + r.d.Upsert)

	_, err = r.db.ExecContext(ctx, q,
		string(s.ID), s.ChildID, s.ParentID, string(s.Status), s.ChildDOB.UTC(), s.AgeMonths, string(s.Bracket),
		s.QuestionnaireScore, s.CriticalItemsCount, string(s.Assessment.Level), s.Assessment.CombinedScore,
		string(b.responses), string(b.videos), string(b.assessment), review,
		created.UTC(), s.SubmittedAt.UTC(), s.UpdatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "%s: save screening %s", r.d.Name, s.ID)
	}
	return nil
}

func (r *ScreeningRepository) Get(ctx context.Context, id domain.ID) (*domain.Screening, error) {
	q := r.d.rebind(`SELECT ` + columns + ` FROM screenings WHERE id=? LIMIT 1`)
	s, err := scanScreening(r.db.QueryRowContext(ctx, q, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrapf(domain.ErrNotFound, "screening %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "%s: get screening %s", r.d.Name, id)
	}
	return s, nil
}

func (r *ScreeningRepository) ListByChild(ctx context.Context, childID string) ([]*domain.Screening, error) {
	return r.list(ctx, `WHERE child_id=? ORDER BY submitted_at DESC, id`, childID)
}

func (r *ScreeningRepository) ListByParent(ctx context.Context, parentID string) ([]*domain.Screening, error) {
	return r.list(ctx, `WHERE parent_id=? ORDER BY submitted_at DESC, id`, parentID)
}

// Paginate with offset + limit (classic pagination)
func (r *ScreeningRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Screening, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM screenings`).Scan(&total); err != nil {
		return nil, 0, eris.Wrapf(err, "%s: count screenings", r.d.Name)
	}
	items, err := r.list(ctx, `ORDER BY submitted_at DESC, id LIMIT ? OFFSET ?`, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ScreeningRepository) list(ctx context.Context, tail string, args ...any) ([]*domain.Screening, error) {
	q := r.d.rebind(`SELECT ` + columns + ` FROM screenings ` + tail)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "%s: query screenings", r.d.Name)
	}
	defer rows.Close()

	out := []*domain.Screening{}
	for rows.Next() {
		s, err := scanScreening(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "%s: scan screening", r.d.Name)
		}
		out = append(out, s)
	}
	return out, eris.Wrapf(rows.Err(), "%s: iterate screenings", r.d.Name)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScreening(row scanner) (*domain.Screening, error) {
	var s domain.Screening
	// risk_level and combined_score are denormalized for querying; the assessment blob is authoritative.
	var id, status, bracket, level string
	var combined int
	var b blobs
	if err := row.Scan(
		&id, &s.ChildID, &s.ParentID, &status, &s.ChildDOB, &s.AgeMonths, &bracket,
		&s.QuestionnaireScore, &s.CriticalItemsCount, &level, &combined,
		&b.responses, &b.videos, &b.assessment, &b.review,
		&s.CreatedAt, &s.SubmittedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.ID = domain.ID(id)
	s.Status = domain.Status(status)
	s.Bracket = questionnaire.Bracket(bracket)
	if err := b.decodeInto(&s); err != nil {
		return nil, err
	}
	s.ChildDOB = s.ChildDOB.UTC()
	s.CreatedAt = s.CreatedAt.UTC()
	s.SubmittedAt = s.SubmittedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}
