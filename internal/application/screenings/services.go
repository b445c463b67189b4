package screenings

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/devscreen/internal/application"
	"github.com/bryanwahyu/devscreen/internal/application/assessment"
	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// ErrInvalidCommand marks caller input that failed validation.
var ErrInvalidCommand = eris.New("invalid screening command")

// Assessor is the engine seam; *assessment.Engine satisfies it.
type Assessor interface {
	Assess(ctx context.Context, req assessment.Request) (assessment.Result, error)
}

// Service implements use-cases untuk Screening
// Service is designed to be used concurrently and is thread-safe
type Service struct {
	Repo    domain.Repository
	Engine  Assessor
	Catalog *questionnaire.Catalog
	Clock   application.Clock
}

//
// ==== USE CASES ====
//

// Command untuk submit screening
type SubmitCommand struct {
	ChildID     string
	ParentID    string
	DateOfBirth time.Time
	// Responses need only QuestionID and Answer; points are looked up.
	Responses       []questionnaire.Response
	Videos          []domain.VideoReference
	Recommendations []string
}

// Submit scores and assesses a submission, then persists it once.
// Nothing is saved when assessment fails.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (*domain.Screening, error) {
	if strings.TrimSpace(cmd.ChildID) == "" || strings.TrimSpace(cmd.ParentID) == "" {
		return nil, eris.Wrap(ErrInvalidCommand, "child_id and parent_id are required")
	}
	if cmd.DateOfBirth.IsZero() {
		return nil, eris.Wrap(ErrInvalidCommand, "date of birth is required")
	}
	for _, v := range cmd.Videos {
		if !v.Category.Valid() {
			return nil, eris.Wrapf(domain.ErrInvalidVideo, "unknown category %q", v.Category)
		}
	}

	now := s.Clock.Now()
	def, err := s.Catalog.ForAge(cmd.DateOfBirth, now)
	if err != nil {
		return nil, err
	}
	responses, err := resolveAll(def, cmd.Responses)
	if err != nil {
		return nil, err
	}

	videos := make([]domain.VideoReference, len(cmd.Videos))
	for i, v := range cmd.Videos {
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if v.UploadedAt.IsZero() {
			v.UploadedAt = now
		}
		videos[i] = v
	}

	res, err := s.Engine.Assess(ctx, assessment.Request{
		DateOfBirth:     cmd.DateOfBirth,
		Responses:       responses,
		Videos:          videos,
		Recommendations: cmd.Recommendations,
		Now:             now,
	})
	if err != nil {
		return nil, err
	}

	sc := &domain.Screening{
		ID:                 domain.ID(uuid.NewString()),
		ChildID:            cmd.ChildID,
		ParentID:           cmd.ParentID,
		Status:             domain.StatusSubmitted,
		ChildDOB:           cmd.DateOfBirth,
		AgeMonths:          res.AgeMonths,
		Bracket:            res.Bracket,
		Responses:          responses,
		QuestionnaireScore: res.Questionnaire.TotalScore,
		CriticalItemsCount: res.Questionnaire.CriticalItemsCount,
		Videos:             videos,
		Assessment:         res.Assessment,
		CreatedAt:          now,
		SubmittedAt:        now,
		UpdatedAt:          now,
	}
	if err := s.Repo.Save(ctx, sc); err != nil {
		return nil, eris.Wrap(err, "screenings: save")
	}

	zap.L().Info("screening submitted",
		zap.String("screening_id", string(sc.ID)),
		zap.String("age_group", string(sc.Bracket)),
		zap.String("level", string(sc.Assessment.Level)),
		zap.Int("combined_score", sc.Assessment.CombinedScore),
	)
	return sc, nil
}

func resolveAll(def questionnaire.Definition, in []questionnaire.Response) ([]questionnaire.Response, error) {
	out := make([]questionnaire.Response, 0, len(in))
	for _, r := range in {
		resolved, err := def.Resolve(r.QuestionID, r.Answer)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	if err := def.ValidateResponses(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Questionnaire returns the questionnaire a child of this age should answer.
func (s *Service) Questionnaire(dob time.Time) (questionnaire.Definition, error) {
	return s.Catalog.ForAge(dob, s.Clock.Now())
}

func (s *Service) Get(ctx context.Context, id domain.ID) (*domain.Screening, error) {
	sc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, eris.Wrapf(domain.ErrNotFound, "screening %s", id)
	}
	return sc, nil
}

func (s *Service) ListByChild(ctx context.Context, childID string) ([]*domain.Screening, error) {
	return s.Repo.ListByChild(ctx, childID)
}

func (s *Service) ListByParent(ctx context.Context, parentID string) ([]*domain.Screening, error) {
	return s.Repo.ListByParent(ctx, parentID)
}

// ListSubmitted pages through every screening for the clinician queue.
func (s *Service) ListSubmitted(ctx context.Context, page, pageSize int) (domain.Page, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	items, total, err := s.Repo.Paginate(ctx, page, pageSize)
	if err != nil {
		return domain.Page{}, err
	}
	if items == nil {
		items = []*domain.Screening{}
	}
	return domain.Page{
		Data:       items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// UpdateStatus → pindah status tanpa review (misalnya "under_review")
func (s *Service) UpdateStatus(ctx context.Context, id domain.ID, status domain.Status) (*domain.Screening, error) {
	if status == domain.StatusActioned {
		return nil, eris.Wrap(domain.ErrInvalidReview, "actioning requires a review with notes")
	}
	sc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sc.Status.CanMoveTo(status) {
		return nil, eris.Wrapf(domain.ErrInvalidTransition, "%s -> %s", sc.Status, status)
	}
	sc.Status = status
	sc.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Save(ctx, sc); err != nil {
		return nil, eris.Wrap(err, "screenings: save status")
	}
	return sc, nil
}

// Command untuk clinician review
type ReviewCommand struct {
	ReviewerID string
	Notes      string
	Action     domain.ReviewAction
	// Status defaults to reviewed.
	Status domain.Status
}

// Review records clinician notes. The assessment itself is never touched.
func (s *Service) Review(ctx context.Context, id domain.ID, cmd ReviewCommand) (*domain.Screening, error) {
	if strings.TrimSpace(cmd.ReviewerID) == "" {
		return nil, eris.Wrap(domain.ErrInvalidReview, "reviewer is required")
	}
	next := cmd.Status
	if next == "" {
		next = domain.StatusReviewed
	}
	if next != domain.StatusReviewed && next != domain.StatusActioned {
		return nil, eris.Wrapf(domain.ErrInvalidReview, "review cannot set status %q", next)
	}
	if cmd.Action != "" && !cmd.Action.Valid() {
		return nil, eris.Wrapf(domain.ErrInvalidReview, "unknown action %q", cmd.Action)
	}
	if next == domain.StatusActioned {
		if strings.TrimSpace(cmd.Notes) == "" {
			return nil, eris.Wrap(domain.ErrInvalidReview, "notes are required to action a screening")
		}
		if cmd.Action == "" {
			return nil, eris.Wrap(domain.ErrInvalidReview, "an action is required to action a screening")
		}
	}

	sc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sc.Status.CanMoveTo(next) {
		return nil, eris.Wrapf(domain.ErrInvalidTransition, "%s -> %s", sc.Status, next)
	}

	now := s.Clock.Now()
	sc.Status = next
	sc.Review = &domain.Review{
		ReviewerID: cmd.ReviewerID,
		Notes:      cmd.Notes,
		Action:     cmd.Action,
		ReviewedAt: now,
	}
	sc.UpdatedAt = now
	if err := s.Repo.Save(ctx, sc); err != nil {
		return nil, eris.Wrap(err, "screenings: save review")
	}
	zap.L().Info("screening reviewed",
		zap.String("screening_id", string(sc.ID)),
		zap.String("status", string(sc.Status)),
		zap.String("action", string(sc.Review.Action)),
	)
	return sc, nil
}
