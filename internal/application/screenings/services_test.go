package screenings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/devscreen/internal/application"
	"github.com/bryanwahyu/devscreen/internal/application/assessment"
	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	"github.com/bryanwahyu/devscreen/internal/domain/risk"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
)

var now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

var toddlerDOB = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newService(repo domain.Repository, eng Assessor) *Service {
	return &Service{
		Repo:    repo,
		Engine:  eng,
		Catalog: questionnaire.DefaultCatalog(),
		Clock:   application.FixedClock(now),
	}
}

func realEngine() *assessment.Engine {
	return &assessment.Engine{Catalog: questionnaire.DefaultCatalog(), Clock: application.FixedClock(now)}
}

func TestSubmit_PersistsOnce(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*screening.Screening")).Return(nil).Once()

	svc := newService(repo, realEngine())
	sc, err := svc.Submit(context.Background(), SubmitCommand{
		ChildID:     "child-1",
		ParentID:    "parent-1",
		DateOfBirth: toddlerDOB,
		Responses: []questionnaire.Response{
			{QuestionID: "q1", Answer: "no"},
			{QuestionID: "q2", Answer: "yes"},
		},
	})
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Save", 1)

	assert.NotEmpty(t, sc.ID)
	assert.Equal(t, domain.StatusSubmitted, sc.Status)
	assert.Equal(t, questionnaire.Months18To24, sc.Bracket)
	assert.Equal(t, 21, sc.AgeMonths)
	assert.Equal(t, 2, sc.QuestionnaireScore)
	assert.Equal(t, 1, sc.CriticalItemsCount)
	assert.Equal(t, 2, sc.Responses[0].Points)
	assert.Equal(t, 0, sc.Responses[1].Points)
	assert.Equal(t, 13, sc.Assessment.CombinedScore)
	assert.Equal(t, risk.LevelLow, sc.Assessment.Level)
	assert.Equal(t, now, sc.SubmittedAt)
}

func TestSubmit_EngineFailurePersistsNothing(t *testing.T) {
	repo := new(mockRepo)
	eng := new(mockEngine)
	eng.On("Assess", mock.Anything, mock.Anything).Return(assessment.Result{}, context.DeadlineExceeded)

	_, err := newService(repo, eng).Submit(context.Background(), SubmitCommand{
		ChildID: "c", ParentID: "p", DateOfBirth: toddlerDOB,
	})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSubmit_Rejections(t *testing.T) {
	tests := []struct {
		name string
		cmd  SubmitCommand
		want error
	}{
		{"missing child", SubmitCommand{ParentID: "p", DateOfBirth: toddlerDOB}, ErrInvalidCommand},
		{"missing dob", SubmitCommand{ChildID: "c", ParentID: "p"}, ErrInvalidCommand},
		{"too old", SubmitCommand{ChildID: "c", ParentID: "p", DateOfBirth: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}, questionnaire.ErrScreeningUnavailable},
		{"unknown question", SubmitCommand{ChildID: "c", ParentID: "p", DateOfBirth: toddlerDOB,
			Responses: []questionnaire.Response{{QuestionID: "zz", Answer: "yes"}}}, questionnaire.ErrInvalidResponse},
		{"duplicate answer", SubmitCommand{ChildID: "c", ParentID: "p", DateOfBirth: toddlerDOB,
			Responses: []questionnaire.Response{{QuestionID: "q1", Answer: "yes"}, {QuestionID: "q1", Answer: "no"}}}, questionnaire.ErrInvalidResponse},
		{"bad category", SubmitCommand{ChildID: "c", ParentID: "p", DateOfBirth: toddlerDOB,
			Videos: []domain.VideoReference{{URL: "https://x", Category: "sleep"}}}, domain.ErrInvalidVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			_, err := newService(repo, realEngine()).Submit(context.Background(), tt.cmd)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_AssignsVideoIDs(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	eng := new(mockEngine)
	eng.On("Assess", mock.Anything, mock.MatchedBy(func(r assessment.Request) bool {
		return len(r.Videos) == 1 && r.Videos[0].ID != "" && r.Videos[0].UploadedAt.Equal(now)
	})).Return(assessment.Result{Bracket: questionnaire.Months18To24}, nil)

	sc, err := newService(repo, eng).Submit(context.Background(), SubmitCommand{
		ChildID: "c", ParentID: "p", DateOfBirth: toddlerDOB,
		Videos: []domain.VideoReference{{Category: domain.CategoryPlay, URL: "https://x/v.mp4"}},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sc.Videos[0].ID)
	eng.AssertExpectations(t)
}

func TestGet_NotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", mock.Anything, domain.ID("x")).Return(nil, nil)
	_, err := newService(repo, nil).Get(context.Background(), "x")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListSubmitted_Paging(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Paginate", mock.Anything, 1, 20).Return(nil, int64(41), nil)

	p, err := newService(repo, nil).ListSubmitted(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PageSize)
	assert.Equal(t, 3, p.TotalPages)
	assert.NotNil(t, p.Data)
}

func TestQuestionnaire(t *testing.T) {
	svc := newService(nil, nil)
	d, err := svc.Questionnaire(toddlerDOB)
	require.NoError(t, err)
	assert.Equal(t, questionnaire.Months18To24, d.Bracket)

	_, err = svc.Questionnaire(now)
	assert.True(t, errors.Is(err, questionnaire.ErrScreeningUnavailable))
}

func stored(status domain.Status) *domain.Screening {
	return &domain.Screening{
		ID:         "s1",
		Status:     status,
		Assessment: risk.Assessment{Level: risk.LevelMedium, CombinedScore: 47},
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", mock.Anything, domain.ID("s1")).Return(stored(domain.StatusSubmitted), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	sc, err := newService(repo, nil).UpdateStatus(context.Background(), "s1", domain.StatusUnderReview)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, sc.Status)
	assert.Equal(t, now, sc.UpdatedAt)
}

func TestUpdateStatus_Backwards(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", mock.Anything, domain.ID("s1")).Return(stored(domain.StatusReviewed), nil)

	_, err := newService(repo, nil).UpdateStatus(context.Background(), "s1", domain.StatusUnderReview)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpdateStatus_ActionedNeedsReview(t *testing.T) {
	_, err := newService(new(mockRepo), nil).UpdateStatus(context.Background(), "s1", domain.StatusActioned)
	assert.True(t, errors.Is(err, domain.ErrInvalidReview))
}

func TestReview_LeavesAssessmentUntouched(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", mock.Anything, domain.ID("s1")).Return(stored(domain.StatusUnderReview), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	sc, err := newService(repo, nil).Review(context.Background(), "s1", ReviewCommand{
		ReviewerID: "dr-1",
		Notes:      "refer to specialist",
		Action:     domain.ActionReferral,
		Status:     domain.StatusActioned,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActioned, sc.Status)
	require.NotNil(t, sc.Review)
	assert.Equal(t, "dr-1", sc.Review.ReviewerID)
	assert.Equal(t, now, sc.Review.ReviewedAt)
	assert.Equal(t, 47, sc.Assessment.CombinedScore)
	assert.Equal(t, risk.LevelMedium, sc.Assessment.Level)
}

func TestReview_Rules(t *testing.T) {
	tests := []struct {
		name   string
		status domain.Status
		cmd    ReviewCommand
		want   error
	}{
		{"no reviewer", domain.StatusSubmitted, ReviewCommand{Notes: "x"}, domain.ErrInvalidReview},
		{"action without notes", domain.StatusReviewed, ReviewCommand{ReviewerID: "d", Action: domain.ActionRoutine, Status: domain.StatusActioned}, domain.ErrInvalidReview},
		{"action without action", domain.StatusReviewed, ReviewCommand{ReviewerID: "d", Notes: "n", Status: domain.StatusActioned}, domain.ErrInvalidReview},
		{"unknown action", domain.StatusReviewed, ReviewCommand{ReviewerID: "d", Notes: "n", Action: "discharge"}, domain.ErrInvalidReview},
		{"review sets submitted", domain.StatusSubmitted, ReviewCommand{ReviewerID: "d", Status: domain.StatusUnderReview}, domain.ErrInvalidReview},
		{"already actioned", domain.StatusActioned, ReviewCommand{ReviewerID: "d", Notes: "n"}, domain.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			repo.On("Get", mock.Anything, domain.ID("s1")).Return(stored(tt.status), nil)
			_, err := newService(repo, nil).Review(context.Background(), "s1", tt.cmd)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestReview_ReviewedMayBeResaved(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Get", mock.Anything, domain.ID("s1")).Return(stored(domain.StatusReviewed), nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	sc, err := newService(repo, nil).Review(context.Background(), "s1", ReviewCommand{ReviewerID: "d", Notes: "amended"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReviewed, sc.Status)
	assert.Equal(t, "amended", sc.Review.Notes)
}

func TestSubmit_EngineScoresAgainstTheValidatedQuestionnaire(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*screening.Screening")).Return(nil)

	// engine clock sits in the next bracket; the service instant must win
	eng := &assessment.Engine{Catalog: questionnaire.DefaultCatalog(), Clock: application.FixedClock(now.AddDate(0, 3, 0))}
	sc, err := newService(repo, eng).Submit(context.Background(), SubmitCommand{
		ChildID:     "c",
		ParentID:    "p",
		DateOfBirth: toddlerDOB,
		Responses:   []questionnaire.Response{{QuestionID: "q1", Answer: "no"}},
	})
	require.NoError(t, err)
	assert.Equal(t, questionnaire.Months18To24, sc.Bracket)
	assert.Equal(t, 21, sc.AgeMonths)
	assert.Equal(t, 2, sc.QuestionnaireScore)
}
