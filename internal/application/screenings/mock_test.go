package screenings

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bryanwahyu/devscreen/internal/application/assessment"
	domain "github.com/bryanwahyu/devscreen/internal/domain/screening"
)

// --- Repository Mock ---

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Save(ctx context.Context, s *domain.Screening) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockRepo) Get(ctx context.Context, id domain.ID) (*domain.Screening, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Screening), args.Error(1)
}

func (m *mockRepo) ListByChild(ctx context.Context, childID string) ([]*domain.Screening, error) {
	args := m.Called(ctx, childID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Screening), args.Error(1)
}

func (m *mockRepo) ListByParent(ctx context.Context, parentID string) ([]*domain.Screening, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Screening), args.Error(1)
}

func (m *mockRepo) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Screening, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Screening), args.Get(1).(int64), args.Error(2)
}

func (m *mockRepo) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// --- Engine Mock ---

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Assess(ctx context.Context, req assessment.Request) (assessment.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(assessment.Result), args.Error(1)
}
