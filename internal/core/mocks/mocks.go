package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProjectRepository is a mock implementation of ports.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListPaginated(ctx context.Context, params ports.ListProjectsRepoParams) ([]*domain.Project, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

// MockBidRepository is a mock implementation of ports.BidRepository
type MockBidRepository struct {
	mock.Mock
}

func NewMockBidRepository() *MockBidRepository {
	return &MockBidRepository{}
}

func (m *MockBidRepository) Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	args := m.Called(ctx, bid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockBidRepository) GetByID(ctx context.Context, id int64) (*domain.Bid, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockBidRepository) Update(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	args := m.Called(ctx, bid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockBidRepository) ListByProjectID(ctx context.Context, projectID int64) ([]*domain.Bid, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Bid), args.Error(1)
}

func (m *MockBidRepository) GetByProjectAndProfessional(ctx context.Context, projectID int64, professionalID uuid.UUID) (*domain.Bid, error) {
	args := m.Called(ctx, projectID, professionalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bid), args.Error(1)
}

func (m *MockBidRepository) AcceptBid(ctx context.Context, bid *domain.Bid, project *domain.Project) error {
	args := m.Called(ctx, bid, project)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of ports.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) GetByProjectID(ctx context.Context, projectID int64) (*domain.Review, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int32) ([]*domain.Review, error) {
	args := m.Called(ctx, professionalID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

// MockChatRepository is a mock implementation of ports.ChatRepository
type MockChatRepository struct {
	mock.Mock
}

func NewMockChatRepository() *MockChatRepository {
	return &MockChatRepository{}
}

func (m *MockChatRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *MockChatRepository) ListByProjectID(ctx context.Context, projectID int64, afterID int64, limit int32) ([]*domain.ChatMessage, error) {
	args := m.Called(ctx, projectID, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ChatMessage), args.Error(1)
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, params ports.NotificationParams) {
	m.Called(ctx, params)
}

// MockNoticeDispatcher is a mock implementation of ports.NoticeDispatcher
type MockNoticeDispatcher struct {
	mock.Mock
}

func NewMockNoticeDispatcher() *MockNoticeDispatcher {
	return &MockNoticeDispatcher{}
}

func (m *MockNoticeDispatcher) Notify(recipientID uuid.UUID, notice domain.Notice) {
	m.Called(recipientID, notice)
}
