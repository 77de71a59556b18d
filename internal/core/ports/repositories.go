package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/homelink/marketplace-backend/internal/core/domain"
)

// ListProjectsRepoParams carries pagination and optional filters down to the
// project repository.
type ListProjectsRepoParams struct {
	Limit       int32
	Offset      int32
	Status      *string
	Category    *string
	HomeownerID *uuid.UUID
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}

// ProjectRepository persists project postings.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	ListPaginated(ctx context.Context, params ListProjectsRepoParams) ([]*domain.Project, error)
}

// BidRepository persists bids.
type BidRepository interface {
	Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error)
	GetByID(ctx context.Context, id int64) (*domain.Bid, error)
	Update(ctx context.Context, bid *domain.Bid) (*domain.Bid, error)
	ListByProjectID(ctx context.Context, projectID int64) ([]*domain.Bid, error)
	GetByProjectAndProfessional(ctx context.Context, projectID int64, professionalID uuid.UUID) (*domain.Bid, error)
	// AcceptBid marks the bid accepted and assigns the professional to the
	// project in a single transaction.
	AcceptBid(ctx context.Context, bid *domain.Bid, project *domain.Project) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
	GetByProjectID(ctx context.Context, projectID int64) (*domain.Review, error)
	ListByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int32) ([]*domain.Review, error)
}

// ChatRepository persists project-scoped chat messages.
type ChatRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	ListByProjectID(ctx context.Context, projectID int64, afterID int64, limit int32) ([]*domain.ChatMessage, error)
}
