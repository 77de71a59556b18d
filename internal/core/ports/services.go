package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/homelink/marketplace-backend/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	VerifyAccount(ctx context.Context, email, otp string) (*domain.User, error)
	ResendOTP(ctx context.Context, email string) error
}

// ProfileService defines the port for profile reads and updates.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params domain.ProfileUpdateParams) (*domain.User, error)
	GetProfessional(ctx context.Context, professionalID uuid.UUID) (*domain.User, error)
}

// CreateProjectParams defines the input for posting a new project.
type CreateProjectParams struct {
	HomeownerID uuid.UUID
	Title       string
	Description string
	Category    string
	Budget      *float64
}

// UpdateProjectStatusParams defines the input for advancing a project's status.
type UpdateProjectStatusParams struct {
	ProjectID int64
	Status    domain.ProjectStatus
	ActorID   uuid.UUID
}

// ListProjectsParams defines the input for listing projects.
type ListProjectsParams struct {
	ViewerID uuid.UUID
	Limit    int
	Offset   int
	Status   *string
	Category *string
	Mine     bool
}

// ProjectService defines the core business operations for project postings.
type ProjectService interface {
	CreateProject(ctx context.Context, params CreateProjectParams) (*domain.Project, error)
	GetProject(ctx context.Context, projectID int64) (*domain.Project, error)
	UpdateStatus(ctx context.Context, params UpdateProjectStatusParams) (*domain.Project, error)
	ListProjects(ctx context.Context, params ListProjectsParams) ([]*domain.Project, error)
}

// PlaceBidParams defines the input for placing a bid.
type PlaceBidParams struct {
	ProjectID      int64
	ProfessionalID uuid.UUID
	Amount         float64
	Message        string
}

// AmendBidParams defines the input for amending a pending bid.
type AmendBidParams struct {
	BidID   int64
	ActorID uuid.UUID
	Amount  float64
	Message string
}

// AcceptBidParams defines the input for accepting a bid (hiring).
type AcceptBidParams struct {
	ProjectID int64
	BidID     int64
	ActorID   uuid.UUID
}

// BidService defines the core business operations for bidding and hiring.
type BidService interface {
	PlaceBid(ctx context.Context, params PlaceBidParams) (*domain.Bid, error)
	AmendBid(ctx context.Context, params AmendBidParams) (*domain.Bid, error)
	AcceptBid(ctx context.Context, params AcceptBidParams) (*domain.Bid, error)
	ListBidsForProject(ctx context.Context, projectID int64, viewerID uuid.UUID) ([]*domain.Bid, error)
	Shutdown()
}

// SubmitReviewParams defines the input for submitting a review.
type SubmitReviewParams struct {
	ProjectID int64
	AuthorID  uuid.UUID
	Rating    int
	Comment   string
}

// ReviewService defines the core business operations for reviews.
type ReviewService interface {
	SubmitReview(ctx context.Context, params SubmitReviewParams) (*domain.Review, error)
	ListReviewsForProfessional(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]*domain.Review, error)
	Shutdown()
}

// SendMessageParams defines the input for sending a chat message.
type SendMessageParams struct {
	ProjectID int64
	SenderID  uuid.UUID
	Body      string
}

// ListMessagesParams defines the input for polling chat messages.
type ListMessagesParams struct {
	ProjectID int64
	ViewerID  uuid.UUID
	AfterID   int64
	Limit     int
}

// ChatService defines the core business operations for project chat.
type ChatService interface {
	SendMessage(ctx context.Context, params SendMessageParams) (*domain.ChatMessage, error)
	ListMessages(ctx context.Context, params ListMessagesParams) ([]*domain.ChatMessage, error)
}

// NotificationParams defines the input for sending an email notification.
type NotificationParams struct {
	RecipientUserID uuid.UUID
	Subject         string
	Message         string
}

// Notifier defines the port for sending asynchronous email notifications
// (OTP delivery).
type Notifier interface {
	Notify(ctx context.Context, params NotificationParams)
}

// NoticeDispatcher defines the port for best-effort real-time pushes. Notify
// resolves the recipient's live connection and pushes the notice once; when
// the recipient is offline the call is a silent no-op. It never returns an
// error to the caller.
type NoticeDispatcher interface {
	Notify(recipientID uuid.UUID, notice domain.Notice)
}
