package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// MaxBidMessageLength caps the free-text pitch attached to a bid.
const MaxBidMessageLength = 2000

// BidStatus represents the state of a bid.
type BidStatus string

const (
	BidSubmitted BidStatus = "SUBMITTED"
	BidAccepted  BidStatus = "ACCEPTED"
)

// Bid is a professional's offer on an open project.
type Bid struct {
	ID             int64
	ProjectID      int64
	ProfessionalID uuid.UUID
	Amount         float64
	Message        string
	Status         BidStatus
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// BidParams holds the input for placing a bid.
type BidParams struct {
	ProjectID      int64
	ProfessionalID uuid.UUID
	Amount         float64
	Message        string
}

// NewBid is a factory function to create a valid new bid.
func NewBid(params BidParams) (*Bid, error) {
	if params.Amount <= 0 {
		return nil, apperrors.ErrInvalidBidAmount
	}
	if len(params.Message) > MaxBidMessageLength {
		return nil, apperrors.ErrDescriptionTooLong
	}

	return &Bid{
		ProjectID:      params.ProjectID,
		ProfessionalID: params.ProfessionalID,
		Amount:         params.Amount,
		Message:        params.Message,
		Status:         BidSubmitted,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// Accept marks the bid as accepted. An already accepted bid cannot be
// accepted again.
func (b *Bid) Accept() error {
	if b.Status == BidAccepted {
		return apperrors.ErrBidAlreadyAccepted
	}
	b.Status = BidAccepted
	now := time.Now().UTC()
	b.UpdatedAt = &now
	return nil
}

// Amend updates the amount and message of a pending bid. Accepted bids are
// immutable.
func (b *Bid) Amend(amount float64, message string) error {
	if b.Status == BidAccepted {
		return apperrors.ErrBidImmutable
	}
	if amount <= 0 {
		return apperrors.ErrInvalidBidAmount
	}
	if len(message) > MaxBidMessageLength {
		return apperrors.ErrDescriptionTooLong
	}

	b.Amount = amount
	b.Message = message
	now := time.Now().UTC()
	b.UpdatedAt = &now
	return nil
}
