package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// Review rating bounds and comment limit
const (
	MinRating              = 1
	MaxRating              = 5
	MaxReviewCommentLength = 2000
)

// Review is a homeowner's rating of the professional hired on a completed
// project. At most one review exists per project.
type Review struct {
	ID             int64
	ProjectID      int64
	HomeownerID    uuid.UUID
	ProfessionalID uuid.UUID // the reviewed professional
	Rating         int
	Comment        string
	CreatedAt      time.Time
}

// ReviewParams holds the input for submitting a review.
type ReviewParams struct {
	ProjectID      int64
	HomeownerID    uuid.UUID
	ProfessionalID uuid.UUID
	Rating         int
	Comment        string
}

// NewReview is a factory function to create a valid new review.
func NewReview(params ReviewParams) (*Review, error) {
	if params.Rating < MinRating || params.Rating > MaxRating {
		return nil, apperrors.ErrInvalidRating
	}
	if len(params.Comment) > MaxReviewCommentLength {
		return nil, apperrors.ErrReviewCommentTooLong
	}

	return &Review{
		ProjectID:      params.ProjectID,
		HomeownerID:    params.HomeownerID,
		ProfessionalID: params.ProfessionalID,
		Rating:         params.Rating,
		Comment:        params.Comment,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
