package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ReviewService implements business logic for reviews.
type ReviewService struct {
	reviewRepo  ports.ReviewRepository
	projectRepo ports.ProjectRepository
	dispatcher  ports.NoticeDispatcher
	wg          sync.WaitGroup
}

var _ ports.ReviewService = (*ReviewService)(nil)

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo ports.ReviewRepository,
	projectRepo ports.ProjectRepository,
	dispatcher ports.NoticeDispatcher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		dispatcher:  dispatcher,
	}
}

// SubmitReview records the homeowner's rating of the hired professional on a
// completed project. After the review is persisted, the professional gets one
// best-effort real-time notice.
func (s *ReviewService) SubmitReview(ctx context.Context, params ports.SubmitReviewParams) (*domain.Review, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	// Only the project owner reviews, and only after completion.
	if !project.IsOwnedBy(params.AuthorID) {
		return nil, apperrors.ErrForbidden
	}
	if project.Status != domain.StatusCompleted {
		return nil, apperrors.ErrProjectNotCompleted
	}
	if project.ProfessionalID == nil {
		return nil, apperrors.ErrProjectNotAssigned
	}

	// One review per project.
	_, err = s.reviewRepo.GetByProjectID(ctx, params.ProjectID)
	if err == nil {
		return nil, apperrors.ErrReviewExists
	}
	if !errors.Is(err, apperrors.ErrReviewNotFound) {
		return nil, err
	}

	review, err := domain.NewReview(domain.ReviewParams{
		ProjectID:      params.ProjectID,
		HomeownerID:    params.AuthorID,
		ProfessionalID: *project.ProfessionalID,
		Rating:         params.Rating,
		Comment:        params.Comment,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	recipientID := *project.ProfessionalID
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatcher.Notify(recipientID, domain.Notice{
			Event:     domain.NoticeReview,
			Message:   fmt.Sprintf("New review on '%s'", project.Title),
			ProjectID: project.ID,
		})
	}()

	return created, nil
}

// ListReviewsForProfessional returns a professional's reviews, newest first.
func (s *ReviewService) ListReviewsForProfessional(ctx context.Context, professionalID uuid.UUID, limit, offset int) ([]*domain.Review, error) {
	return s.reviewRepo.ListByProfessionalID(ctx, professionalID, int32(limit), int32(offset))
}

// Shutdown waits for in-flight dispatches to finish.
func (s *ReviewService) Shutdown() {
	s.wg.Wait()
}
