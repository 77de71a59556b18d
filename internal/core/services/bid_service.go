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

// BidService implements business logic for bidding and hiring.
type BidService struct {
	bidRepo     ports.BidRepository
	projectRepo ports.ProjectRepository
	userRepo    ports.UserRepository
	dispatcher  ports.NoticeDispatcher
	wg          sync.WaitGroup
}

var _ ports.BidService = (*BidService)(nil)

// NewBidService creates a new bid service
func NewBidService(
	bidRepo ports.BidRepository,
	projectRepo ports.ProjectRepository,
	userRepo ports.UserRepository,
	dispatcher ports.NoticeDispatcher,
) *BidService {
	return &BidService{
		bidRepo:     bidRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
	}
}

// PlaceBid handles the use case for a professional bidding on an open project.
// After the bid is persisted, the project's homeowner gets one best-effort
// real-time notice.
func (s *BidService) PlaceBid(ctx context.Context, params ports.PlaceBidParams) (*domain.Bid, error) {
	// 1. The actor must be a professional account.
	actor, err := s.userRepo.GetByID(ctx, params.ProfessionalID)
	if err != nil {
		return nil, err
	}
	if !actor.IsProfessional() {
		return nil, apperrors.ErrForbidden
	}

	// 2. The project must exist and be open for bidding.
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.Status != domain.StatusOpen {
		return nil, apperrors.ErrProjectNotOpen
	}
	if project.IsOwnedBy(params.ProfessionalID) {
		return nil, apperrors.ErrOwnProjectBid
	}

	// 3. One bid per professional per project.
	_, err = s.bidRepo.GetByProjectAndProfessional(ctx, params.ProjectID, params.ProfessionalID)
	if err == nil {
		return nil, apperrors.ErrDuplicateBid
	}
	if !errors.Is(err, apperrors.ErrBidNotFound) {
		return nil, err
	}

	// 4. Create domain entity with validation
	bid, err := domain.NewBid(domain.BidParams{
		ProjectID:      params.ProjectID,
		ProfessionalID: params.ProfessionalID,
		Amount:         params.Amount,
		Message:        params.Message,
	})
	if err != nil {
		return nil, err
	}

	// 5. Persist the bid
	created, err := s.bidRepo.Create(ctx, bid)
	if err != nil {
		return nil, err
	}

	// 6. Push real-time notice to the homeowner, after the write committed.
	s.dispatch(project.HomeownerID, domain.Notice{
		Event:     domain.NoticeBid,
		Message:   fmt.Sprintf("New bid on your project '%s'", project.Title),
		ProjectID: project.ID,
	})

	return created, nil
}

// AmendBid updates a pending bid's amount and message.
func (s *BidService) AmendBid(ctx context.Context, params ports.AmendBidParams) (*domain.Bid, error) {
	bid, err := s.bidRepo.GetByID(ctx, params.BidID)
	if err != nil {
		return nil, err
	}

	if bid.ProfessionalID != params.ActorID {
		return nil, apperrors.ErrForbidden
	}

	if err := bid.Amend(params.Amount, params.Message); err != nil {
		return nil, err
	}

	return s.bidRepo.Update(ctx, bid)
}

// AcceptBid handles hiring: the homeowner accepts a bid, the project becomes
// assigned to the bidding professional, and that professional gets one
// best-effort real-time notice.
func (s *BidService) AcceptBid(ctx context.Context, params ports.AcceptBidParams) (*domain.Bid, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	// Only the project owner can hire.
	if !project.IsOwnedBy(params.ActorID) {
		return nil, apperrors.ErrForbidden
	}

	bid, err := s.bidRepo.GetByID(ctx, params.BidID)
	if err != nil {
		return nil, err
	}
	if bid.ProjectID != project.ID {
		return nil, apperrors.ErrBidNotFound
	}

	// Domain transitions validate the rest (open project, pending bid).
	if err := bid.Accept(); err != nil {
		return nil, err
	}
	if err := project.Hire(bid.ProfessionalID); err != nil {
		return nil, err
	}

	// Persist both mutations atomically.
	if err := s.bidRepo.AcceptBid(ctx, bid, project); err != nil {
		return nil, err
	}

	s.dispatch(bid.ProfessionalID, domain.Notice{
		Event:     domain.NoticeHired,
		Message:   fmt.Sprintf("You have been hired for '%s'", project.Title),
		ProjectID: project.ID,
	})

	return bid, nil
}

// ListBidsForProject returns the bids on a project. The homeowner sees all
// bids; a professional sees only their own.
func (s *BidService) ListBidsForProject(ctx context.Context, projectID int64, viewerID uuid.UUID) ([]*domain.Bid, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	bids, err := s.bidRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if project.IsOwnedBy(viewerID) {
		return bids, nil
	}

	own := make([]*domain.Bid, 0, 1)
	for _, bid := range bids {
		if bid.ProfessionalID == viewerID {
			own = append(own, bid)
		}
	}
	return own, nil
}

// dispatch pushes a notice asynchronously. The push is best-effort and
// decoupled from the enclosing request; failures never propagate.
func (s *BidService) dispatch(recipientID uuid.UUID, notice domain.Notice) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.dispatcher.Notify(recipientID, notice)
	}()
}

// Shutdown waits for in-flight dispatches to finish.
func (s *BidService) Shutdown() {
	s.wg.Wait()
}
