package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/mocks"
	"github.com/homelink/marketplace-backend/internal/core/ports"
	"github.com/homelink/marketplace-backend/internal/core/services"
)

func professionalUser(id uuid.UUID) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleProfessional, IsVerified: true}
}

func TestBidService_PlaceBid(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()
	professionalID := uuid.New()
	projectID := int64(1)

	t.Run("success notifies homeowner", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockUsers.On("GetByID", ctx, professionalID).Return(professionalUser(professionalID), nil)
		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Title:       "Kitchen remodel",
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("GetByProjectAndProfessional", ctx, projectID, professionalID).
			Return(nil, apperrors.ErrBidNotFound)
		mockBids.On("Create", ctx, mock.AnythingOfType("*domain.Bid")).
			Return(&domain.Bid{
				ID:             7,
				ProjectID:      projectID,
				ProfessionalID: professionalID,
				Amount:         2500,
				Status:         domain.BidSubmitted,
			}, nil)
		mockDispatcher.On("Notify", homeownerID, mock.MatchedBy(func(n domain.Notice) bool {
			return n.Event == domain.NoticeBid && n.ProjectID == projectID
		})).Return()

		bid, err := svc.PlaceBid(ctx, ports.PlaceBidParams{
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Amount:         2500,
			Message:        "Can start next week",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), bid.ID)
		assert.Equal(t, domain.BidSubmitted, bid.Status)

		svc.Shutdown()
		mockBids.AssertExpectations(t)
		mockDispatcher.AssertExpectations(t)
	})

	t.Run("homeowner account cannot bid", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockUsers.On("GetByID", ctx, homeownerID).
			Return(&domain.User{ID: homeownerID, Role: domain.RoleHomeowner}, nil)

		bid, err := svc.PlaceBid(ctx, ports.PlaceBidParams{
			ProjectID:      projectID,
			ProfessionalID: homeownerID,
			Amount:         100,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockBids.AssertNotCalled(t, "Create")
	})

	t.Run("rejected when project not open", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockUsers.On("GetByID", ctx, professionalID).Return(professionalUser(professionalID), nil)
		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusAssigned,
		}, nil)

		bid, err := svc.PlaceBid(ctx, ports.PlaceBidParams{
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Amount:         100,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrProjectNotOpen)
		mockBids.AssertNotCalled(t, "Create")
		mockDispatcher.AssertNotCalled(t, "Notify")
	})

	t.Run("rejected on duplicate bid", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockUsers.On("GetByID", ctx, professionalID).Return(professionalUser(professionalID), nil)
		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("GetByProjectAndProfessional", ctx, projectID, professionalID).
			Return(&domain.Bid{ID: 3, ProjectID: projectID, ProfessionalID: professionalID}, nil)

		bid, err := svc.PlaceBid(ctx, ports.PlaceBidParams{
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Amount:         100,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateBid)
		mockBids.AssertNotCalled(t, "Create")
	})

	t.Run("rejected on own project", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockUsers.On("GetByID", ctx, professionalID).Return(professionalUser(professionalID), nil)
		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: professionalID,
			Status:      domain.StatusOpen,
		}, nil)

		bid, err := svc.PlaceBid(ctx, ports.PlaceBidParams{
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Amount:         100,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrOwnProjectBid)
	})

	t.Run("no notice when persistence fails", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockUsers.On("GetByID", ctx, professionalID).Return(professionalUser(professionalID), nil)
		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("GetByProjectAndProfessional", ctx, projectID, professionalID).
			Return(nil, apperrors.ErrBidNotFound)
		mockBids.On("Create", ctx, mock.AnythingOfType("*domain.Bid")).
			Return(nil, apperrors.ErrInternal)

		bid, err := svc.PlaceBid(ctx, ports.PlaceBidParams{
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Amount:         100,
		})

		assert.Nil(t, bid)
		assert.Error(t, err)

		svc.Shutdown()
		mockDispatcher.AssertNotCalled(t, "Notify")
	})
}

func TestBidService_AcceptBid(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()
	professionalID := uuid.New()
	projectID := int64(1)
	bidID := int64(7)

	t.Run("hire assigns project and notifies professional", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Title:       "Fence repair",
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("GetByID", ctx, bidID).Return(&domain.Bid{
			ID:             bidID,
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Amount:         800,
			Status:         domain.BidSubmitted,
		}, nil)
		mockBids.On("AcceptBid", ctx,
			mock.MatchedBy(func(b *domain.Bid) bool { return b.Status == domain.BidAccepted }),
			mock.MatchedBy(func(p *domain.Project) bool {
				return p.Status == domain.StatusAssigned &&
					p.ProfessionalID != nil && *p.ProfessionalID == professionalID
			}),
		).Return(nil)
		mockDispatcher.On("Notify", professionalID, mock.MatchedBy(func(n domain.Notice) bool {
			return n.Event == domain.NoticeHired && n.ProjectID == projectID
		})).Return()

		bid, err := svc.AcceptBid(ctx, ports.AcceptBidParams{
			ProjectID: projectID,
			BidID:     bidID,
			ActorID:   homeownerID,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.BidAccepted, bid.Status)

		svc.Shutdown()
		mockBids.AssertExpectations(t)
		mockDispatcher.AssertExpectations(t)
	})

	t.Run("only the owner can hire", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)

		bid, err := svc.AcceptBid(ctx, ports.AcceptBidParams{
			ProjectID: projectID,
			BidID:     bidID,
			ActorID:   professionalID,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockBids.AssertNotCalled(t, "AcceptBid")
	})

	t.Run("bid must belong to the project", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("GetByID", ctx, bidID).Return(&domain.Bid{
			ID:             bidID,
			ProjectID:      projectID + 1,
			ProfessionalID: professionalID,
			Status:         domain.BidSubmitted,
		}, nil)

		bid, err := svc.AcceptBid(ctx, ports.AcceptBidParams{
			ProjectID: projectID,
			BidID:     bidID,
			ActorID:   homeownerID,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrBidNotFound)
	})

	t.Run("cannot accept twice", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusAssigned,
		}, nil)
		mockBids.On("GetByID", ctx, bidID).Return(&domain.Bid{
			ID:             bidID,
			ProjectID:      projectID,
			ProfessionalID: professionalID,
			Status:         domain.BidAccepted,
		}, nil)

		bid, err := svc.AcceptBid(ctx, ports.AcceptBidParams{
			ProjectID: projectID,
			BidID:     bidID,
			ActorID:   homeownerID,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrBidAlreadyAccepted)
		mockDispatcher.AssertNotCalled(t, "Notify")
	})
}

func TestBidService_AmendBid(t *testing.T) {
	ctx := context.Background()
	professionalID := uuid.New()
	bidID := int64(7)

	t.Run("owner amends pending bid", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockBids.On("GetByID", ctx, bidID).Return(&domain.Bid{
			ID:             bidID,
			ProjectID:      1,
			ProfessionalID: professionalID,
			Amount:         500,
			Status:         domain.BidSubmitted,
		}, nil)
		mockBids.On("Update", ctx, mock.MatchedBy(func(b *domain.Bid) bool {
			return b.Amount == 650 && b.Message == "Updated estimate"
		})).Return(&domain.Bid{
			ID:             bidID,
			ProjectID:      1,
			ProfessionalID: professionalID,
			Amount:         650,
			Message:        "Updated estimate",
			Status:         domain.BidSubmitted,
		}, nil)

		bid, err := svc.AmendBid(ctx, ports.AmendBidParams{
			BidID:   bidID,
			ActorID: professionalID,
			Amount:  650,
			Message: "Updated estimate",
		})

		require.NoError(t, err)
		assert.Equal(t, float64(650), bid.Amount)
		mockBids.AssertExpectations(t)
	})

	t.Run("accepted bid is immutable", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockBids.On("GetByID", ctx, bidID).Return(&domain.Bid{
			ID:             bidID,
			ProfessionalID: professionalID,
			Status:         domain.BidAccepted,
		}, nil)

		bid, err := svc.AmendBid(ctx, ports.AmendBidParams{
			BidID:   bidID,
			ActorID: professionalID,
			Amount:  650,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrBidImmutable)
		mockBids.AssertNotCalled(t, "Update")
	})

	t.Run("only the bidder can amend", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockBids.On("GetByID", ctx, bidID).Return(&domain.Bid{
			ID:             bidID,
			ProfessionalID: uuid.New(),
			Status:         domain.BidSubmitted,
		}, nil)

		bid, err := svc.AmendBid(ctx, ports.AmendBidParams{
			BidID:   bidID,
			ActorID: professionalID,
			Amount:  650,
		})

		assert.Nil(t, bid)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestBidService_ListBidsForProject(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()
	professionalID := uuid.New()
	otherProID := uuid.New()
	projectID := int64(1)

	allBids := []*domain.Bid{
		{ID: 1, ProjectID: projectID, ProfessionalID: professionalID},
		{ID: 2, ProjectID: projectID, ProfessionalID: otherProID},
	}

	t.Run("homeowner sees all bids", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("ListByProjectID", ctx, projectID).Return(allBids, nil)

		bids, err := svc.ListBidsForProject(ctx, projectID, homeownerID)

		require.NoError(t, err)
		assert.Len(t, bids, 2)
	})

	t.Run("professional sees only own bid", func(t *testing.T) {
		mockBids := mocks.NewMockBidRepository()
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()
		mockDispatcher := mocks.NewMockNoticeDispatcher()

		svc := services.NewBidService(mockBids, mockProjects, mockUsers, mockDispatcher)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)
		mockBids.On("ListByProjectID", ctx, projectID).Return(allBids, nil)

		bids, err := svc.ListBidsForProject(ctx, projectID, professionalID)

		require.NoError(t, err)
		require.Len(t, bids, 1)
		assert.Equal(t, int64(1), bids[0].ID)
	})
}
