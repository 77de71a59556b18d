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

func TestProjectService_CreateProject(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockUsers.On("GetByID", ctx, homeownerID).
			Return(&domain.User{ID: homeownerID, Role: domain.RoleHomeowner}, nil)
		mockProjects.On("Create", ctx, mock.AnythingOfType("*domain.Project")).
			Return(&domain.Project{
				ID:          1,
				HomeownerID: homeownerID,
				Title:       "Bathroom tiling",
				Category:    "tiling",
				Status:      domain.StatusOpen,
			}, nil)

		project, err := svc.CreateProject(ctx, ports.CreateProjectParams{
			HomeownerID: homeownerID,
			Title:       "Bathroom tiling",
			Description: "Retile the main bathroom",
			Category:    "tiling",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), project.ID)
		assert.Equal(t, domain.StatusOpen, project.Status)
		mockProjects.AssertExpectations(t)
	})

	t.Run("professional account cannot post", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		proID := uuid.New()
		mockUsers.On("GetByID", ctx, proID).
			Return(&domain.User{ID: proID, Role: domain.RoleProfessional}, nil)

		project, err := svc.CreateProject(ctx, ports.CreateProjectParams{
			HomeownerID: proID,
			Title:       "Bathroom tiling",
		})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockProjects.AssertNotCalled(t, "Create")
	})

	t.Run("validation error for empty title", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockUsers.On("GetByID", ctx, homeownerID).
			Return(&domain.User{ID: homeownerID, Role: domain.RoleHomeowner}, nil)

		project, err := svc.CreateProject(ctx, ports.CreateProjectParams{
			HomeownerID: homeownerID,
			Title:       "",
		})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrTitleRequired)
		mockProjects.AssertNotCalled(t, "Create")
	})
}

func TestProjectService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()
	professionalID := uuid.New()
	projectID := int64(1)

	assignedProject := func() *domain.Project {
		pro := professionalID
		return &domain.Project{
			ID:             projectID,
			HomeownerID:    homeownerID,
			Status:         domain.StatusAssigned,
			ProfessionalID: &pro,
		}
	}

	t.Run("assigned professional starts the work", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockProjects.On("GetByID", ctx, projectID).Return(assignedProject(), nil)
		mockProjects.On("Update", ctx, mock.MatchedBy(func(p *domain.Project) bool {
			return p.Status == domain.StatusInProgress
		})).Return(&domain.Project{ID: projectID, Status: domain.StatusInProgress}, nil)

		project, err := svc.UpdateStatus(ctx, ports.UpdateProjectStatusParams{
			ProjectID: projectID,
			Status:    domain.StatusInProgress,
			ActorID:   professionalID,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, project.Status)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockProjects.On("GetByID", ctx, projectID).Return(assignedProject(), nil)

		project, err := svc.UpdateStatus(ctx, ports.UpdateProjectStatusParams{
			ProjectID: projectID,
			Status:    domain.StatusInProgress,
			ActorID:   uuid.New(),
		})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockProjects.AssertNotCalled(t, "Update")
	})

	t.Run("open project cannot be assigned directly", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockProjects.On("GetByID", ctx, projectID).Return(&domain.Project{
			ID:          projectID,
			HomeownerID: homeownerID,
			Status:      domain.StatusOpen,
		}, nil)

		project, err := svc.UpdateStatus(ctx, ports.UpdateProjectStatusParams{
			ProjectID: projectID,
			Status:    domain.StatusAssigned,
			ActorID:   homeownerID,
		})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
		mockProjects.AssertNotCalled(t, "Update")
	})

	t.Run("cannot skip ahead to completed", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockProjects.On("GetByID", ctx, projectID).Return(assignedProject(), nil)

		project, err := svc.UpdateStatus(ctx, ports.UpdateProjectStatusParams{
			ProjectID: projectID,
			Status:    domain.StatusCompleted,
			ActorID:   homeownerID,
		})

		assert.Nil(t, project)
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})
}

func TestProjectService_ListProjects(t *testing.T) {
	ctx := context.Background()
	viewerID := uuid.New()

	t.Run("mine scopes to the viewer", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		mockProjects.On("ListPaginated", ctx, mock.MatchedBy(func(p ports.ListProjectsRepoParams) bool {
			return p.HomeownerID != nil && *p.HomeownerID == viewerID && p.Limit == 20
		})).Return([]*domain.Project{{ID: 1, HomeownerID: viewerID}}, nil)

		projects, err := svc.ListProjects(ctx, ports.ListProjectsParams{
			ViewerID: viewerID,
			Limit:    20,
			Mine:     true,
		})

		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})

	t.Run("mine without identity is unauthorized", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		projects, err := svc.ListProjects(ctx, ports.ListProjectsParams{
			Limit: 20,
			Mine:  true,
		})

		assert.Nil(t, projects)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("filters pass through", func(t *testing.T) {
		mockProjects := mocks.NewMockProjectRepository()
		mockUsers := mocks.NewMockUserRepository()

		svc := services.NewProjectService(mockProjects, mockUsers)

		status := "OPEN"
		category := "plumbing"
		mockProjects.On("ListPaginated", ctx, mock.MatchedBy(func(p ports.ListProjectsRepoParams) bool {
			return p.HomeownerID == nil && *p.Status == status && *p.Category == category
		})).Return([]*domain.Project{}, nil)

		projects, err := svc.ListProjects(ctx, ports.ListProjectsParams{
			Limit:    20,
			Status:   &status,
			Category: &category,
		})

		require.NoError(t, err)
		assert.Empty(t, projects)
	})
}
