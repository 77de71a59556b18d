package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ProjectService implements business logic for project postings.
type ProjectService struct {
	projectRepo ports.ProjectRepository
	userRepo    ports.UserRepository
}

var _ ports.ProjectService = (*ProjectService)(nil)

// NewProjectService creates a new project service
func NewProjectService(projectRepo ports.ProjectRepository, userRepo ports.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProject handles the use case for posting a new project.
func (s *ProjectService) CreateProject(ctx context.Context, params ports.CreateProjectParams) (*domain.Project, error) {
	// Only homeowner accounts post projects.
	actor, err := s.userRepo.GetByID(ctx, params.HomeownerID)
	if err != nil {
		return nil, err
	}
	if actor.Role != domain.RoleHomeowner {
		return nil, apperrors.ErrForbidden
	}

	project, err := domain.NewProject(domain.ProjectParams{
		HomeownerID: params.HomeownerID,
		Title:       params.Title,
		Description: params.Description,
		Category:    params.Category,
		Budget:      params.Budget,
	})
	if err != nil {
		return nil, err
	}

	return s.projectRepo.Create(ctx, project)
}

// GetProject retrieves a specific project. Postings are public.
func (s *ProjectService) GetProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, projectID)
}

// UpdateStatus advances a project's lifecycle. The homeowner or the assigned
// professional may move the work forward; the domain validates the transition.
func (s *ProjectService) UpdateStatus(ctx context.Context, params ports.UpdateProjectStatusParams) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsOwnedBy(params.ActorID) && !project.IsAssignedTo(params.ActorID) {
		return nil, apperrors.ErrForbidden
	}

	if err := project.UpdateStatus(params.Status); err != nil {
		return nil, err
	}

	return s.projectRepo.Update(ctx, project)
}

// ListProjects retrieves project postings with optional filters. Mine scopes
// the listing to the viewer's own postings.
func (s *ProjectService) ListProjects(ctx context.Context, params ports.ListProjectsParams) ([]*domain.Project, error) {
	repoParams := ports.ListProjectsRepoParams{
		Limit:    int32(params.Limit),
		Offset:   int32(params.Offset),
		Status:   params.Status,
		Category: params.Category,
	}

	if params.Mine {
		viewerID := params.ViewerID
		if viewerID == uuid.Nil {
			return nil, apperrors.ErrUnauthorized
		}
		repoParams.HomeownerID = &viewerID
	}

	return s.projectRepo.ListPaginated(ctx, repoParams)
}
