package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ProjectRepository is the secondary adapter for project persistence.
type ProjectRepository struct {
	pool *pgxpool.Pool
}

// Ensure ProjectRepository implements the ports.ProjectRepository interface.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new project repository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{pool: pool}
}

const projectColumns = `id, homeowner_id, title, description, category, budget,
	status, professional_id, created_at, updated_at, completed_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	var project domain.Project
	err := row.Scan(
		&project.ID,
		&project.HomeownerID,
		&project.Title,
		&project.Description,
		&project.Category,
		&project.Budget,
		&project.Status,
		&project.ProfessionalID,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Create persists a new project posting.
func (r *ProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		INSERT INTO projects (homeowner_id, title, description, category, budget, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + projectColumns

	return scanProject(r.pool.QueryRow(ctx, query,
		project.HomeownerID,
		project.Title,
		project.Description,
		project.Category,
		project.Budget,
		project.Status,
		project.CreatedAt,
	))
}

// GetByID retrieves a single project by its ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// Update persists changes to an existing project posting.
func (r *ProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	query := `
		UPDATE projects
		SET title = $2,
			description = $3,
			category = $4,
			budget = $5,
			status = $6,
			professional_id = $7,
			updated_at = $8,
			completed_at = $9
		WHERE id = $1
		RETURNING ` + projectColumns

	updated, err := scanProject(r.pool.QueryRow(ctx, query,
		project.ID,
		project.Title,
		project.Description,
		project.Category,
		project.Budget,
		project.Status,
		project.ProfessionalID,
		project.UpdatedAt,
		project.CompletedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ListPaginated retrieves projects with pagination and optional filters,
// newest first.
func (r *ProjectRepository) ListPaginated(ctx context.Context, params ports.ListProjectsRepoParams) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE 1=1`
	args := []any{}

	if params.Status != nil {
		args = append(args, *params.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if params.Category != nil {
		args = append(args, *params.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if params.HomeownerID != nil {
		args = append(args, *params.HomeownerID)
		query += fmt.Sprintf(" AND homeowner_id = $%d", len(args))
	}

	args = append(args, params.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args))
	args = append(args, params.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
