package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ReviewRepository is the secondary adapter for review persistence.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

// Ensure ReviewRepository implements the ports.ReviewRepository interface.
var _ ports.ReviewRepository = (*ReviewRepository)(nil)

// NewReviewRepository creates a new review repository.
func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `id, project_id, homeowner_id, professional_id, rating, comment, created_at`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.ProjectID,
		&review.HomeownerID,
		&review.ProfessionalID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Create persists a new review. The unique project_id constraint enforces
// one review per project.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (project_id, homeowner_id, professional_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + reviewColumns

	created, err := scanReview(r.pool.QueryRow(ctx, query,
		review.ProjectID,
		review.HomeownerID,
		review.ProfessionalID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrReviewExists
		}
		return nil, err
	}
	return created, nil
}

// GetByProjectID retrieves the review for a project, if one exists.
func (r *ReviewRepository) GetByProjectID(ctx context.Context, projectID int64) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE project_id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// ListByProfessionalID retrieves a professional's reviews, newest first.
func (r *ReviewRepository) ListByProfessionalID(ctx context.Context, professionalID uuid.UUID, limit, offset int32) ([]*domain.Review, error) {
	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE professional_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, professionalID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}
