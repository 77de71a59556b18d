package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// BidRepository is the secondary adapter for bid persistence.
type BidRepository struct {
	pool *pgxpool.Pool
}

// Ensure BidRepository implements the ports.BidRepository interface.
var _ ports.BidRepository = (*BidRepository)(nil)

// NewBidRepository creates a new bid repository.
func NewBidRepository(pool *pgxpool.Pool) *BidRepository {
	return &BidRepository{pool: pool}
}

const bidColumns = `id, project_id, professional_id, amount, message, status, created_at, updated_at`

func scanBid(row pgx.Row) (*domain.Bid, error) {
	var bid domain.Bid
	err := row.Scan(
		&bid.ID,
		&bid.ProjectID,
		&bid.ProfessionalID,
		&bid.Amount,
		&bid.Message,
		&bid.Status,
		&bid.CreatedAt,
		&bid.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

// Create persists a new bid. The unique (project_id, professional_id)
// constraint enforces one bid per professional per project.
func (r *BidRepository) Create(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	query := `
		INSERT INTO bids (project_id, professional_id, amount, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + bidColumns

	created, err := scanBid(r.pool.QueryRow(ctx, query,
		bid.ProjectID,
		bid.ProfessionalID,
		bid.Amount,
		bid.Message,
		bid.Status,
		bid.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateBid
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a single bid by its ID.
func (r *BidRepository) GetByID(ctx context.Context, id int64) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE id = $1`

	bid, err := scanBid(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBidNotFound
		}
		return nil, err
	}
	return bid, nil
}

// Update persists changes to an existing bid.
func (r *BidRepository) Update(ctx context.Context, bid *domain.Bid) (*domain.Bid, error) {
	query := `
		UPDATE bids
		SET amount = $2,
			message = $3,
			status = $4,
			updated_at = $5
		WHERE id = $1
		RETURNING ` + bidColumns

	updated, err := scanBid(r.pool.QueryRow(ctx, query,
		bid.ID,
		bid.Amount,
		bid.Message,
		bid.Status,
		bid.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBidNotFound
		}
		return nil, err
	}
	return updated, nil
}

// ListByProjectID retrieves all bids on a project, newest first.
func (r *BidRepository) ListByProjectID(ctx context.Context, projectID int64) ([]*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE project_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]*domain.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, rows.Err()
}

// GetByProjectAndProfessional retrieves a professional's bid on a project.
func (r *BidRepository) GetByProjectAndProfessional(ctx context.Context, projectID int64, professionalID uuid.UUID) (*domain.Bid, error) {
	query := `SELECT ` + bidColumns + ` FROM bids WHERE project_id = $1 AND professional_id = $2`

	bid, err := scanBid(r.pool.QueryRow(ctx, query, projectID, professionalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBidNotFound
		}
		return nil, err
	}
	return bid, nil
}

// AcceptBid marks the bid accepted and assigns the professional to the
// project in a single transaction, so a hire can never be half-applied.
func (r *BidRepository) AcceptBid(ctx context.Context, bid *domain.Bid, project *domain.Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		UPDATE bids
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		bid.ID, bid.Status, bid.UpdatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE projects
		SET status = $2, professional_id = $3, updated_at = $4
		WHERE id = $1`,
		project.ID, project.Status, project.ProfessionalID, project.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
