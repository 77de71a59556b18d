package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// UserRepository is the secondary adapter for user account persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// Ensure UserRepository implements the ports.UserRepository interface.
var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, role, full_name, email, hashed_password, is_verified,
	otp_code, otp_expires_at, trade, bio, hourly_rate, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Role,
		&user.FullName,
		&user.Email,
		&user.HashedPassword,
		&user.IsVerified,
		&user.OTPCode,
		&user.OTPExpiresAt,
		&user.Trade,
		&user.Bio,
		&user.HourlyRate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a new user account.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, role, full_name, email, hashed_password, is_verified,
			otp_code, otp_expires_at, trade, bio, hourly_rate, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Role,
		user.FullName,
		user.Email,
		user.HashedPassword,
		user.IsVerified,
		user.OTPCode,
		user.OTPExpiresAt,
		user.Trade,
		user.Bio,
		user.HourlyRate,
		user.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrUserExists
		}
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a user by its ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByEmail retrieves a user by its email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update persists changes to an existing user account.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		UPDATE users
		SET full_name = $2,
			is_verified = $3,
			otp_code = $4,
			otp_expires_at = $5,
			trade = $6,
			bio = $7,
			hourly_rate = $8,
			updated_at = $9
		WHERE id = $1
		RETURNING ` + userColumns

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.FullName,
		user.IsVerified,
		user.OTPCode,
		user.OTPExpiresAt,
		user.Trade,
		user.Bio,
		user.HourlyRate,
		user.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return updated, nil
}
