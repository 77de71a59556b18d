package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// seedUser is a helper to insert a user for a test.
func seedUser(t *testing.T, role domain.Role) *domain.User {
	t.Helper()
	require.NotNil(t, testPool, "testPool is nil. TestMain may not have run.")

	repo := NewUserRepository(testPool)
	user := &domain.User{
		ID:             uuid.New(),
		Role:           role,
		FullName:       "Test User",
		Email:          fmt.Sprintf("user-%s@example.com", uuid.NewString()),
		HashedPassword: "hashedpassword",
		CreatedAt:      time.Now().UTC(),
	}

	created, err := repo.Create(context.Background(), user)
	require.NoError(t, err, "Failed to seed user")
	return created
}

func TestUserRepository_CreateGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	created := seedUser(t, domain.RoleHomeowner)

	foundByEmail, err := repo.GetByEmail(ctx, created.Email)
	require.NoError(t, err, "Failed to get user by email")
	assert.Equal(t, created.ID, foundByEmail.ID)
	assert.Equal(t, "Test User", foundByEmail.FullName)
	assert.Equal(t, domain.RoleHomeowner, foundByEmail.Role)
	assert.False(t, foundByEmail.IsVerified)

	foundByID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "Failed to get user by ID")
	assert.Equal(t, created.Email, foundByID.Email)
}

func TestUserRepository_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	existing := seedUser(t, domain.RoleHomeowner)

	dup := &domain.User{
		ID:             uuid.New(),
		Role:           domain.RoleProfessional,
		FullName:       "Someone Else",
		Email:          existing.Email,
		HashedPassword: "hashedpassword",
		CreatedAt:      time.Now().UTC(),
	}

	_, err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
}

func TestUserRepository_Update_VerificationRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	user := seedUser(t, domain.RoleProfessional)
	user.SetOTP("123456")

	updated, err := repo.Update(ctx, user)
	require.NoError(t, err)
	require.NotNil(t, updated.OTPCode)
	assert.Equal(t, "123456", *updated.OTPCode)
	require.NotNil(t, updated.OTPExpiresAt)

	require.NoError(t, updated.VerifyOTP("123456"))

	verified, err := repo.Update(ctx, updated)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Nil(t, verified.OTPCode)
	assert.Nil(t, verified.OTPExpiresAt)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	_, err := repo.GetByEmail(ctx, "nonexistent@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
