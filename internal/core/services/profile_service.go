package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ProfileService implements profile reads and updates.
type ProfileService struct {
	userRepo ports.UserRepository
}

var _ ports.ProfileService = (*ProfileService)(nil)

// NewProfileService creates a new profile service
func NewProfileService(userRepo ports.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// GetProfile returns the authenticated user's own profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the editable fields to the user's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, params domain.ProfileUpdateParams) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := user.ApplyProfileUpdate(params); err != nil {
		return nil, err
	}

	return s.userRepo.Update(ctx, user)
}

// GetProfessional returns a professional's public profile.
func (s *ProfileService) GetProfessional(ctx context.Context, professionalID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, professionalID)
	if err != nil {
		return nil, err
	}

	if !user.IsProfessional() {
		return nil, apperrors.ErrUserNotFound
	}

	return user, nil
}
