package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// AuthService implements authentication business logic
type AuthService struct {
	userRepo ports.UserRepository
	notifier ports.Notifier
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service
func NewAuthService(userRepo ports.UserRepository, notifier ports.Notifier) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// Register creates a new user account and emails a verification code.
func (s *AuthService) Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := s.userRepo.GetByEmail(ctx, params.Email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err // An actual DB error occurred
	}

	user, err := domain.NewUser(params)
	if err != nil {
		return nil, err
	}

	otp, err := domain.GenerateOTP()
	if err != nil {
		return nil, err
	}
	user.SetOTP(otp)

	created, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	// OTP delivery is async and best-effort; registration never fails on it.
	go s.notifier.Notify(context.Background(), ports.NotificationParams{
		RecipientUserID: created.ID,
		Subject:         "Verify your account",
		Message:         fmt.Sprintf("Your verification code is %s", otp),
	})

	return created, nil
}

// Login authenticates a user with email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" {
		return nil, apperrors.ErrEmailRequired
	}
	if password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Don't reveal whether email exists
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, apperrors.ErrAccountNotVerified
	}

	return user, nil
}

// VerifyAccount checks the emailed code and marks the account verified.
func (s *AuthService) VerifyAccount(ctx context.Context, email, otp string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := user.VerifyOTP(otp); err != nil {
		return nil, err
	}

	return s.userRepo.Update(ctx, user)
}

// ResendOTP issues a fresh verification code to an unverified account.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return apperrors.ErrConflict
	}

	otp, err := domain.GenerateOTP()
	if err != nil {
		return err
	}
	user.SetOTP(otp)

	if _, err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	go s.notifier.Notify(context.Background(), ports.NotificationParams{
		RecipientUserID: user.ID,
		Subject:         "Verify your account",
		Message:         fmt.Sprintf("Your verification code is %s", otp),
	})

	return nil
}
