package domain

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// Validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
	MaxBioLength      = 2000
	OTPLength         = 6
	OTPValidity       = 15 * time.Minute
)

// Role distinguishes the two account types on the marketplace.
type Role string

const (
	RoleHomeowner    Role = "HOMEOWNER"
	RoleProfessional Role = "PROFESSIONAL"
)

// IsValid reports whether the role is one of the known account types.
func (r Role) IsValid() bool {
	return r == RoleHomeowner || r == RoleProfessional
}

type User struct {
	ID             uuid.UUID
	Role           Role
	FullName       string
	Email          string
	HashedPassword string
	IsVerified     bool
	OTPCode        *string
	OTPExpiresAt   *time.Time
	// Professional profile fields; empty for homeowners.
	Trade      string
	Bio        string
	HourlyRate *float64
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// UserRegistrationParams holds parameters for user registration
type UserRegistrationParams struct {
	FullName string
	Email    string
	Password string
	Role     Role
}

// Validate validates user registration parameters
func (p *UserRegistrationParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.FullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(p.FullName) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	if !p.Role.IsValid() {
		errs.Add("role", "Role must be HOMEOWNER or PROFESSIONAL")
	}

	if passwordErrs := ValidatePassword(p.Password); len(passwordErrs) > 0 {
		for _, err := range passwordErrs {
			errs.Add("password", err)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
// Returns a slice of error messages (empty if valid)
func ValidatePassword(password string) []string {
	var errors []string

	if len(password) < MinPasswordLength {
		errors = append(errors, "Password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		errors = append(errors, "Password must be 128 characters or less")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasNumber {
		errors = append(errors, "Password must contain at least one number")
	}

	return errors
}

// isValidEmail validates email format
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if errs := ValidatePassword(password); len(errs) > 0 {
		return "", apperrors.ErrPasswordTooWeak
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// GenerateOTP produces a random numeric one-time code for email verification.
func GenerateOTP() (string, error) {
	code := ""
	for i := 0; i < OTPLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code += fmt.Sprintf("%d", n.Int64())
	}
	return code, nil
}

// SetOTP stores a fresh verification code with its expiry on the user.
func (u *User) SetOTP(code string) {
	expires := time.Now().UTC().Add(OTPValidity)
	u.OTPCode = &code
	u.OTPExpiresAt = &expires
}

// VerifyOTP checks the submitted code against the stored one. On success the
// account is marked verified and the code is cleared.
func (u *User) VerifyOTP(code string) error {
	if u.OTPCode == nil || u.OTPExpiresAt == nil {
		return apperrors.ErrInvalidOTP
	}
	if time.Now().UTC().After(*u.OTPExpiresAt) {
		return apperrors.ErrInvalidOTP
	}
	if *u.OTPCode != code {
		return apperrors.ErrInvalidOTP
	}

	u.IsVerified = true
	u.OTPCode = nil
	u.OTPExpiresAt = nil
	return nil
}

// IsProfessional reports whether the account belongs to a service professional.
func (u *User) IsProfessional() bool {
	return u.Role == RoleProfessional
}

// ProfileUpdateParams holds the editable profile fields.
type ProfileUpdateParams struct {
	FullName   string
	Trade      string
	Bio        string
	HourlyRate *float64
}

// ApplyProfileUpdate mutates the editable profile fields after validation.
func (u *User) ApplyProfileUpdate(params ProfileUpdateParams) error {
	errs := apperrors.NewValidationErrors()

	if params.FullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(params.FullName) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}

	if len(params.Bio) > MaxBioLength {
		errs.Add("bio", "Bio must be 2000 characters or less")
	}

	if params.HourlyRate != nil && *params.HourlyRate < 0 {
		errs.Add("hourlyRate", "Hourly rate cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}

	u.FullName = params.FullName
	u.Trade = params.Trade
	u.Bio = params.Bio
	u.HourlyRate = params.HourlyRate
	now := time.Now().UTC()
	u.UpdatedAt = &now
	return nil
}

// NewUser creates a new user with validated parameters
func NewUser(params UserRegistrationParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:             uuid.New(),
		Role:           params.Role,
		FullName:       params.FullName,
		Email:          params.Email,
		HashedPassword: hashedPassword,
		IsVerified:     false,
		CreatedAt:      time.Now().UTC(),
	}, nil
}
