package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/homelink/marketplace-backend/internal/adapters/primary/validation"
	"github.com/homelink/marketplace-backend/internal/auth"
	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// AuthHandler handles HTTP requests for registration and authentication
type AuthHandler struct {
	authService  ports.AuthService
	tokenManager *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(
	authService ports.AuthService,
	tokenManager *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		tokenManager: tokenManager,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// Router sets up a new chi Router for all auth routes.
func (h *AuthHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/verify", h.HandleVerifyAccount)
	r.Post("/resend-otp", h.HandleResendOTP)
	return r
}

// --- Request/Response DTOs ---

// RegisterRequest defines the expected JSON body for registration
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate validates the register request
func (r *RegisterRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("fullName", r.FullName).
		MaxLength("fullName", r.FullName, domain.MaxFullNameLength)

	v.Required("email", r.Email).
		Email("email", r.Email)

	v.Required("password", r.Password)

	v.Required("role", r.Role).
		OneOf("role", r.Role, []string{"HOMEOWNER", "PROFESSIONAL"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// LoginRequest defines the expected JSON body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest defines the expected JSON body for account verification
type VerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Validate validates the verify request
func (r *VerifyRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email)

	v.Required("otp", r.OTP).
		Custom("otp", len(r.OTP) == domain.OTPLength, "Must be a 6-digit code")

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ResendOTPRequest defines the expected JSON body for requesting a new code
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// TokenResponse is returned on successful login
type TokenResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UserDTO defines the JSON response for user accounts.
type UserDTO struct {
	ID         string   `json:"id"`
	Role       string   `json:"role"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	IsVerified bool     `json:"isVerified"`
	Trade      string   `json:"trade,omitempty"`
	Bio        string   `json:"bio,omitempty"`
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

func toUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:         user.ID.String(),
		Role:       string(user.Role),
		FullName:   user.FullName,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		Trade:      user.Trade,
		Bio:        user.Bio,
		HourlyRate: user.HourlyRate,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

// --- Handlers ---

// HandleRegister handles POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[RegisterRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), domain.UserRegistrationParams{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user registered",
		"user_id", user.ID,
		"role", user.Role,
	)

	WriteCreated(w, toUserDTO(user))
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.tokenManager.GenerateToken(user.ID, user.Role)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user logged in", "user_id", user.ID)

	WriteJSON(w, http.StatusOK, TokenResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}

// HandleVerifyAccount handles POST /auth/verify
func (h *AuthHandler) HandleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[VerifyRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.authService.VerifyAccount(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("account verified", "user_id", user.ID)

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleResendOTP handles POST /auth/resend-otp
func (h *AuthHandler) HandleResendOTP(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[ResendOTPRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.authService.ResendOTP(r.Context(), req.Email); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, SuccessResponse{Message: "Verification code sent"})
}
