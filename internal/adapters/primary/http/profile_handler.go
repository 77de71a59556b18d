package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/homelink/marketplace-backend/internal/adapters/primary/http/middleware"
	"github.com/homelink/marketplace-backend/internal/adapters/primary/validation"
	"github.com/homelink/marketplace-backend/internal/auth"
	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ProfileHandler handles HTTP requests for the authenticated user's profile
// and public professional profiles.
type ProfileHandler struct {
	profileService ports.ProfileService
	reviewService  ports.ReviewService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(
	profileService ports.ProfileService,
	reviewService ports.ReviewService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		reviewService:  reviewService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "profile"),
	}
}

// MeRouter sets up the routes for the authenticated user's own profile.
func (h *ProfileHandler) MeRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.HandleGetMe)
	r.Put("/", h.HandleUpdateMe)
	return r
}

// ProfessionalsRouter sets up the public professional profile routes.
func (h *ProfileHandler) ProfessionalsRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/{professionalID}", func(r chi.Router) {
		r.Get("/", h.HandleGetProfessional)
		r.Get("/reviews", h.HandleListProfessionalReviews)
	})
	return r
}

// UpdateProfileRequest defines the expected JSON body for profile updates
type UpdateProfileRequest struct {
	FullName   string   `json:"fullName"`
	Trade      string   `json:"trade"`
	Bio        string   `json:"bio"`
	HourlyRate *float64 `json:"hourlyRate"`
}

// Validate validates the update profile request
func (r *UpdateProfileRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("fullName", r.FullName).
		MaxLength("fullName", r.FullName, domain.MaxFullNameLength)

	v.MaxLength("bio", r.Bio, domain.MaxBioLength)

	if r.HourlyRate != nil {
		v.Custom("hourlyRate", *r.HourlyRate >= 0, "Hourly rate cannot be negative")
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleGetMe handles GET /me
func (h *ProfileHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleUpdateMe handles PUT /me
func (h *ProfileHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[UpdateProfileRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), claims.UserID, domain.ProfileUpdateParams{
		FullName:   req.FullName,
		Trade:      req.Trade,
		Bio:        req.Bio,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("profile updated", "user_id", claims.UserID)

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleGetProfessional handles GET /professionals/{professionalID}
func (h *ProfileHandler) HandleGetProfessional(w http.ResponseWriter, r *http.Request) {
	professionalID, err := h.parseProfessionalID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, err := h.profileService.GetProfessional(r.Context(), professionalID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// HandleListProfessionalReviews handles GET /professionals/{professionalID}/reviews
func (h *ProfileHandler) HandleListProfessionalReviews(w http.ResponseWriter, r *http.Request) {
	professionalID, err := h.parseProfessionalID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	pagination := validation.ParsePagination(r, maxReviewsPerPage)

	reviews, err := h.reviewService.ListReviewsForProfessional(
		r.Context(), professionalID, pagination.Limit+1, pagination.Offset)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginated(w, toReviewDTOs(reviews), pagination.Limit, pagination.Offset)
}

func (h *ProfileHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

func (h *ProfileHandler) parseProfessionalID(r *http.Request) (uuid.UUID, error) {
	idStr := chi.URLParam(r, "professionalID")
	id, err := uuid.Parse(idStr)
	if err != nil {
		v := validation.NewValidator()
		v.Custom("professionalID", false, "Must be a valid UUID")
		return uuid.Nil, v.Errors()
	}
	return id, nil
}
