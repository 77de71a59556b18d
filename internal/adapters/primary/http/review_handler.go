package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/homelink/marketplace-backend/internal/adapters/primary/http/middleware"
	"github.com/homelink/marketplace-backend/internal/adapters/primary/validation"
	"github.com/homelink/marketplace-backend/internal/auth"
	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

const maxReviewsPerPage = 100

// ReviewHandler handles HTTP requests for reviews, mounted under
// /projects/{projectID}/review.
type ReviewHandler struct {
	reviewService ports.ReviewService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(
	reviewService ports.ReviewService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "review"),
	}
}

// Router sets up a new chi Router for the review routes.
func (h *ReviewHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubmitReview)
	return r
}

// --- Request/Response DTOs ---

// SubmitReviewRequest defines the expected JSON body for submitting a review
type SubmitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate validates the submit review request
func (r *SubmitReviewRequest) Validate() error {
	v := validation.NewValidator()

	v.Range("rating", r.Rating, domain.MinRating, domain.MaxRating)
	v.MaxLength("comment", r.Comment, domain.MaxReviewCommentLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ReviewDTO defines the JSON response for reviews.
type ReviewDTO struct {
	ID             int64  `json:"id"`
	ProjectID      int64  `json:"projectId"`
	HomeownerID    string `json:"homeownerId"`
	ProfessionalID string `json:"professionalId"`
	Rating         int    `json:"rating"`
	Comment        string `json:"comment"`
	CreatedAt      string `json:"createdAt"`
}

func toReviewDTO(review *domain.Review) ReviewDTO {
	return ReviewDTO{
		ID:             review.ID,
		ProjectID:      review.ProjectID,
		HomeownerID:    review.HomeownerID.String(),
		ProfessionalID: review.ProfessionalID.String(),
		Rating:         review.Rating,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt.Format(time.RFC3339),
	}
}

func toReviewDTOs(reviews []*domain.Review) []ReviewDTO {
	response := make([]ReviewDTO, 0, len(reviews))
	for _, review := range reviews {
		response = append(response, toReviewDTO(review))
	}
	return response
}

// --- Handlers ---

// HandleSubmitReview handles POST /projects/{projectID}/review
func (h *ReviewHandler) HandleSubmitReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[SubmitReviewRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	review, err := h.reviewService.SubmitReview(r.Context(), ports.SubmitReviewParams{
		ProjectID: projectID,
		AuthorID:  claims.UserID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("review submitted",
		"review_id", review.ID,
		"project_id", projectID,
		"rating", req.Rating,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toReviewDTO(review))
}

func (h *ReviewHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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
