package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/homelink/marketplace-backend/internal/adapters/primary/http/middleware"
	"github.com/homelink/marketplace-backend/internal/adapters/primary/validation"
	"github.com/homelink/marketplace-backend/internal/auth"
	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// BidHandler handles HTTP requests for bids, mounted under
// /projects/{projectID}/bids.
type BidHandler struct {
	bidService   ports.BidService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewBidHandler creates a new bid handler
func NewBidHandler(
	bidService ports.BidService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *BidHandler {
	return &BidHandler{
		bidService:   bidService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "bid"),
	}
}

// Router sets up a new chi Router for all bid routes.
func (h *BidHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.HandleListBids)
	r.Post("/", h.HandlePlaceBid)

	r.Route("/{bidID}", func(r chi.Router) {
		r.Patch("/", h.HandleAmendBid)
		r.Post("/accept", h.HandleAcceptBid)
	})
	return r
}

// --- Request/Response DTOs ---

// PlaceBidRequest defines the expected JSON body for placing a bid
type PlaceBidRequest struct {
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

// Validate validates the place bid request
func (r *PlaceBidRequest) Validate() error {
	v := validation.NewValidator()

	v.Positive("amount", r.Amount)
	v.MaxLength("message", r.Message, domain.MaxBidMessageLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// BidDTO defines the JSON response for bids.
type BidDTO struct {
	ID             int64   `json:"id"`
	ProjectID      int64   `json:"projectId"`
	ProfessionalID string  `json:"professionalId"`
	Amount         float64 `json:"amount"`
	Message        string  `json:"message"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      *string `json:"updatedAt"`
}

func toBidDTO(bid *domain.Bid) BidDTO {
	var updatedAt *string
	if bid.UpdatedAt != nil {
		value := bid.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return BidDTO{
		ID:             bid.ID,
		ProjectID:      bid.ProjectID,
		ProfessionalID: bid.ProfessionalID.String(),
		Amount:         bid.Amount,
		Message:        bid.Message,
		Status:         string(bid.Status),
		CreatedAt:      bid.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      updatedAt,
	}
}

func toBidDTOs(bids []*domain.Bid) []BidDTO {
	response := make([]BidDTO, 0, len(bids))
	for _, bid := range bids {
		response = append(response, toBidDTO(bid))
	}
	return response
}

// --- Handlers ---

// HandleListBids handles GET /projects/{projectID}/bids
func (h *BidHandler) HandleListBids(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	bids, err := h.bidService.ListBidsForProject(r.Context(), projectID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, toBidDTOs(bids))
}

// HandlePlaceBid handles POST /projects/{projectID}/bids
func (h *BidHandler) HandlePlaceBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[PlaceBidRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	bid, err := h.bidService.PlaceBid(r.Context(), ports.PlaceBidParams{
		ProjectID:      projectID,
		ProfessionalID: claims.UserID,
		Amount:         req.Amount,
		Message:        req.Message,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("bid placed",
		"bid_id", bid.ID,
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toBidDTO(bid))
}

// HandleAmendBid handles PATCH /projects/{projectID}/bids/{bidID}
func (h *BidHandler) HandleAmendBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	bidID, err := h.parseBidID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[PlaceBidRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	bid, err := h.bidService.AmendBid(r.Context(), ports.AmendBidParams{
		BidID:   bidID,
		ActorID: claims.UserID,
		Amount:  req.Amount,
		Message: req.Message,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("bid amended", "bid_id", bidID, "user_id", claims.UserID)

	WriteJSON(w, http.StatusOK, toBidDTO(bid))
}

// HandleAcceptBid handles POST /projects/{projectID}/bids/{bidID}/accept
func (h *BidHandler) HandleAcceptBid(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	bidID, err := h.parseBidID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	bid, err := h.bidService.AcceptBid(r.Context(), ports.AcceptBidParams{
		ProjectID: projectID,
		BidID:     bidID,
		ActorID:   claims.UserID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("bid accepted",
		"bid_id", bidID,
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toBidDTO(bid))
}

func (h *BidHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

func (h *BidHandler) parseBidID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "bidID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		v := validation.NewValidator()
		v.Custom("bidID", false, "Invalid bid ID")
		return 0, v.Errors()
	}
	return id, nil
}
