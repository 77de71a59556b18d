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

const (
	defaultMessagesLimit = 50
	maxMessagesLimit     = 200
)

// ChatHandler handles HTTP requests for project chat, mounted under
// /projects/{projectID}/messages. Clients poll with an after cursor.
type ChatHandler struct {
	chatService  ports.ChatService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(
	chatService ports.ChatService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "chat"),
	}
}

// Router sets up a new chi Router for the chat routes.
func (h *ChatHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.HandleListMessages)
	r.Post("/", h.HandleSendMessage)
	return r
}

// --- Request/Response DTOs ---

// SendMessageRequest defines the expected JSON body for sending a message
type SendMessageRequest struct {
	Body string `json:"body"`
}

// Validate validates the send message request
func (r *SendMessageRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("body", r.Body).
		MaxLength("body", r.Body, domain.MaxMessageBodyLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ChatMessageDTO defines the JSON response for chat messages.
type ChatMessageDTO struct {
	ID        int64  `json:"id"`
	ProjectID int64  `json:"projectId"`
	SenderID  string `json:"senderId"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}

func toChatMessageDTO(message *domain.ChatMessage) ChatMessageDTO {
	return ChatMessageDTO{
		ID:        message.ID,
		ProjectID: message.ProjectID,
		SenderID:  message.SenderID.String(),
		Body:      message.Body,
		CreatedAt: message.CreatedAt.Format(time.RFC3339),
	}
}

// ChatMessagesResponse is the polled page of messages with the next cursor.
type ChatMessagesResponse struct {
	Data       []ChatMessageDTO `json:"data"`
	NextCursor *int64           `json:"nextCursor,omitempty"`
}

// --- Handlers ---

// HandleListMessages handles GET /projects/{projectID}/messages
func (h *ChatHandler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	afterID, limit, err := h.parseMessageQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), ports.ListMessagesParams{
		ProjectID: projectID,
		ViewerID:  claims.UserID,
		AfterID:   afterID,
		Limit:     limit,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	dtos := make([]ChatMessageDTO, 0, len(messages))
	for _, message := range messages {
		dtos = append(dtos, toChatMessageDTO(message))
	}

	var nextCursor *int64
	if len(messages) > 0 {
		cursor := messages[len(messages)-1].ID
		nextCursor = &cursor
	}

	WriteJSON(w, http.StatusOK, ChatMessagesResponse{
		Data:       dtos,
		NextCursor: nextCursor,
	})
}

// HandleSendMessage handles POST /projects/{projectID}/messages
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := ParseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[SendMessageRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	message, err := h.chatService.SendMessage(r.Context(), ports.SendMessageParams{
		ProjectID: projectID,
		SenderID:  claims.UserID,
		Body:      req.Body,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteCreated(w, toChatMessageDTO(message))
}

func (h *ChatHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

func (h *ChatHandler) parseMessageQuery(r *http.Request) (int64, int, error) {
	v := validation.NewValidator()

	afterID := int64(0)
	if afterStr := r.URL.Query().Get("after"); afterStr != "" {
		parsed, err := strconv.ParseInt(afterStr, 10, 64)
		if err != nil || parsed < 0 {
			v.Custom("after", false, "after must be a positive integer")
		} else {
			afterID = parsed
		}
	}

	limit := defaultMessagesLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			v.Custom("limit", false, "limit must be a positive integer")
		} else {
			limit = parsed
		}
	}

	if limit > maxMessagesLimit {
		v.Custom("limit", false, "limit exceeds maximum")
	}

	if v.HasErrors() {
		return 0, 0, v.Errors()
	}

	return afterID, limit, nil
}
