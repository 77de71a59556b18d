package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
)

// MaxMessageBodyLength caps a single chat message.
const MaxMessageBodyLength = 4000

// ChatMessage is a project-scoped message between the homeowner and the
// hired professional. Chat is polled over REST; the socket layer carries
// notifications only.
type ChatMessage struct {
	ID        int64
	ProjectID int64
	SenderID  uuid.UUID
	Body      string
	CreatedAt time.Time
}

// ChatMessageParams holds the input for sending a chat message.
type ChatMessageParams struct {
	ProjectID int64
	SenderID  uuid.UUID
	Body      string
}

// NewChatMessage is a factory function to create a valid new chat message.
func NewChatMessage(params ChatMessageParams) (*ChatMessage, error) {
	if params.Body == "" {
		return nil, apperrors.ErrMessageBodyRequired
	}
	if len(params.Body) > MaxMessageBodyLength {
		return nil, apperrors.ErrMessageBodyTooLong
	}

	return &ChatMessage{
		ProjectID: params.ProjectID,
		SenderID:  params.SenderID,
		Body:      params.Body,
		CreatedAt: time.Now().UTC(),
	}, nil
}
