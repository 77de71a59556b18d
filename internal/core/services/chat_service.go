package services

import (
	"context"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ChatService implements the business logic for project chat. Messages are
// polled over REST; nothing in here touches the socket layer.
type ChatService struct {
	chatRepo    ports.ChatRepository
	projectRepo ports.ProjectRepository
}

var _ ports.ChatService = (*ChatService)(nil)

// NewChatService creates a new service for chat logic.
func NewChatService(chatRepo ports.ChatRepository, projectRepo ports.ProjectRepository) *ChatService {
	return &ChatService{
		chatRepo:    chatRepo,
		projectRepo: projectRepo,
	}
}

// SendMessage posts a message into a project's conversation. Only the
// homeowner and the hired professional participate.
func (s *ChatService) SendMessage(ctx context.Context, params ports.SendMessageParams) (*domain.ChatMessage, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsParticipant(params.SenderID) {
		return nil, apperrors.ErrNotParticipant
	}

	message, err := domain.NewChatMessage(domain.ChatMessageParams{
		ProjectID: params.ProjectID,
		SenderID:  params.SenderID,
		Body:      params.Body,
	})
	if err != nil {
		return nil, err
	}

	return s.chatRepo.Create(ctx, message)
}

// ListMessages polls a project's conversation after the given cursor.
func (s *ChatService) ListMessages(ctx context.Context, params ports.ListMessagesParams) ([]*domain.ChatMessage, error) {
	project, err := s.projectRepo.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if !project.IsParticipant(params.ViewerID) {
		return nil, apperrors.ErrNotParticipant
	}

	return s.chatRepo.ListByProjectID(ctx, params.ProjectID, params.AfterID, int32(params.Limit))
}
