package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	apperrors "github.com/homelink/marketplace-backend/internal/core/errors"
	"github.com/homelink/marketplace-backend/internal/core/mocks"
	"github.com/homelink/marketplace-backend/internal/core/ports"
	"github.com/homelink/marketplace-backend/internal/core/services"
)

func TestChatService_SendMessage(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()
	professionalID := uuid.New()
	projectID := int64(1)

	project := func() *domain.Project {
		pro := professionalID
		return &domain.Project{
			ID:             projectID,
			HomeownerID:    homeownerID,
			Status:         domain.StatusInProgress,
			ProfessionalID: &pro,
		}
	}

	t.Run("participant sends a message", func(t *testing.T) {
		mockChat := mocks.NewMockChatRepository()
		mockProjects := mocks.NewMockProjectRepository()

		svc := services.NewChatService(mockChat, mockProjects)

		mockProjects.On("GetByID", ctx, projectID).Return(project(), nil)
		mockChat.On("Create", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
			return m.ProjectID == projectID && m.SenderID == professionalID
		})).Return(&domain.ChatMessage{
			ID:        1,
			ProjectID: projectID,
			SenderID:  professionalID,
			Body:      "On my way",
		}, nil)

		message, err := svc.SendMessage(ctx, ports.SendMessageParams{
			ProjectID: projectID,
			SenderID:  professionalID,
			Body:      "On my way",
		})

		require.NoError(t, err)
		assert.Equal(t, "On my way", message.Body)
		mockChat.AssertExpectations(t)
	})

	t.Run("outsider is rejected", func(t *testing.T) {
		mockChat := mocks.NewMockChatRepository()
		mockProjects := mocks.NewMockProjectRepository()

		svc := services.NewChatService(mockChat, mockProjects)

		mockProjects.On("GetByID", ctx, projectID).Return(project(), nil)

		message, err := svc.SendMessage(ctx, ports.SendMessageParams{
			ProjectID: projectID,
			SenderID:  uuid.New(),
			Body:      "Hello",
		})

		assert.Nil(t, message)
		assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
		mockChat.AssertNotCalled(t, "Create")
	})

	t.Run("empty body is rejected", func(t *testing.T) {
		mockChat := mocks.NewMockChatRepository()
		mockProjects := mocks.NewMockProjectRepository()

		svc := services.NewChatService(mockChat, mockProjects)

		mockProjects.On("GetByID", ctx, projectID).Return(project(), nil)

		message, err := svc.SendMessage(ctx, ports.SendMessageParams{
			ProjectID: projectID,
			SenderID:  homeownerID,
			Body:      "",
		})

		assert.Nil(t, message)
		assert.ErrorIs(t, err, apperrors.ErrMessageBodyRequired)
	})
}

func TestChatService_ListMessages(t *testing.T) {
	ctx := context.Background()
	homeownerID := uuid.New()
	professionalID := uuid.New()
	projectID := int64(1)

	pro := professionalID
	project := &domain.Project{
		ID:             projectID,
		HomeownerID:    homeownerID,
		Status:         domain.StatusInProgress,
		ProfessionalID: &pro,
	}

	t.Run("participant polls after a cursor", func(t *testing.T) {
		mockChat := mocks.NewMockChatRepository()
		mockProjects := mocks.NewMockProjectRepository()

		svc := services.NewChatService(mockChat, mockProjects)

		mockProjects.On("GetByID", ctx, projectID).Return(project, nil)
		mockChat.On("ListByProjectID", ctx, projectID, int64(5), int32(50)).
			Return([]*domain.ChatMessage{
				{ID: 6, ProjectID: projectID, SenderID: homeownerID, Body: "Any update?"},
			}, nil)

		messages, err := svc.ListMessages(ctx, ports.ListMessagesParams{
			ProjectID: projectID,
			ViewerID:  professionalID,
			AfterID:   5,
			Limit:     50,
		})

		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, int64(6), messages[0].ID)
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		mockChat := mocks.NewMockChatRepository()
		mockProjects := mocks.NewMockProjectRepository()

		svc := services.NewChatService(mockChat, mockProjects)

		mockProjects.On("GetByID", ctx, projectID).Return(project, nil)

		messages, err := svc.ListMessages(ctx, ports.ListMessagesParams{
			ProjectID: projectID,
			ViewerID:  uuid.New(),
			AfterID:   0,
			Limit:     50,
		})

		assert.Nil(t, messages)
		assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
		mockChat.AssertNotCalled(t, "ListByProjectID")
	})
}
