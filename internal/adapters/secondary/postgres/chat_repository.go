package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/homelink/marketplace-backend/internal/core/domain"
	"github.com/homelink/marketplace-backend/internal/core/ports"
)

// ChatRepository is the secondary adapter for chat message persistence.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// Ensure ChatRepository implements the ports.ChatRepository interface.
var _ ports.ChatRepository = (*ChatRepository)(nil)

// NewChatRepository creates a new chat repository.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

const chatColumns = `id, project_id, sender_id, body, created_at`

func scanChatMessage(row pgx.Row) (*domain.ChatMessage, error) {
	var message domain.ChatMessage
	err := row.Scan(
		&message.ID,
		&message.ProjectID,
		&message.SenderID,
		&message.Body,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Create persists a new chat message.
func (r *ChatRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	query := `
		INSERT INTO chat_messages (project_id, sender_id, body, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + chatColumns

	return scanChatMessage(r.pool.QueryRow(ctx, query,
		message.ProjectID,
		message.SenderID,
		message.Body,
		message.CreatedAt,
	))
}

// ListByProjectID retrieves messages for a project in ascending ID order,
// starting after the given cursor. Clients poll with the last ID they saw.
func (r *ChatRepository) ListByProjectID(ctx context.Context, projectID int64, afterID int64, limit int32) ([]*domain.ChatMessage, error) {
	query := `SELECT ` + chatColumns + `
		FROM chat_messages
		WHERE project_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, projectID, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		message, err := scanChatMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
