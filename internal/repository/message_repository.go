package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/quickgrab/backend/internal/models"
)

// MessageRepository отвечает за работу с таблицей messages.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт экземпляр репозитория.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет сообщение чата сделки.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (transaction_id, sender_id, content, is_ai_generated)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		message.TransactionID, message.SenderID, message.Content, message.IsAIGenerated,
	).Scan(&message.ID, &message.CreatedAt); err != nil {
		return fmt.Errorf("message repository: create: %w", err)
	}

	return nil
}

// ListByTransaction возвращает сообщения сделки в хронологическом порядке.
func (r *MessageRepository) ListByTransaction(ctx context.Context, transactionID uuid.UUID, limit, offset int) ([]models.Message, error) {
	query := `
		SELECT id, transaction_id, sender_id, content, is_ai_generated, flagged, created_at
		FROM messages
		WHERE transaction_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3
	`

	messages := make([]models.Message, 0)
	if err := r.db.SelectContext(ctx, &messages, query, transactionID, limit, offset); err != nil {
		return nil, fmt.Errorf("message repository: list by transaction: %w", err)
	}

	return messages, nil
}

// CountByTransaction возвращает число сообщений в чате сделки.
func (r *MessageRepository) CountByTransaction(ctx context.Context, transactionID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE transaction_id = $1`

	if err := r.db.GetContext(ctx, &count, query, transactionID); err != nil {
		return 0, fmt.Errorf("message repository: count by transaction: %w", err)
	}

	return count, nil
}

// Flag помечает сообщение как подозрительное по итогам модерации.
func (r *MessageRepository) Flag(ctx context.Context, messageID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE messages SET flagged = TRUE WHERE id = $1`, messageID); err != nil {
		return fmt.Errorf("message repository: flag: %w", err)
	}
	return nil
}
