package models

import (
	"time"

	"github.com/google/uuid"
)

// Message описывает сообщение в чате сделки.
type Message struct {
	ID            uuid.UUID `db:"id" json:"id"`
	TransactionID uuid.UUID `db:"transaction_id" json:"transaction_id"`
	SenderID      uuid.UUID `db:"sender_id" json:"sender_id"`
	Content       string    `db:"content" json:"content"`
	IsAIGenerated bool      `db:"is_ai_generated" json:"is_ai_generated"`
	Flagged       bool      `db:"flagged" json:"flagged"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
