package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating описывает одностороннюю оценку контрагента после завершения сделки.
type Rating struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	FromUserID    uuid.UUID `db:"from_user_id" json:"from_user_id"`
	TransactionID uuid.UUID `db:"transaction_id" json:"transaction_id"`
	Stars         int       `db:"stars" json:"stars"`
	Comment       *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
