package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction связывает покупателя, продавца и товар на всём пути сделки
// от запроса до завершения либо возврата.
type Transaction struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	BuyerID        uuid.UUID  `db:"buyer_id" json:"buyer_id"`
	SellerID       uuid.UUID  `db:"seller_id" json:"seller_id"`
	ItemID         uuid.UUID  `db:"item_id" json:"item_id"`
	Status         string     `db:"status" json:"status"`
	EscrowAmount   float64    `db:"escrow_amount" json:"escrow_amount"`
	MeetupLocation *string    `db:"meetup_location" json:"meetup_location,omitempty"`
	CountdownStart *time.Time `db:"countdown_start" json:"countdown_start,omitempty"`
	CountdownEnd   *time.Time `db:"countdown_end" json:"countdown_end,omitempty"`
	PaymentID      *string    `db:"payment_id" json:"payment_id,omitempty"`
	RefundID       *string    `db:"refund_id" json:"refund_id,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// CountdownExpired сообщает, истекло ли окно встречи после оплаты.
func (t *Transaction) CountdownExpired(now time.Time) bool {
	return t.CountdownEnd != nil && now.After(*t.CountdownEnd)
}
