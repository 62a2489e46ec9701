package models

import (
	"time"

	"github.com/google/uuid"
)

// Item описывает объявление о продаже товара.
type Item struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	SellerID           uuid.UUID `db:"seller_id" json:"seller_id"`
	Name               string    `db:"name" json:"name"`
	Category           string    `db:"category" json:"category"`
	Description        *string   `db:"description" json:"description,omitempty"`
	Price              float64   `db:"price" json:"price"`
	Condition          string    `db:"condition" json:"condition"`
	AvailabilityStatus string    `db:"availability_status" json:"availability_status"`
	Photos             []string  `db:"-" json:"photos"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// ItemWithPriceCheck дополняет товар оценкой справедливости цены.
type ItemWithPriceCheck struct {
	Item
	PriceRating      string  `json:"price_rating,omitempty"`
	AvgCampusPrice   float64 `json:"avg_campus_price,omitempty"`
	PriceExplanation string  `json:"price_explanation,omitempty"`
}
