package models

import (
	"time"

	"github.com/google/uuid"
)

// Dispute описывает спор по сделке. На одну сделку допускается не более
// одного спора.
type Dispute struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	TransactionID   uuid.UUID  `db:"transaction_id" json:"transaction_id"`
	OpenedBy        uuid.UUID  `db:"opened_by" json:"opened_by"`
	EvidenceText    string     `db:"evidence_text" json:"evidence_text"`
	Photos          []string   `db:"-" json:"photos"`
	Decision        string     `db:"decision" json:"decision"`
	Confidence      int        `db:"confidence" json:"confidence"`
	Reasoning       *string    `db:"reasoning" json:"reasoning,omitempty"`
	SuggestedAction *string    `db:"suggested_action" json:"suggested_action,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt      *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}
