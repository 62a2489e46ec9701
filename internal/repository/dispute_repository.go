package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quickgrab/backend/internal/models"
)

var (
	// ErrDisputeNotFound возвращается, когда спор не найден.
	ErrDisputeNotFound = errors.New("dispute not found")
	// ErrDisputeExists возвращается при попытке открыть второй спор по сделке.
	ErrDisputeExists = errors.New("dispute already exists")
)

// DisputeRepository отвечает за работу с таблицей disputes.
type DisputeRepository struct {
	db *sqlx.DB
}

// NewDisputeRepository создаёт экземпляр репозитория.
func NewDisputeRepository(db *sqlx.DB) *DisputeRepository {
	return &DisputeRepository{db: db}
}

func scanDispute(row sqlx.ColScanner) (*models.Dispute, error) {
	var dispute models.Dispute
	var photos pq.StringArray

	if err := row.Scan(
		&dispute.ID,
		&dispute.TransactionID,
		&dispute.OpenedBy,
		&dispute.EvidenceText,
		&photos,
		&dispute.Decision,
		&dispute.Confidence,
		&dispute.Reasoning,
		&dispute.SuggestedAction,
		&dispute.CreatedAt,
		&dispute.ResolvedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisputeNotFound
		}
		return nil, err
	}

	dispute.Photos = []string(photos)
	return &dispute, nil
}

// Create сохраняет спор. На сделку допускается один спор: повторный
// отклоняется ограничением БД.
func (r *DisputeRepository) Create(ctx context.Context, dispute *models.Dispute) error {
	query := `
		INSERT INTO disputes (transaction_id, opened_by, evidence_text, photos, decision, confidence)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		dispute.TransactionID, dispute.OpenedBy, dispute.EvidenceText,
		pq.Array(dispute.Photos), dispute.Decision, dispute.Confidence,
	).Scan(&dispute.ID, &dispute.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDisputeExists
		}
		return fmt.Errorf("dispute repository: create: %w", err)
	}

	return nil
}

// DisputeFilter задаёт фильтры списка споров.
type DisputeFilter struct {
	TransactionID *uuid.UUID
	Decision      string
}

// ListForUser возвращает споры по сделкам, в которых пользователь участвует,
// новые первыми. Чужие споры в выборку не попадают.
func (r *DisputeRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter DisputeFilter) ([]models.Dispute, error) {
	query := `
		SELECT d.id, d.transaction_id, d.opened_by, d.evidence_text, d.photos, d.decision,
			d.confidence, d.reasoning, d.suggested_action, d.created_at, d.resolved_at
		FROM disputes d
		JOIN transactions t ON t.id = d.transaction_id
		WHERE (t.buyer_id = $1 OR t.seller_id = $1)
	`
	args := []interface{}{userID}

	if filter.TransactionID != nil {
		args = append(args, *filter.TransactionID)
		query += fmt.Sprintf(" AND d.transaction_id = $%d", len(args))
	}
	if filter.Decision != "" {
		args = append(args, filter.Decision)
		query += fmt.Sprintf(" AND d.decision = $%d", len(args))
	}
	query += " ORDER BY d.created_at DESC"

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dispute repository: list for user: %w", err)
	}
	defer rows.Close()

	disputes := make([]models.Dispute, 0)
	for rows.Next() {
		dispute, err := scanDispute(rows)
		if err != nil {
			return nil, fmt.Errorf("dispute repository: list for user scan: %w", err)
		}
		disputes = append(disputes, *dispute)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("dispute repository: list for user rows: %w", err)
	}

	return disputes, nil
}

// UpdateResolution сохраняет вынесенное решение по спору.
func (r *DisputeRepository) UpdateResolution(ctx context.Context, id uuid.UUID, decision string, confidence int, reasoning, suggestedAction string, resolvedAt *time.Time) error {
	query := `
		UPDATE disputes
		SET decision = $2, confidence = $3, reasoning = $4, suggested_action = $5, resolved_at = $6
		WHERE id = $1
	`

	if _, err := r.db.ExecContext(ctx, query, id, decision, confidence, reasoning, suggestedAction, resolvedAt); err != nil {
		return fmt.Errorf("dispute repository: update resolution: %w", err)
	}

	return nil
}
