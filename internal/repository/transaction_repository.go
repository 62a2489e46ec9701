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
	// ErrTransactionNotFound возвращается, когда сделка не найдена.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrItemUnavailable возвращается, когда товар уже зарезервирован или продан.
	ErrItemUnavailable = errors.New("item unavailable")
	// ErrStatusConflict возвращается, когда переход статуса не прошёл проверку
	// текущего состояния. Параллельный запрос успел изменить сделку первым.
	ErrStatusConflict = errors.New("transaction status conflict")
)

const transactionColumns = `id, buyer_id, seller_id, item_id, status, escrow_amount,
	meetup_location, countdown_start, countdown_end, payment_id, refund_id, created_at, updated_at`

// TransactionRepository отвечает за работу с таблицей transactions.
//
// Все переходы статусов выполняются условным UPDATE с проверкой текущего
// статуса в WHERE. Гонка двух конкурентных переходов разрешается на уровне
// БД: выигрывает первый, второй получает ErrStatusConflict.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository создаёт экземпляр репозитория.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetByID возвращает сделку по идентификатору.
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	if err := r.db.GetContext(ctx, &txn, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("transaction repository: get by id: %w", err)
	}

	return &txn, nil
}

// HasActiveForBuyerAndItem сообщает, есть ли у покупателя незавершённая
// сделка по этому товару.
func (r *TransactionRepository) HasActiveForBuyerAndItem(ctx context.Context, buyerID, itemID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE buyer_id = $1 AND item_id = $2 AND status = ANY($3)
		)
	`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, buyerID, itemID,
		pq.Array(models.ActiveTransactionStatuses))
	if err != nil {
		return false, fmt.Errorf("transaction repository: has active for buyer and item: %w", err)
	}

	return exists, nil
}

// CreateWithReservation атомарно создаёт сделку REQUESTED и резервирует товар.
// Если товар уже недоступен, вся операция откатывается.
func (r *TransactionRepository) CreateWithReservation(ctx context.Context, txn *models.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transaction repository: begin tx: %w", err)
	}
	defer tx.Rollback()

	reserve := `
		UPDATE items SET availability_status = $3, updated_at = NOW()
		WHERE id = $1 AND availability_status = $2
	`
	result, err := tx.ExecContext(ctx, reserve, txn.ItemID, models.ItemStatusAvailable, models.ItemStatusReserved)
	if err != nil {
		return fmt.Errorf("transaction repository: reserve item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction repository: reserve item rows affected: %w", err)
	}
	if rows == 0 {
		return ErrItemUnavailable
	}

	insert := `
		INSERT INTO transactions (buyer_id, seller_id, item_id, status, escrow_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowxContext(
		ctx, insert,
		txn.BuyerID, txn.SellerID, txn.ItemID, txn.Status, txn.EscrowAmount,
	).Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
		return fmt.Errorf("transaction repository: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction repository: commit: %w", err)
	}

	return nil
}

// UpdateStatusIf переводит сделку из одного из ожидаемых статусов в новый.
func (r *TransactionRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []string, to string) error {
	query := `
		UPDATE transactions SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`

	result, err := r.db.ExecContext(ctx, query, id, to, statusArray(from))
	if err != nil {
		return fmt.Errorf("transaction repository: update status: %w", err)
	}

	return checkTransition(result)
}

// MarkPaid переводит сделку ACCEPTED -> PAID, фиксируя платёж и запуская
// 24-часовое окно встречи.
func (r *TransactionRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentID string, start, end time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, payment_id = $3, countdown_start = $4, countdown_end = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
	`

	result, err := r.db.ExecContext(ctx, query, id,
		models.TransactionStatusPaid, paymentID, start, end, models.TransactionStatusAccepted)
	if err != nil {
		return fmt.Errorf("transaction repository: mark paid: %w", err)
	}

	return checkTransition(result)
}

// Complete атомарно завершает сделку и помечает товар проданным.
func (r *TransactionRepository) Complete(ctx context.Context, txn *models.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transaction repository: begin tx: %w", err)
	}
	defer tx.Rollback()

	update := `
		UPDATE transactions SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`
	result, err := tx.ExecContext(ctx, update, txn.ID, models.TransactionStatusCompleted,
		statusArray([]string{models.TransactionStatusPaid, models.TransactionStatusMeeting}))
	if err != nil {
		return fmt.Errorf("transaction repository: complete: %w", err)
	}
	if err := checkTransition(result); err != nil {
		return err
	}

	sold := `UPDATE items SET availability_status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, sold, txn.ItemID, models.ItemStatusSold); err != nil {
		return fmt.Errorf("transaction repository: mark item sold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction repository: commit: %w", err)
	}

	return nil
}

// Refund атомарно возвращает сделку в REFUNDED и товар в продажу.
func (r *TransactionRepository) Refund(ctx context.Context, txn *models.Transaction, refundID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transaction repository: begin tx: %w", err)
	}
	defer tx.Rollback()

	update := `
		UPDATE transactions SET status = $2, refund_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = ANY($4)
	`
	result, err := tx.ExecContext(ctx, update, txn.ID, models.TransactionStatusRefunded, refundID,
		statusArray([]string{models.TransactionStatusPaid, models.TransactionStatusMeeting}))
	if err != nil {
		return fmt.Errorf("transaction repository: refund: %w", err)
	}
	if err := checkTransition(result); err != nil {
		return err
	}

	release := `UPDATE items SET availability_status = $2, updated_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, release, txn.ItemID, models.ItemStatusAvailable); err != nil {
		return fmt.Errorf("transaction repository: release item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction repository: commit: %w", err)
	}

	return nil
}

// SetMeetupLocation сохраняет согласованное место встречи.
func (r *TransactionRepository) SetMeetupLocation(ctx context.Context, id uuid.UUID, location string) error {
	query := `UPDATE transactions SET meetup_location = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, location); err != nil {
		return fmt.Errorf("transaction repository: set meetup location: %w", err)
	}
	return nil
}

// ListByUser возвращает сделки, где пользователь выступает покупателем или
// продавцом, от новых к старым.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	transactions := make([]models.Transaction, 0)
	if err := r.db.SelectContext(ctx, &transactions, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("transaction repository: list by user: %w", err)
	}

	return transactions, nil
}

func statusArray(statuses []string) interface{} {
	return pq.Array(statuses)
}

func checkTransition(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transaction repository: rows affected: %w", err)
	}
	if rows == 0 {
		return ErrStatusConflict
	}
	return nil
}
