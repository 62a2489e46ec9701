package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quickgrab/backend/internal/models"
)

// ErrItemNotFound возвращается, когда объявление не найдено.
var ErrItemNotFound = errors.New("item not found")

const itemColumns = `id, seller_id, name, category, description, price, condition,
	availability_status, photos, created_at, updated_at`

// ItemFilter задаёт параметры выборки объявлений.
type ItemFilter struct {
	Query     string
	Category  string
	Condition string
	MinPrice  *float64
	MaxPrice  *float64
	SellerID  *uuid.UUID
	Status    string
	Limit     int
	Offset    int
}

// ItemRepository отвечает за работу с таблицей items.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository создаёт экземпляр репозитория.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func scanItem(row sqlx.ColScanner) (*models.Item, error) {
	var item models.Item
	var photos pq.StringArray

	if err := row.Scan(
		&item.ID,
		&item.SellerID,
		&item.Name,
		&item.Category,
		&item.Description,
		&item.Price,
		&item.Condition,
		&item.AvailabilityStatus,
		&photos,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	item.Photos = []string(photos)
	return &item, nil
}

// Create создаёт объявление со статусом AVAILABLE.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (seller_id, name, category, description, price, condition, availability_status, photos)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		item.SellerID, item.Name, item.Category, item.Description, item.Price,
		item.Condition, item.AvailabilityStatus, pq.Array(item.Photos),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("item repository: create: %w", err)
	}

	return nil
}

// GetByID возвращает объявление по идентификатору.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("item repository: get by id: %w", err)
	}
	return item, nil
}

// Update обновляет редактируемые поля объявления.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $2, category = $3, description = $4, price = $5, condition = $6, photos = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx, query,
		item.ID, item.Name, item.Category, item.Description, item.Price,
		item.Condition, pq.Array(item.Photos),
	)
	if err != nil {
		return fmt.Errorf("item repository: update: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("item repository: update rows affected: %w", err)
	}
	if rows == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Delete удаляет объявление.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("item repository: delete: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("item repository: delete rows affected: %w", err)
	}
	if rows == 0 {
		return ErrItemNotFound
	}

	return nil
}

// List возвращает объявления по фильтру, отсортированные по дате создания.
func (r *ItemRepository) List(ctx context.Context, filter ItemFilter) ([]models.Item, error) {
	var conditions []string
	var args []interface{}
	arg := 1

	addCondition := func(clause string, value interface{}) {
		conditions = append(conditions, fmt.Sprintf(clause, arg))
		args = append(args, value)
		arg++
	}

	if filter.Query != "" {
		addCondition("(name ILIKE $%d OR description ILIKE $%[1]d)", "%"+filter.Query+"%")
	}
	if filter.Category != "" {
		addCondition("category = $%d", filter.Category)
	}
	if filter.Condition != "" {
		addCondition("condition = $%d", filter.Condition)
	}
	if filter.MinPrice != nil {
		addCondition("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCondition("price <= $%d", *filter.MaxPrice)
	}
	if filter.SellerID != nil {
		addCondition("seller_id = $%d", *filter.SellerID)
	}
	if filter.Status != "" {
		addCondition("availability_status = $%d", filter.Status)
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", arg, arg+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("item repository: list: %w", err)
	}
	defer rows.Close()

	items := make([]models.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("item repository: list scan: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("item repository: list rows: %w", err)
	}

	return items, nil
}

// AveragePriceByName возвращает среднюю цену доступных товаров с похожим
// названием и количество таких объявлений.
func (r *ItemRepository) AveragePriceByName(ctx context.Context, name string) (float64, int, error) {
	query := `
		SELECT COALESCE(AVG(price), 0), COUNT(*)
		FROM items
		WHERE name ILIKE $1 AND availability_status = $2
	`

	var avg float64
	var count int
	if err := r.db.QueryRowxContext(ctx, query, "%"+name+"%", models.ItemStatusAvailable).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("item repository: average price by name: %w", err)
	}

	return avg, count, nil
}
