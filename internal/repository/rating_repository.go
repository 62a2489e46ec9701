package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/quickgrab/backend/internal/models"
)

// ErrRatingExists возвращается при повторной попытке оценить того же
// пользователя.
var ErrRatingExists = errors.New("rating already exists")

// RatingRepository отвечает за работу с таблицей ratings.
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository создаёт экземпляр репозитория.
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create сохраняет оценку. Пара (цель, автор) уникальна: повторная оценка
// отклоняется ограничением БД.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (user_id, from_user_id, transaction_id, stars, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(
		ctx, query,
		rating.UserID, rating.FromUserID, rating.TransactionID, rating.Stars, rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrRatingExists
		}
		return fmt.Errorf("rating repository: create: %w", err)
	}

	return nil
}

// ExistsByPair сообщает, оценивал ли автор этого пользователя ранее.
func (r *RatingRepository) ExistsByPair(ctx context.Context, userID, fromUserID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM ratings WHERE user_id = $1 AND from_user_id = $2)`

	if err := r.db.GetContext(ctx, &exists, query, userID, fromUserID); err != nil {
		return false, fmt.Errorf("rating repository: exists by pair: %w", err)
	}

	return exists, nil
}

// ListByUser возвращает оценки пользователя от новых к старым.
func (r *RatingRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Rating, error) {
	query := `
		SELECT id, user_id, from_user_id, transaction_id, stars, comment, created_at
		FROM ratings
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	ratings := make([]models.Rating, 0)
	if err := r.db.SelectContext(ctx, &ratings, query, userID, limit, offset); err != nil {
		return nil, fmt.Errorf("rating repository: list by user: %w", err)
	}

	return ratings, nil
}

// AverageForUser возвращает среднюю оценку пользователя и число оценок.
func (r *RatingRepository) AverageForUser(ctx context.Context, userID uuid.UUID) (float64, int, error) {
	var avg float64
	var count int
	query := `SELECT COALESCE(AVG(stars), 0), COUNT(*) FROM ratings WHERE user_id = $1`

	if err := r.db.QueryRowxContext(ctx, query, userID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("rating repository: average for user: %w", err)
	}

	return avg, count, nil
}
