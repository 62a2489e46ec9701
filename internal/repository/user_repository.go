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

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, name, email, password_hash, college, verification_status, email_verified,
	otp_code, otp_expires_at, id_photo_url, trust_score, badges, avg_rating, completed_deals,
	cancellation_rate, photo, location, last_login_at, created_at, updated_at`

// UserRepository отвечает за работу с таблицами users и user_sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// scanUser читает строку users вместе с массивом badges.
func scanUser(row sqlx.ColScanner) (*models.User, error) {
	var user models.User
	var badges pq.StringArray

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.College,
		&user.VerificationStatus,
		&user.EmailVerified,
		&user.OTPCode,
		&user.OTPExpiresAt,
		&user.IDPhotoURL,
		&user.TrustScore,
		&badges,
		&user.AvgRating,
		&user.CompletedDeals,
		&user.CancellationRate,
		&user.Photo,
		&user.Location,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Badges = []string(badges)
	return &user, nil
}

// Create создаёт нового пользователя с базовым баллом доверия.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, college, verification_status, trust_score, badges)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Name, user.Email, user.PasswordHash, user.College, user.VerificationStatus,
		user.TrustScore, pq.Array(user.Badges),
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return fmt.Errorf("user repository: create: %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("user repository: get by email: %w", err)
	}
	return user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row := r.db.QueryRowxContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("user repository: get by id: %w", err)
	}
	return user, nil
}

// UpdateLastLoginAt обновляет время последнего входа пользователя.
func (r *UserRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("user repository: update last login at: %w", err)
	}
	return nil
}

// SetOTP сохраняет код подтверждения email.
func (r *UserRepository) SetOTP(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	query := `UPDATE users SET otp_code = $2, otp_expires_at = $3, updated_at = NOW() WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, userID, code, expiresAt); err != nil {
		return fmt.Errorf("user repository: set otp: %w", err)
	}
	return nil
}

// ConfirmEmail помечает email подтверждённым и очищает код.
func (r *UserRepository) ConfirmEmail(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET email_verified = TRUE, otp_code = NULL, otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("user repository: confirm email: %w", err)
	}
	return nil
}

// SetVerificationStatus обновляет статус верификации студента.
func (r *UserRepository) SetVerificationStatus(ctx context.Context, userID uuid.UUID, status string, idPhotoURL *string) error {
	query := `
		UPDATE users
		SET verification_status = $2, id_photo_url = COALESCE($3, id_photo_url), updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, status, idPhotoURL); err != nil {
		return fmt.Errorf("user repository: set verification status: %w", err)
	}
	return nil
}

// UpdateReputation перезаписывает производные поля репутации.
// Бейджи заменяются целиком: набор всегда пересчитывается заново.
func (r *UserRepository) UpdateReputation(ctx context.Context, userID uuid.UUID, trustScore int, badges []string, avgRating float64) error {
	query := `
		UPDATE users
		SET trust_score = $2, badges = $3, avg_rating = $4, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, trustScore, pq.Array(badges), avgRating); err != nil {
		return fmt.Errorf("user repository: update reputation: %w", err)
	}
	return nil
}

// UpdateDealStats перезаписывает статистику сделок вместе с репутацией.
func (r *UserRepository) UpdateDealStats(ctx context.Context, userID uuid.UUID, completedDeals int, cancellationRate float64, trustScore int, badges []string) error {
	query := `
		UPDATE users
		SET completed_deals = $2, cancellation_rate = $3, trust_score = $4, badges = $5, updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID, completedDeals, cancellationRate, trustScore, pq.Array(badges)); err != nil {
		return fmt.Errorf("user repository: update deal stats: %w", err)
	}
	return nil
}

// CreateSession сохраняет новую сессию пользователя.
func (r *UserRepository) CreateSession(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, refresh_token, user_agent, ip_address, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		session.UserID, session.RefreshToken, session.UserAgent, session.IPAddress, session.ExpiresAt,
	).Scan(&session.ID, &session.CreatedAt); err != nil {
		return fmt.Errorf("user repository: create session: %w", err)
	}

	return nil
}

// DeleteSession удаляет сессию по refresh токену.
func (r *UserRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_sessions WHERE refresh_token = $1`, refreshToken); err != nil {
		return fmt.Errorf("user repository: delete session: %w", err)
	}
	return nil
}
