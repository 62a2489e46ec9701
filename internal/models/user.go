package models

import (
	"time"

	"github.com/google/uuid"
)

// User описывает сущность пользователя маркетплейса.
type User struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Email              string     `db:"email" json:"email"`
	PasswordHash       string     `db:"password_hash" json:"-"`
	College            *string    `db:"college" json:"college,omitempty"`
	VerificationStatus string     `db:"verification_status" json:"verification_status"`
	EmailVerified      bool       `db:"email_verified" json:"email_verified"`
	OTPCode            *string    `db:"otp_code" json:"-"`
	OTPExpiresAt       *time.Time `db:"otp_expires_at" json:"-"`
	IDPhotoURL         *string    `db:"id_photo_url" json:"-"`
	TrustScore         int        `db:"trust_score" json:"trust_score"`
	Badges             []string   `db:"-" json:"badges"`
	AvgRating          float64    `db:"avg_rating" json:"avg_rating"`
	CompletedDeals     int        `db:"completed_deals" json:"completed_deals"`
	CancellationRate   float64    `db:"cancellation_rate" json:"cancellation_rate"`
	Photo              *string    `db:"photo" json:"photo,omitempty"`
	Location           *string    `db:"location" json:"location,omitempty"`
	LastLoginAt        *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// PublicUser возвращает урезанное представление для чужих профилей.
type PublicUser struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	College            *string   `json:"college,omitempty"`
	VerificationStatus string    `json:"verification_status"`
	TrustScore         int       `json:"trust_score"`
	TrustLevel         string    `json:"trust_level"`
	Badges             []string  `json:"badges"`
	AvgRating          float64   `json:"avg_rating"`
	CompletedDeals     int       `json:"completed_deals"`
	CancellationRate   float64   `json:"cancellation_rate"`
	Photo              *string   `json:"photo,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// PublicProfile — публичный профиль с последними оценками и доступными
// объявлениями пользователя.
type PublicProfile struct {
	PublicUser
	Ratings []Rating `json:"ratings"`
	Items   []Item   `json:"items"`
}

// Session представляет сохранённую сессию пользователя.
type Session struct {
	ID           uuid.UUID `db:"id" json:"id"`
	UserID       uuid.UUID `db:"user_id" json:"user_id"`
	RefreshToken string    `db:"refresh_token" json:"refresh_token"`
	UserAgent    *string   `db:"user_agent" json:"user_agent,omitempty"`
	IPAddress    *string   `db:"ip_address" json:"ip_address,omitempty"`
	ExpiresAt    time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
