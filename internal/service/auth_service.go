package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quickgrab/backend/internal/logger"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/validation"
)

const (
	otpLength = 6
	otpTTL    = 15 * time.Minute

	// Порог уверенности, при котором верификация проходит автоматически.
	verificationPassThreshold = 70
	eduEmailConfidence        = 85
	unknownEmailConfidence    = 30
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error
	SetOTP(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error
	ConfirmEmail(ctx context.Context, userID uuid.UUID) error
	SetVerificationStatus(ctx context.Context, userID uuid.UUID, status string, idPhotoURL *string) error
	UpdateReputation(ctx context.Context, userID uuid.UUID, trustScore int, badges []string, avgRating float64) error
	CreateSession(ctx context.Context, session *models.Session) error
	DeleteSession(ctx context.Context, refreshToken string) error
}

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	College  string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User      *models.User
	TokenPair *TokenPair
}

// VerificationResult описывает итог проверки студенческого статуса.
type VerificationResult struct {
	Status     string `json:"status"`
	Confidence int    `json:"confidence"`
	Reasoning  string `json:"reasoning"`
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
	}
}

// Register создаёт нового пользователя и отправляет код подтверждения email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return nil, fmt.Errorf("auth service: email уже зарегистрирован")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Name:               strings.TrimSpace(in.Name),
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:       string(passHash),
		VerificationStatus: models.VerificationStatusPending,
		Badges:             []string{},
	}
	if college := strings.TrimSpace(in.College); college != "" {
		user.College = &college
	}
	user.TrustScore, user.Badges = reputationFor(user)

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, user); err != nil {
		// Код можно запросить повторно, регистрацию не прерываем.
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("auth service: не удалось отправить код подтверждения")
		}
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.createSession(ctx, user.ID, tokenPair.RefreshToken, refreshExp, meta); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Login проверяет учётные данные и возвращает токены.
func (s *AuthService) Login(ctx context.Context, in LoginInput, meta map[string]string) (*AuthResult, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	user, err := s.repo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: неверный email или пароль")
	}

	if err := s.repo.UpdateLastLoginAt(ctx, user.ID); err != nil {
		// Логируем ошибку, но не прерываем процесс логина
		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Warn("auth service: не удалось обновить last_login_at")
		}
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.createSession(ctx, user.ID, tokenPair.RefreshToken, refreshExp, meta); err != nil {
		return nil, err
	}

	return &AuthResult{User: user, TokenPair: tokenPair}, nil
}

// Refresh выпускает новую пару токенов.
func (s *AuthService) Refresh(ctx context.Context, oldToken string, meta map[string]string) (*TokenPair, error) {
	claims, err := s.tokenManager.ParseRefresh(oldToken)
	if err != nil {
		return nil, fmt.Errorf("auth service: refresh токен невалиден: %w", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("auth service: некорректный subject: %w", err)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tokenPair, _, refreshExp, err := s.tokenManager.GeneratePair(user)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteSession(ctx, oldToken); err != nil {
		return nil, err
	}

	if err := s.createSession(ctx, userID, tokenPair.RefreshToken, refreshExp, meta); err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// VerifyEmail проверяет код подтверждения и помечает email подтверждённым.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("auth service: пользователь не найден")
	}

	if user.EmailVerified {
		return nil
	}

	if user.OTPCode == nil || user.OTPExpiresAt == nil {
		return fmt.Errorf("auth service: код подтверждения не запрошен")
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return fmt.Errorf("auth service: код подтверждения истёк")
	}
	if *user.OTPCode != code {
		return fmt.Errorf("auth service: неверный код подтверждения")
	}

	return s.repo.ConfirmEmail(ctx, user.ID)
}

// ResendOTP выпускает новый код подтверждения email.
func (s *AuthService) ResendOTP(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("auth service: пользователь не найден")
	}

	if user.EmailVerified {
		return fmt.Errorf("auth service: email уже подтверждён")
	}

	return s.issueOTP(ctx, user)
}

// VerifyID проверяет студенческий статус по фото ID. Доменная эвристика:
// адрес в зоне .edu даёт уверенность 85, остальные — 30. Статус VERIFIED
// присваивается только при уверенности выше порога, иначе REJECTED.
func (s *AuthService) VerifyID(ctx context.Context, userID uuid.UUID, idPhotoURL string) (*VerificationResult, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &VerificationResult{
		Confidence: unknownEmailConfidence,
		Reasoning:  "домен email не относится к учебному заведению",
	}
	if strings.HasSuffix(user.Email, ".edu") || strings.Contains(user.Email, ".edu.") {
		result.Confidence = eduEmailConfidence
		result.Reasoning = "email принадлежит домену учебного заведения"
	}

	result.Status = models.VerificationStatusRejected
	if result.Confidence > verificationPassThreshold {
		result.Status = models.VerificationStatusVerified
	}

	photoURL := idPhotoURL
	if err := s.repo.SetVerificationStatus(ctx, userID, result.Status, &photoURL); err != nil {
		return nil, err
	}

	// Верификация — слагаемое балла доверия, пересчитываем сразу.
	user.VerificationStatus = result.Status
	score, badges := reputationFor(user)
	if err := s.repo.UpdateReputation(ctx, userID, score, badges, user.AvgRating); err != nil {
		return nil, err
	}

	return result, nil
}

// Logout удаляет сессию по refresh токену.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.repo.DeleteSession(ctx, refreshToken)
}

// issueOTP генерирует и сохраняет код подтверждения email.
// Почтового провайдера нет: код пишется в лог, как и письмо в dev-режиме.
func (s *AuthService) issueOTP(ctx context.Context, user *models.User) error {
	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("auth service: не удалось сгенерировать код: %w", err)
	}

	expiresAt := time.Now().Add(otpTTL)
	if err := s.repo.SetOTP(ctx, user.ID, code, expiresAt); err != nil {
		return err
	}

	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
			"code":    code,
		}).Info("auth service: код подтверждения email выпущен")
	}

	return nil
}

func (s *AuthService) createSession(ctx context.Context, userID uuid.UUID, refreshToken string, expiresAt time.Time, meta map[string]string) error {
	session := &models.Session{
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}

	if meta != nil {
		if ua, ok := meta["user_agent"]; ok {
			session.UserAgent = &ua
		}
		if ip, ok := meta["ip"]; ok {
			session.IPAddress = &ip
		}
	}

	return s.repo.CreateSession(ctx, session)
}

// generateOTP возвращает случайный шестизначный код.
func generateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpLength; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", otpLength, n), nil
}
