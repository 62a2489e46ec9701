package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/validation"
)

// RatingRepositoryAPI описывает зависимости сервиса оценок от слоя хранилища.
type RatingRepositoryAPI interface {
	Create(ctx context.Context, rating *models.Rating) error
	ExistsByPair(ctx context.Context, userID, fromUserID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Rating, error)
	AverageForUser(ctx context.Context, userID uuid.UUID) (float64, int, error)
}

// RatingUserRepository — доступ сервиса оценок к пользователям.
type RatingUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateReputation(ctx context.Context, userID uuid.UUID, trustScore int, badges []string, avgRating float64) error
}

// RatingTransactionRepository — доступ сервиса оценок к сделкам.
type RatingTransactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// RatingService инкапсулирует бизнес-логику взаимных оценок.
type RatingService struct {
	repo         RatingRepositoryAPI
	users        RatingUserRepository
	transactions RatingTransactionRepository
}

// RateInput содержит данные новой оценки.
type RateInput struct {
	TransactionID uuid.UUID
	Stars         int
	Comment       *string
}

// NewRatingService создаёт сервис оценок.
func NewRatingService(repo RatingRepositoryAPI, users RatingUserRepository, transactions RatingTransactionRepository) *RatingService {
	return &RatingService{
		repo:         repo,
		users:        users,
		transactions: transactions,
	}
}

// Rate ставит оценку контрагенту по завершённой сделке. Каждая пара
// (автор, цель) оценивается один раз.
func (s *RatingService) Rate(ctx context.Context, raterID uuid.UUID, in RateInput) (*models.Rating, error) {
	if err := validation.ValidateStars(in.Stars); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateComment(in.Comment); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	txn, err := s.transactions.GetByID(ctx, in.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	var targetID uuid.UUID
	switch raterID {
	case txn.BuyerID:
		targetID = txn.SellerID
	case txn.SellerID:
		targetID = txn.BuyerID
	default:
		return nil, apperror.ErrTransactionNotFound
	}

	if txn.Status != models.TransactionStatusCompleted {
		return nil, apperror.New(apperror.ErrCodeConflict, "оценка доступна только по завершённой сделке")
	}

	exists, err := s.repo.ExistsByPair(ctx, targetID, raterID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.New(apperror.ErrCodeConflict, "вы уже оценили этого пользователя")
	}

	rating := &models.Rating{
		UserID:        targetID,
		FromUserID:    raterID,
		TransactionID: in.TransactionID,
		Stars:         in.Stars,
		Comment:       in.Comment,
	}

	if err := s.repo.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrRatingExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "вы уже оценили этого пользователя")
		}
		return nil, err
	}

	if err := s.recalculateReputation(ctx, targetID); err != nil {
		return nil, err
	}

	return rating, nil
}

// ListByUser возвращает оценки пользователя.
func (s *RatingService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Rating, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// recalculateReputation обновляет среднюю оценку, балл доверия и бейджи цели.
func (s *RatingService) recalculateReputation(ctx context.Context, userID uuid.UUID) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	avg, _, err := s.repo.AverageForUser(ctx, userID)
	if err != nil {
		return err
	}

	user.AvgRating = avg
	score, badges := reputationFor(user)

	return s.users.UpdateReputation(ctx, userID, score, badges, avg)
}
