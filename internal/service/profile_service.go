package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/trust"
)

// Сколько оценок и объявлений встраивается в публичный профиль.
const profileEmbedLimit = 20

// ProfileRepositoryAPI описывает зависимости сервиса профилей от слоя
// хранилища.
type ProfileRepositoryAPI interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ProfileRatingRepository — доступ сервиса профилей к оценкам.
type ProfileRatingRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Rating, error)
}

// ProfileItemRepository — доступ сервиса профилей к объявлениям.
type ProfileItemRepository interface {
	List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, error)
}

// ProfileService отдаёт профили пользователей.
type ProfileService struct {
	users   ProfileRepositoryAPI
	ratings ProfileRatingRepository
	items   ProfileItemRepository
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(users ProfileRepositoryAPI, ratings ProfileRatingRepository, items ProfileItemRepository) *ProfileService {
	return &ProfileService{
		users:   users,
		ratings: ratings,
		items:   items,
	}
}

// GetPublic возвращает публичный профиль без email и служебных полей,
// с последними полученными оценками и доступными объявлениями продавца.
func (s *ProfileService) GetPublic(ctx context.Context, userID uuid.UUID) (*models.PublicProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}

	ratings, err := s.ratings.ListByUser(ctx, userID, profileEmbedLimit, 0)
	if err != nil {
		return nil, err
	}

	items, err := s.items.List(ctx, repository.ItemFilter{
		SellerID: &userID,
		Status:   models.ItemStatusAvailable,
		Limit:    profileEmbedLimit,
	})
	if err != nil {
		return nil, err
	}

	return &models.PublicProfile{
		PublicUser: models.PublicUser{
			ID:                 user.ID,
			Name:               user.Name,
			College:            user.College,
			VerificationStatus: user.VerificationStatus,
			TrustScore:         user.TrustScore,
			TrustLevel:         trust.Level(user.TrustScore),
			Badges:             badges,
			AvgRating:          user.AvgRating,
			CompletedDeals:     user.CompletedDeals,
			CancellationRate:   user.CancellationRate,
			Photo:              user.Photo,
			CreatedAt:          user.CreatedAt,
		},
		Ratings: ratings,
		Items:   items,
	}, nil
}

// GetOwn возвращает полный профиль владельцу.
func (s *ProfileService) GetOwn(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}
