package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
)

type mockUserRepoForProfile struct {
	mock.Mock
}

func (m *mockUserRepoForProfile) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type mockRatingRepoForProfile struct {
	mock.Mock
}

func (m *mockRatingRepoForProfile) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Rating, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Rating), args.Error(1)
}

type mockItemRepoForProfile struct {
	mock.Mock
}

func (m *mockItemRepoForProfile) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Item), args.Error(1)
}

func TestProfileService_GetPublic_EmbedsRatingsAndItems(t *testing.T) {
	userRepo := new(mockUserRepoForProfile)
	ratingRepo := new(mockRatingRepoForProfile)
	itemRepo := new(mockItemRepoForProfile)
	svc := NewProfileService(userRepo, ratingRepo, itemRepo)
	ctx := context.Background()

	userID := uuid.New()
	user := &models.User{
		ID:             userID,
		Name:           "Аня",
		TrustScore:     72,
		Badges:         []string{"Quick Responder"},
		AvgRating:      4.6,
		CompletedDeals: 12,
	}
	ratings := []models.Rating{
		{ID: uuid.New(), UserID: userID, Stars: 5},
		{ID: uuid.New(), UserID: userID, Stars: 4},
	}
	items := []models.Item{
		{ID: uuid.New(), SellerID: userID, Name: "textbook", AvailabilityStatus: models.ItemStatusAvailable},
	}

	userRepo.On("GetByID", ctx, userID).Return(user, nil)
	ratingRepo.On("ListByUser", ctx, userID, profileEmbedLimit, 0).Return(ratings, nil)
	itemRepo.On("List", ctx, mock.MatchedBy(func(filter repository.ItemFilter) bool {
		return filter.SellerID != nil && *filter.SellerID == userID &&
			filter.Status == models.ItemStatusAvailable
	})).Return(items, nil)

	profile, err := svc.GetPublic(ctx, userID)

	assert.NoError(t, err)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "Trusted", profile.TrustLevel)
	assert.Len(t, profile.Ratings, 2)
	assert.Len(t, profile.Items, 1)
	itemRepo.AssertExpectations(t)
}

func TestProfileService_GetPublic_NotFound(t *testing.T) {
	userRepo := new(mockUserRepoForProfile)
	svc := NewProfileService(userRepo, new(mockRatingRepoForProfile), new(mockItemRepoForProfile))
	ctx := context.Background()

	userID := uuid.New()
	userRepo.On("GetByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	_, err := svc.GetPublic(ctx, userID)

	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}

func TestProfileService_GetPublic_NilBadges(t *testing.T) {
	userRepo := new(mockUserRepoForProfile)
	ratingRepo := new(mockRatingRepoForProfile)
	itemRepo := new(mockItemRepoForProfile)
	svc := NewProfileService(userRepo, ratingRepo, itemRepo)
	ctx := context.Background()

	userID := uuid.New()
	userRepo.On("GetByID", ctx, userID).Return(&models.User{ID: userID}, nil)
	ratingRepo.On("ListByUser", ctx, userID, profileEmbedLimit, 0).Return([]models.Rating{}, nil)
	itemRepo.On("List", ctx, mock.Anything).Return([]models.Item{}, nil)

	profile, err := svc.GetPublic(ctx, userID)

	assert.NoError(t, err)
	assert.NotNil(t, profile.Badges)
	assert.Empty(t, profile.Badges)
}
