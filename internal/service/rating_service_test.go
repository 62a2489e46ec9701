package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
)

type mockRatingRepo struct {
	mock.Mock
}

func (m *mockRatingRepo) Create(ctx context.Context, rating *models.Rating) error {
	args := m.Called(ctx, rating)
	if args.Error(0) == nil {
		rating.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockRatingRepo) ExistsByPair(ctx context.Context, userID, fromUserID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, fromUserID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRatingRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Rating, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *mockRatingRepo) AverageForUser(ctx context.Context, userID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

type mockUserRepoForRating struct {
	mock.Mock
}

func (m *mockUserRepoForRating) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepoForRating) UpdateReputation(ctx context.Context, userID uuid.UUID, trustScore int, badges []string, avgRating float64) error {
	args := m.Called(ctx, userID, trustScore, badges, avgRating)
	return args.Error(0)
}

type mockTxnRepoForRating struct {
	mock.Mock
}

func (m *mockTxnRepoForRating) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func newRatingServiceForTest() (*RatingService, *mockRatingRepo, *mockUserRepoForRating, *mockTxnRepoForRating) {
	ratingRepo := new(mockRatingRepo)
	userRepo := new(mockUserRepoForRating)
	txnRepo := new(mockTxnRepoForRating)
	return NewRatingService(ratingRepo, userRepo, txnRepo), ratingRepo, userRepo, txnRepo
}

func TestRatingService_Rate_BuyerRatesSeller(t *testing.T) {
	svc, ratingRepo, userRepo, txnRepo := newRatingServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.TransactionStatusCompleted,
	}, nil)
	ratingRepo.On("ExistsByPair", ctx, sellerID, buyerID).Return(false, nil)
	ratingRepo.On("Create", ctx, mock.AnythingOfType("*models.Rating")).Return(nil)
	ratingRepo.On("AverageForUser", ctx, sellerID).Return(5.0, 1, nil)
	userRepo.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID, CompletedDeals: 1}, nil)
	userRepo.On("UpdateReputation", ctx, sellerID,
		mock.AnythingOfType("int"), mock.Anything, 5.0).Return(nil)

	rating, err := svc.Rate(ctx, buyerID, RateInput{TransactionID: txnID, Stars: 5})

	assert.NoError(t, err)
	assert.Equal(t, sellerID, rating.UserID)
	assert.Equal(t, buyerID, rating.FromUserID)
	userRepo.AssertExpectations(t)
}

func TestRatingService_Rate_SellerRatesBuyer(t *testing.T) {
	svc, ratingRepo, userRepo, txnRepo := newRatingServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.TransactionStatusCompleted,
	}, nil)
	ratingRepo.On("ExistsByPair", ctx, buyerID, sellerID).Return(false, nil)
	ratingRepo.On("Create", ctx, mock.AnythingOfType("*models.Rating")).Return(nil)
	ratingRepo.On("AverageForUser", ctx, buyerID).Return(4.0, 2, nil)
	userRepo.On("GetByID", ctx, buyerID).Return(&models.User{ID: buyerID}, nil)
	userRepo.On("UpdateReputation", ctx, buyerID,
		mock.AnythingOfType("int"), mock.Anything, 4.0).Return(nil)

	rating, err := svc.Rate(ctx, sellerID, RateInput{TransactionID: txnID, Stars: 4})

	assert.NoError(t, err)
	assert.Equal(t, buyerID, rating.UserID)
}

func TestRatingService_Rate_NotCompleted(t *testing.T) {
	svc, _, _, txnRepo := newRatingServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusMeeting,
	}, nil)

	_, err := svc.Rate(ctx, buyerID, RateInput{TransactionID: txnID, Stars: 5})

	assert.True(t, apperror.IsConflict(err))
}

func TestRatingService_Rate_DuplicatePair(t *testing.T) {
	svc, ratingRepo, _, txnRepo := newRatingServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		Status:   models.TransactionStatusCompleted,
	}, nil)
	ratingRepo.On("ExistsByPair", ctx, sellerID, buyerID).Return(true, nil)

	_, err := svc.Rate(ctx, buyerID, RateInput{TransactionID: txnID, Stars: 5})

	assert.True(t, apperror.IsConflict(err))
	ratingRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRatingService_Rate_Outsider(t *testing.T) {
	svc, _, _, txnRepo := newRatingServiceForTest()
	ctx := context.Background()

	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   models.TransactionStatusCompleted,
	}, nil)

	_, err := svc.Rate(ctx, uuid.New(), RateInput{TransactionID: txnID, Stars: 5})

	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestRatingService_Rate_InvalidStars(t *testing.T) {
	svc, _, _, txnRepo := newRatingServiceForTest()
	ctx := context.Background()

	_, err := svc.Rate(ctx, uuid.New(), RateInput{TransactionID: uuid.New(), Stars: 6})

	assert.True(t, apperror.IsValidation(err))
	txnRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
