package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
)

type mockTransactionRepo struct {
	mock.Mock
}

func (m *mockTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *mockTransactionRepo) HasActiveForBuyerAndItem(ctx context.Context, buyerID, itemID uuid.UUID) (bool, error) {
	args := m.Called(ctx, buyerID, itemID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTransactionRepo) CreateWithReservation(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	if args.Error(0) == nil {
		txn.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockTransactionRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from []string, to string) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *mockTransactionRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentID string, start, end time.Time) error {
	args := m.Called(ctx, id, paymentID, start, end)
	return args.Error(0)
}

func (m *mockTransactionRepo) Complete(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *mockTransactionRepo) Refund(ctx context.Context, txn *models.Transaction, refundID string) error {
	args := m.Called(ctx, txn, refundID)
	return args.Error(0)
}

func (m *mockTransactionRepo) SetMeetupLocation(ctx context.Context, id uuid.UUID, location string) error {
	args := m.Called(ctx, id, location)
	return args.Error(0)
}

func (m *mockTransactionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]models.Transaction), args.Error(1)
}

type mockItemRepoForTxn struct {
	mock.Mock
}

func (m *mockItemRepoForTxn) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

type mockUserRepoForTxn struct {
	mock.Mock
}

func (m *mockUserRepoForTxn) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *mockUserRepoForTxn) UpdateDealStats(ctx context.Context, userID uuid.UUID, completedDeals int, cancellationRate float64, trustScore int, badges []string) error {
	args := m.Called(ctx, userID, completedDeals, cancellationRate, trustScore, badges)
	return args.Error(0)
}

func newTransactionServiceForTest() (*TransactionService, *mockTransactionRepo, *mockItemRepoForTxn, *mockUserRepoForTxn) {
	txnRepo := new(mockTransactionRepo)
	itemRepo := new(mockItemRepoForTxn)
	userRepo := new(mockUserRepoForTxn)
	return NewTransactionService(txnRepo, itemRepo, userRepo), txnRepo, itemRepo, userRepo
}

func TestTransactionService_Request_Success(t *testing.T) {
	svc, txnRepo, itemRepo, _ := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	itemID := uuid.New()

	item := &models.Item{
		ID:                 itemID,
		SellerID:           sellerID,
		Price:              45,
		AvailabilityStatus: models.ItemStatusAvailable,
	}

	itemRepo.On("GetByID", ctx, itemID).Return(item, nil)
	txnRepo.On("HasActiveForBuyerAndItem", ctx, buyerID, itemID).Return(false, nil)
	txnRepo.On("CreateWithReservation", ctx, mock.AnythingOfType("*models.Transaction")).Return(nil)

	txn, err := svc.Request(ctx, buyerID, itemID)

	assert.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRequested, txn.Status)
	assert.Equal(t, sellerID, txn.SellerID)
	assert.Equal(t, 45.0, txn.EscrowAmount)
}

func TestTransactionService_Request_OwnItem(t *testing.T) {
	svc, _, itemRepo, _ := newTransactionServiceForTest()
	ctx := context.Background()

	sellerID := uuid.New()
	itemID := uuid.New()

	itemRepo.On("GetByID", ctx, itemID).Return(&models.Item{
		ID:                 itemID,
		SellerID:           sellerID,
		AvailabilityStatus: models.ItemStatusAvailable,
	}, nil)

	_, err := svc.Request(ctx, sellerID, itemID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "собственный товар")
}

func TestTransactionService_Request_ItemReserved(t *testing.T) {
	svc, _, itemRepo, _ := newTransactionServiceForTest()
	ctx := context.Background()

	itemID := uuid.New()

	itemRepo.On("GetByID", ctx, itemID).Return(&models.Item{
		ID:                 itemID,
		SellerID:           uuid.New(),
		AvailabilityStatus: models.ItemStatusReserved,
	}, nil)

	_, err := svc.Request(ctx, uuid.New(), itemID)

	assert.True(t, apperror.IsConflict(err))
}

func TestTransactionService_Request_DuplicateActive(t *testing.T) {
	svc, txnRepo, itemRepo, _ := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	itemID := uuid.New()

	itemRepo.On("GetByID", ctx, itemID).Return(&models.Item{
		ID:                 itemID,
		SellerID:           uuid.New(),
		AvailabilityStatus: models.ItemStatusAvailable,
	}, nil)
	txnRepo.On("HasActiveForBuyerAndItem", ctx, buyerID, itemID).Return(true, nil)

	_, err := svc.Request(ctx, buyerID, itemID)

	assert.True(t, apperror.IsConflict(err))
}

func TestTransactionService_Accept_OnlySeller(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusRequested,
	}, nil)

	// Покупатель не может подтвердить собственный запрос.
	_, err := svc.Accept(ctx, buyerID, txnID)

	assert.True(t, apperror.IsForbidden(err))
}

func TestTransactionService_Accept_WrongStatus(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	sellerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  uuid.New(),
		SellerID: sellerID,
		Status:   models.TransactionStatusPaid,
	}, nil)
	txnRepo.On("UpdateStatusIf", ctx, txnID,
		[]string{models.TransactionStatusRequested}, models.TransactionStatusAccepted).
		Return(repository.ErrStatusConflict)

	_, err := svc.Accept(ctx, sellerID, txnID)

	assert.True(t, apperror.IsConflict(err))
}

func TestTransactionService_Pay_StartsCountdown(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	txn := &models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusAccepted,
	}

	txnRepo.On("GetByID", ctx, txnID).Return(txn, nil)
	txnRepo.On("MarkPaid", ctx, txnID, mock.AnythingOfType("string"), now, now.Add(24*time.Hour)).Return(nil)

	_, err := svc.Pay(ctx, buyerID, txnID)

	assert.NoError(t, err)
	txnRepo.AssertExpectations(t)
}

func TestTransactionService_Confirm_UpdatesBothParties(t *testing.T) {
	svc, txnRepo, _, userRepo := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	txnID := uuid.New()

	txn := &models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		ItemID:   uuid.New(),
		Status:   models.TransactionStatusMeeting,
	}

	seller := &models.User{ID: sellerID, CompletedDeals: 4, CancellationRate: 0.25, AvgRating: 4.5}
	buyer := &models.User{ID: buyerID, CompletedDeals: 1}

	txnRepo.On("GetByID", ctx, txnID).Return(txn, nil)
	txnRepo.On("Complete", ctx, txn).Return(nil)
	userRepo.On("GetByID", ctx, sellerID).Return(seller, nil)
	userRepo.On("GetByID", ctx, buyerID).Return(buyer, nil)

	// Успешная сделка разбавляет долю отмен: 0.25*4/5 = 0.2.
	userRepo.On("UpdateDealStats", ctx, sellerID, 5, 0.2, mock.AnythingOfType("int"), mock.Anything).Return(nil)
	userRepo.On("UpdateDealStats", ctx, buyerID, 2, 0.0, mock.AnythingOfType("int"), mock.Anything).Return(nil)

	_, err := svc.Confirm(ctx, buyerID, txnID)

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestTransactionService_Confirm_OnlyBuyer(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	sellerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  uuid.New(),
		SellerID: sellerID,
		Status:   models.TransactionStatusPaid,
	}, nil)

	_, err := svc.Confirm(ctx, sellerID, txnID)

	assert.True(t, apperror.IsForbidden(err))
}

func TestTransactionService_Refund_PaidBeforeDeadline(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	deadline := now.Add(2 * time.Hour)
	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:           txnID,
		BuyerID:      buyerID,
		SellerID:     uuid.New(),
		Status:       models.TransactionStatusPaid,
		CountdownEnd: &deadline,
	}, nil)

	// Окно встречи ещё не истекло: возврат недоступен.
	_, err := svc.Refund(ctx, buyerID, txnID)

	assert.True(t, apperror.IsConflict(err))
}

func TestTransactionService_Refund_PaidAfterDeadline(t *testing.T) {
	svc, txnRepo, _, userRepo := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	txnID := uuid.New()
	now := time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	deadline := now.Add(-time.Minute)
	txn := &models.Transaction{
		ID:           txnID,
		BuyerID:      buyerID,
		SellerID:     sellerID,
		ItemID:       uuid.New(),
		Status:       models.TransactionStatusPaid,
		CountdownEnd: &deadline,
	}

	seller := &models.User{ID: sellerID, CompletedDeals: 4, CancellationRate: 0}

	txnRepo.On("GetByID", ctx, txnID).Return(txn, nil)
	txnRepo.On("Refund", ctx, txn, mock.AnythingOfType("string")).Return(nil)
	userRepo.On("GetByID", ctx, sellerID).Return(seller, nil)

	// Возврат засчитывается как отмена: (0*4+1)/5 = 0.2, сделки не растут.
	userRepo.On("UpdateDealStats", ctx, sellerID, 4, 0.2, mock.AnythingOfType("int"), mock.Anything).Return(nil)

	_, err := svc.Refund(ctx, buyerID, txnID)

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestTransactionService_Refund_Meeting(t *testing.T) {
	svc, txnRepo, _, userRepo := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	sellerID := uuid.New()
	txnID := uuid.New()

	txn := &models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: sellerID,
		ItemID:   uuid.New(),
		Status:   models.TransactionStatusMeeting,
	}

	txnRepo.On("GetByID", ctx, txnID).Return(txn, nil)
	txnRepo.On("Refund", ctx, txn, mock.AnythingOfType("string")).Return(nil)
	userRepo.On("GetByID", ctx, sellerID).Return(&models.User{ID: sellerID}, nil)
	userRepo.On("UpdateDealStats", ctx, sellerID, 0, 1.0, mock.AnythingOfType("int"), mock.Anything).Return(nil)

	_, err := svc.Refund(ctx, buyerID, txnID)

	assert.NoError(t, err)
}

func TestTransactionService_Refund_TerminalStatus(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusCompleted,
	}, nil)

	_, err := svc.Refund(ctx, buyerID, txnID)

	assert.True(t, apperror.IsConflict(err))
}

func TestTransactionService_Get_HiddenFromOutsiders(t *testing.T) {
	svc, txnRepo, _, _ := newTransactionServiceForTest()
	ctx := context.Background()

	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   models.TransactionStatusPaid,
	}, nil)

	_, err := svc.GetByID(ctx, uuid.New(), txnID)

	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}
