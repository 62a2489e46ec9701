package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/quickgrab/backend/internal/advisor"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
)

type mockDisputeRepo struct {
	mock.Mock
}

func (m *mockDisputeRepo) Create(ctx context.Context, dispute *models.Dispute) error {
	args := m.Called(ctx, dispute)
	if args.Error(0) == nil {
		dispute.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockDisputeRepo) ListForUser(ctx context.Context, userID uuid.UUID, filter repository.DisputeFilter) ([]models.Dispute, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]models.Dispute), args.Error(1)
}

func (m *mockDisputeRepo) UpdateResolution(ctx context.Context, id uuid.UUID, decision string, confidence int, reasoning, suggestedAction string, resolvedAt *time.Time) error {
	args := m.Called(ctx, id, decision, confidence, reasoning, suggestedAction, resolvedAt)
	return args.Error(0)
}

type mockTxnRepoForDispute struct {
	mock.Mock
}

func (m *mockTxnRepoForDispute) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

type mockMsgRepoForDispute struct {
	mock.Mock
}

func (m *mockMsgRepoForDispute) ListByTransaction(ctx context.Context, transactionID uuid.UUID, limit, offset int) ([]models.Message, error) {
	args := m.Called(ctx, transactionID, limit, offset)
	return args.Get(0).([]models.Message), args.Error(1)
}

type stubResolver struct {
	resolution advisor.DisputeResolution
}

func (s stubResolver) Resolve(_ context.Context, _ advisor.DisputeEvidence) advisor.DisputeResolution {
	return s.resolution
}

func newDisputeServiceForTest(resolution advisor.DisputeResolution) (*DisputeService, *mockDisputeRepo, *mockTxnRepoForDispute, *mockMsgRepoForDispute) {
	repo := new(mockDisputeRepo)
	txnRepo := new(mockTxnRepoForDispute)
	msgRepo := new(mockMsgRepoForDispute)
	svc := NewDisputeService(repo, txnRepo, msgRepo, stubResolver{resolution: resolution})
	return svc, repo, txnRepo, msgRepo
}

func TestDisputeService_Open_BelowThresholdStaysPending(t *testing.T) {
	svc, repo, txnRepo, msgRepo := newDisputeServiceForTest(advisor.DisputeResolution{
		Decision:   advisor.DisputeOutcomeSplit,
		Confidence: 55,
		Reasoning:  "материалов недостаточно",
	})
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusPaid,
	}, nil)
	msgRepo.On("ListByTransaction", ctx, txnID, 100, 0).Return([]models.Message{}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Dispute")).Return(nil)
	repo.On("UpdateResolution", ctx, mock.AnythingOfType("uuid.UUID"),
		models.DisputeDecisionPending, 55, "материалов недостаточно", "", (*time.Time)(nil)).Return(nil)

	dispute, err := svc.Open(ctx, buyerID, OpenDisputeInput{
		TransactionID: txnID,
		EvidenceText:  "товар не соответствует описанию",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.DisputeDecisionPending, dispute.Decision)
	assert.Nil(t, dispute.ResolvedAt)
	repo.AssertExpectations(t)
}

func TestDisputeService_Open_HighConfidenceAutoResolves(t *testing.T) {
	svc, repo, txnRepo, msgRepo := newDisputeServiceForTest(advisor.DisputeResolution{
		Decision:   advisor.DisputeOutcomeBuyerFavor,
		Confidence: 92,
		Reasoning:  "фотографии подтверждают дефект",
	})
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()

	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusMeeting,
	}, nil)
	msgRepo.On("ListByTransaction", ctx, txnID, 100, 0).Return([]models.Message{}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Dispute")).Return(nil)
	repo.On("UpdateResolution", ctx, mock.AnythingOfType("uuid.UUID"),
		models.DisputeDecisionBuyerFavor, 92, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	dispute, err := svc.Open(ctx, buyerID, OpenDisputeInput{
		TransactionID: txnID,
		EvidenceText:  "экран разбит, продавец знал о дефекте",
		Photos:        []string{"/uploads/defect.jpg"},
	})

	assert.NoError(t, err)
	assert.Equal(t, models.DisputeDecisionBuyerFavor, dispute.Decision)
	assert.NotNil(t, dispute.ResolvedAt)
}

func TestDisputeService_Open_Outsider(t *testing.T) {
	svc, _, txnRepo, _ := newDisputeServiceForTest(advisor.DisputeResolution{})
	ctx := context.Background()

	txnID := uuid.New()
	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  uuid.New(),
		SellerID: uuid.New(),
		Status:   models.TransactionStatusPaid,
	}, nil)

	_, err := svc.Open(ctx, uuid.New(), OpenDisputeInput{
		TransactionID: txnID,
		EvidenceText:  "товар не соответствует описанию",
	})

	assert.ErrorIs(t, err, apperror.ErrTransactionNotFound)
}

func TestDisputeService_Open_WrongStatus(t *testing.T) {
	svc, _, txnRepo, _ := newDisputeServiceForTest(advisor.DisputeResolution{})
	ctx := context.Background()

	buyerID := uuid.New()
	txnID := uuid.New()
	txnRepo.On("GetByID", ctx, txnID).Return(&models.Transaction{
		ID:       txnID,
		BuyerID:  buyerID,
		SellerID: uuid.New(),
		Status:   models.TransactionStatusRequested,
	}, nil)

	_, err := svc.Open(ctx, buyerID, OpenDisputeInput{
		TransactionID: txnID,
		EvidenceText:  "товар не соответствует описанию",
	})

	assert.True(t, apperror.IsConflict(err))
}

func TestDisputeService_List_NormalizesDecisionFilter(t *testing.T) {
	svc, repo, _, _ := newDisputeServiceForTest(advisor.DisputeResolution{})
	ctx := context.Background()

	actorID := uuid.New()
	txnID := uuid.New()
	expected := []models.Dispute{{ID: uuid.New(), TransactionID: txnID}}

	repo.On("ListForUser", ctx, actorID, repository.DisputeFilter{
		TransactionID: &txnID,
		Decision:      "PENDING",
	}).Return(expected, nil)

	disputes, err := svc.List(ctx, actorID, DisputeListFilter{
		TransactionID: &txnID,
		Decision:      " pending ",
	})

	assert.NoError(t, err)
	assert.Equal(t, expected, disputes)
	repo.AssertExpectations(t)
}
