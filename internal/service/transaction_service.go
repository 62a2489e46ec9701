package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quickgrab/backend/internal/logger"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
)

// Окно встречи после оплаты. По его истечении покупатель может запросить
// возврат, не дожидаясь продавца.
const meetupWindow = 24 * time.Hour

// TransactionRepositoryAPI описывает зависимости сервиса сделок от слоя
// хранилища.
type TransactionRepositoryAPI interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	HasActiveForBuyerAndItem(ctx context.Context, buyerID, itemID uuid.UUID) (bool, error)
	CreateWithReservation(ctx context.Context, txn *models.Transaction) error
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from []string, to string) error
	MarkPaid(ctx context.Context, id uuid.UUID, paymentID string, start, end time.Time) error
	Complete(ctx context.Context, txn *models.Transaction) error
	Refund(ctx context.Context, txn *models.Transaction, refundID string) error
	SetMeetupLocation(ctx context.Context, id uuid.UUID, location string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error)
}

// TransactionItemRepository — доступ сервиса сделок к объявлениям.
type TransactionItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

// TransactionUserRepository — доступ сервиса сделок к пользователям.
type TransactionUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateDealStats(ctx context.Context, userID uuid.UUID, completedDeals int, cancellationRate float64, trustScore int, badges []string) error
}

// TransactionService реализует жизненный цикл сделки:
// REQUESTED -> ACCEPTED -> PAID -> MEETING -> COMPLETED, с выходом в
// REFUNDED из PAID (по истечении окна встречи) и из MEETING.
type TransactionService struct {
	repo  TransactionRepositoryAPI
	items TransactionItemRepository
	users TransactionUserRepository
	now   func() time.Time
}

// NewTransactionService создаёт сервис сделок.
func NewTransactionService(repo TransactionRepositoryAPI, items TransactionItemRepository, users TransactionUserRepository) *TransactionService {
	return &TransactionService{
		repo:  repo,
		items: items,
		users: users,
		now:   time.Now,
	}
}

// Request создаёт сделку по товару и резервирует его.
func (s *TransactionService) Request(ctx context.Context, buyerID, itemID uuid.UUID) (*models.Transaction, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.SellerID == buyerID {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "нельзя купить собственный товар")
	}
	if item.AvailabilityStatus != models.ItemStatusAvailable {
		return nil, apperror.New(apperror.ErrCodeConflict, "товар недоступен для покупки")
	}

	hasActive, err := s.repo.HasActiveForBuyerAndItem(ctx, buyerID, itemID)
	if err != nil {
		return nil, err
	}
	if hasActive {
		return nil, apperror.New(apperror.ErrCodeConflict, "по этому товару уже есть незавершённая сделка")
	}

	txn := &models.Transaction{
		BuyerID:      buyerID,
		SellerID:     item.SellerID,
		ItemID:       itemID,
		Status:       models.TransactionStatusRequested,
		EscrowAmount: item.Price,
	}

	if err := s.repo.CreateWithReservation(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrItemUnavailable) {
			return nil, apperror.New(apperror.ErrCodeConflict, "товар недоступен для покупки")
		}
		return nil, err
	}

	return txn, nil
}

// Accept подтверждает запрос покупателя. Доступно только продавцу и только
// из статуса REQUESTED.
func (s *TransactionService) Accept(ctx context.Context, sellerID, transactionID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.getForActor(ctx, transactionID, sellerID)
	if err != nil {
		return nil, err
	}
	if txn.SellerID != sellerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подтвердить запрос может только продавец")
	}

	err = s.repo.UpdateStatusIf(ctx, transactionID,
		[]string{models.TransactionStatusRequested}, models.TransactionStatusAccepted)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, transitionConflict(txn.Status, models.TransactionStatusAccepted)
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, transactionID)
}

// Pay помещает оплату в эскроу и запускает 24-часовое окно встречи.
// Доступно только покупателю и только из статуса ACCEPTED.
func (s *TransactionService) Pay(ctx context.Context, buyerID, transactionID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.getForActor(ctx, transactionID, buyerID)
	if err != nil {
		return nil, err
	}
	if txn.BuyerID != buyerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "оплатить сделку может только покупатель")
	}

	now := s.now()
	paymentID := "pay_" + uuid.NewString()

	if err := s.repo.MarkPaid(ctx, transactionID, paymentID, now, now.Add(meetupWindow)); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, transitionConflict(txn.Status, models.TransactionStatusPaid)
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, transactionID)
}

// StartMeeting фиксирует начало встречи. Доступно обоим участникам из
// статуса PAID.
func (s *TransactionService) StartMeeting(ctx context.Context, actorID, transactionID uuid.UUID, meetupLocation string) (*models.Transaction, error) {
	txn, err := s.getForActor(ctx, transactionID, actorID)
	if err != nil {
		return nil, err
	}

	err = s.repo.UpdateStatusIf(ctx, transactionID,
		[]string{models.TransactionStatusPaid}, models.TransactionStatusMeeting)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, transitionConflict(txn.Status, models.TransactionStatusMeeting)
		}
		return nil, err
	}

	if location := strings.TrimSpace(meetupLocation); location != "" {
		if err := s.repo.SetMeetupLocation(ctx, transactionID, location); err != nil {
			return nil, err
		}
	}

	return s.repo.GetByID(ctx, transactionID)
}

// Confirm завершает сделку: эскроу уходит продавцу, товар помечается
// проданным, статистика обоих участников обновляется. Доступно только
// покупателю из статусов PAID и MEETING.
func (s *TransactionService) Confirm(ctx context.Context, buyerID, transactionID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.getForActor(ctx, transactionID, buyerID)
	if err != nil {
		return nil, err
	}
	if txn.BuyerID != buyerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "подтвердить получение может только покупатель")
	}

	if err := s.repo.Complete(ctx, txn); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, transitionConflict(txn.Status, models.TransactionStatusCompleted)
		}
		return nil, err
	}

	// Успешная сделка разбавляет долю отмен продавца.
	s.applyDealOutcome(ctx, txn.SellerID, func(deals int, rate float64) (int, float64) {
		return deals + 1, rate * float64(deals) / float64(deals+1)
	})
	s.applyDealOutcome(ctx, txn.BuyerID, func(deals int, rate float64) (int, float64) {
		return deals + 1, rate
	})

	return s.repo.GetByID(ctx, transactionID)
}

// Refund возвращает эскроу покупателю. Доступно покупателю из MEETING в
// любой момент, из PAID — только после истечения окна встречи. Возврат
// засчитывается продавцу как отмена.
func (s *TransactionService) Refund(ctx context.Context, buyerID, transactionID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.getForActor(ctx, transactionID, buyerID)
	if err != nil {
		return nil, err
	}
	if txn.BuyerID != buyerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "запросить возврат может только покупатель")
	}

	switch txn.Status {
	case models.TransactionStatusMeeting:
	case models.TransactionStatusPaid:
		if !txn.CountdownExpired(s.now()) {
			return nil, apperror.New(apperror.ErrCodeConflict, "возврат из статуса PAID доступен после истечения окна встречи")
		}
	default:
		return nil, transitionConflict(txn.Status, models.TransactionStatusRefunded)
	}

	refundID := "re_" + uuid.NewString()
	if err := s.repo.Refund(ctx, txn, refundID); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, transitionConflict(txn.Status, models.TransactionStatusRefunded)
		}
		return nil, err
	}

	s.applyDealOutcome(ctx, txn.SellerID, func(deals int, rate float64) (int, float64) {
		return deals, (rate*float64(deals) + 1) / float64(deals+1)
	})

	return s.repo.GetByID(ctx, transactionID)
}

// GetByID возвращает сделку участнику.
func (s *TransactionService) GetByID(ctx context.Context, actorID, transactionID uuid.UUID) (*models.Transaction, error) {
	return s.getForActor(ctx, transactionID, actorID)
}

// ListByUser возвращает сделки пользователя.
func (s *TransactionService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// getForActor загружает сделку и проверяет, что actor — её участник.
// Посторонним сделка не раскрывается.
func (s *TransactionService) getForActor(ctx context.Context, transactionID, actorID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.repo.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	if txn.BuyerID != actorID && txn.SellerID != actorID {
		return nil, apperror.ErrTransactionNotFound
	}

	return txn, nil
}

// applyDealOutcome обновляет статистику сделок и репутацию участника.
// Ошибка не прерывает завершённый переход: сделка уже в конечном статусе.
func (s *TransactionService) applyDealOutcome(ctx context.Context, userID uuid.UUID, outcome func(deals int, rate float64) (int, float64)) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logStatsFailure(userID, err)
		return
	}

	user.CompletedDeals, user.CancellationRate = outcome(user.CompletedDeals, user.CancellationRate)
	score, badges := reputationFor(user)

	if err := s.users.UpdateDealStats(ctx, userID, user.CompletedDeals, user.CancellationRate, score, badges); err != nil {
		s.logStatsFailure(userID, err)
	}
}

func (s *TransactionService) logStatsFailure(userID uuid.UUID, err error) {
	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("transaction service: не удалось обновить статистику участника")
	}
}

func transitionConflict(from, to string) error {
	return apperror.New(apperror.ErrCodeConflict,
		"переход из статуса "+from+" в "+to+" недопустим")
}
