package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/advisor"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/validation"
)

// DisputeRepositoryAPI описывает зависимости сервиса споров от слоя хранилища.
type DisputeRepositoryAPI interface {
	Create(ctx context.Context, dispute *models.Dispute) error
	ListForUser(ctx context.Context, userID uuid.UUID, filter repository.DisputeFilter) ([]models.Dispute, error)
	UpdateResolution(ctx context.Context, id uuid.UUID, decision string, confidence int, reasoning, suggestedAction string, resolvedAt *time.Time) error
}

// DisputeTransactionRepository — доступ сервиса споров к сделкам.
type DisputeTransactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// DisputeMessageRepository — доступ сервиса споров к переписке сделки.
type DisputeMessageRepository interface {
	ListByTransaction(ctx context.Context, transactionID uuid.UUID, limit, offset int) ([]models.Message, error)
}

// DisputeService инкапсулирует арбитраж споров. Решение выносит советник;
// автоматически применяется только решение с уверенностью выше порога,
// остальные остаются в PENDING до ручного разбора.
type DisputeService struct {
	repo         DisputeRepositoryAPI
	transactions DisputeTransactionRepository
	messages     DisputeMessageRepository
	resolver     advisor.DisputeResolver
	now          func() time.Time
}

// OpenDisputeInput содержит данные нового спора.
type OpenDisputeInput struct {
	TransactionID uuid.UUID
	EvidenceText  string
	Photos        []string
}

// NewDisputeService создаёт сервис споров.
func NewDisputeService(repo DisputeRepositoryAPI, transactions DisputeTransactionRepository, messages DisputeMessageRepository, resolver advisor.DisputeResolver) *DisputeService {
	return &DisputeService{
		repo:         repo,
		transactions: transactions,
		messages:     messages,
		resolver:     resolver,
		now:          time.Now,
	}
}

// Open открывает спор по сделке и сразу запускает арбитраж. Доступно
// участникам сделки в статусах PAID и MEETING, по одному спору на сделку.
func (s *DisputeService) Open(ctx context.Context, actorID uuid.UUID, in OpenDisputeInput) (*models.Dispute, error) {
	if err := validation.ValidateEvidenceText(in.EvidenceText); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePhotos(in.Photos); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	txn, err := s.transactions.GetByID(ctx, in.TransactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apperror.ErrTransactionNotFound
		}
		return nil, err
	}

	if txn.BuyerID != actorID && txn.SellerID != actorID {
		return nil, apperror.ErrTransactionNotFound
	}

	if txn.Status != models.TransactionStatusPaid && txn.Status != models.TransactionStatusMeeting {
		return nil, apperror.New(apperror.ErrCodeConflict, "спор доступен только по оплаченной сделке")
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	dispute := &models.Dispute{
		TransactionID: in.TransactionID,
		OpenedBy:      actorID,
		EvidenceText:  in.EvidenceText,
		Photos:        photos,
		Decision:      models.DisputeDecisionPending,
	}

	if err := s.repo.Create(ctx, dispute); err != nil {
		if errors.Is(err, repository.ErrDisputeExists) {
			return nil, apperror.New(apperror.ErrCodeConflict, "по этой сделке уже открыт спор")
		}
		return nil, err
	}

	resolution := s.resolver.Resolve(ctx, s.collectEvidence(ctx, txn, dispute, actorID))

	decision := models.DisputeDecisionPending
	var resolvedAt *time.Time
	if resolution.Confidence > advisor.AutoResolveThreshold {
		decision = mapDisputeDecision(resolution.Decision)
		now := s.now()
		resolvedAt = &now
	}

	if err := s.repo.UpdateResolution(ctx, dispute.ID, decision, resolution.Confidence,
		resolution.Reasoning, resolution.SuggestedAction, resolvedAt); err != nil {
		return nil, err
	}

	dispute.Decision = decision
	dispute.Confidence = resolution.Confidence
	dispute.Reasoning = &resolution.Reasoning
	dispute.SuggestedAction = &resolution.SuggestedAction
	dispute.ResolvedAt = resolvedAt

	return dispute, nil
}

// DisputeListFilter задаёт фильтры списка споров пользователя.
type DisputeListFilter struct {
	TransactionID *uuid.UUID
	Decision      string
}

// List возвращает споры по сделкам пользователя. Выборка ограничена его
// сделками на уровне запроса, поэтому чужие споры недостижимы.
func (s *DisputeService) List(ctx context.Context, actorID uuid.UUID, filter DisputeListFilter) ([]models.Dispute, error) {
	return s.repo.ListForUser(ctx, actorID, repository.DisputeFilter{
		TransactionID: filter.TransactionID,
		Decision:      strings.ToUpper(strings.TrimSpace(filter.Decision)),
	})
}

// collectEvidence собирает материалы дела: претензии сторон, переписку,
// фотографии и хронологию сделки.
func (s *DisputeService) collectEvidence(ctx context.Context, txn *models.Transaction, dispute *models.Dispute, openerID uuid.UUID) advisor.DisputeEvidence {
	evidence := advisor.DisputeEvidence{
		PhotoCount: len(dispute.Photos),
		Timeline:   map[string]time.Time{"created": txn.CreatedAt},
	}

	if openerID == txn.BuyerID {
		evidence.BuyerClaim = dispute.EvidenceText
	} else {
		evidence.SellerClaim = dispute.EvidenceText
	}

	if txn.CountdownStart != nil {
		evidence.Timeline["paid"] = *txn.CountdownStart
	}
	if txn.CountdownEnd != nil {
		evidence.Timeline["meetup_deadline"] = *txn.CountdownEnd
	}

	// Переписка опциональна: спор разбирается и без неё.
	messages, err := s.messages.ListByTransaction(ctx, txn.ID, 100, 0)
	if err == nil {
		history := make([]string, 0, len(messages))
		for _, m := range messages {
			history = append(history, m.Content)
		}
		evidence.MessageHistory = history
	}

	return evidence
}

func mapDisputeDecision(outcome string) string {
	switch outcome {
	case advisor.DisputeOutcomeBuyerFavor:
		return models.DisputeDecisionBuyerFavor
	case advisor.DisputeOutcomeSellerFavor:
		return models.DisputeDecisionSellerFavor
	case advisor.DisputeOutcomeSplit:
		return models.DisputeDecisionSplit
	case advisor.DisputeOutcomeNeedsReview:
		return models.DisputeDecisionNeedsReview
	}
	return models.DisputeDecisionPending
}
