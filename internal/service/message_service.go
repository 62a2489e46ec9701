package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quickgrab/backend/internal/advisor"
	"github.com/quickgrab/backend/internal/goroutine"
	"github.com/quickgrab/backend/internal/logger"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/validation"
)

const moderationTimeout = 10 * time.Second

// MessageRepositoryAPI описывает зависимости сервиса сообщений от слоя
// хранилища.
type MessageRepositoryAPI interface {
	Create(ctx context.Context, message *models.Message) error
	ListByTransaction(ctx context.Context, transactionID uuid.UUID, limit, offset int) ([]models.Message, error)
	Flag(ctx context.Context, messageID uuid.UUID) error
}

// MessageTransactionRepository — доступ сервиса сообщений к сделкам.
type MessageTransactionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

// MessageService инкапсулирует чат сделки. Каждое сообщение проходит
// модерацию в фоне: отправка не ждёт её результата.
type MessageService struct {
	repo          MessageRepositoryAPI
	transactions  MessageTransactionRepository
	moderator     advisor.Moderator
	meetupAdvisor advisor.MeetupAdvisor
}

// NewMessageService создаёт сервис сообщений.
func NewMessageService(repo MessageRepositoryAPI, transactions MessageTransactionRepository, moderator advisor.Moderator, meetupAdvisor advisor.MeetupAdvisor) *MessageService {
	return &MessageService{
		repo:          repo,
		transactions:  transactions,
		moderator:     moderator,
		meetupAdvisor: meetupAdvisor,
	}
}

// Send отправляет сообщение в чат сделки.
func (s *MessageService) Send(ctx context.Context, senderID, transactionID uuid.UUID, content string) (*models.Message, error) {
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if _, err := s.getForParticipant(ctx, transactionID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{
		TransactionID: transactionID,
		SenderID:      senderID,
		Content:       content,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	s.moderateAsync(message)

	return message, nil
}

// List возвращает переписку сделки её участнику.
func (s *MessageService) List(ctx context.Context, actorID, transactionID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if _, err := s.getForParticipant(ctx, transactionID, actorID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByTransaction(ctx, transactionID, limit, offset)
}

// SuggestMeetup публикует в чат подборку безопасных мест встречи.
func (s *MessageService) SuggestMeetup(ctx context.Context, actorID, transactionID uuid.UUID) (*models.Message, advisor.MeetupSuggestion, error) {
	if _, err := s.getForParticipant(ctx, transactionID, actorID); err != nil {
		return nil, advisor.MeetupSuggestion{}, err
	}

	suggestion := s.meetupAdvisor.Suggest(ctx)

	var sb strings.Builder
	sb.WriteString("Рекомендованные места встречи:\n")
	for i, location := range suggestion.Locations {
		fmt.Fprintf(&sb, "%d. %s (безопасность %d/5)\n", i+1, location.Name, location.SafetyRating)
	}
	fmt.Fprintf(&sb, "Лучшее время: %s", suggestion.SuggestedTime)

	message := &models.Message{
		TransactionID: transactionID,
		SenderID:      actorID,
		Content:       sb.String(),
		IsAIGenerated: true,
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, advisor.MeetupSuggestion{}, err
	}

	return message, suggestion, nil
}

func (s *MessageService) getForParticipant(ctx context.Context, transactionID, actorID uuid.UUID) (*models.Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, transactionID)
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

// moderateAsync запускает проверку сообщения в фоне. Подозрительные
// сообщения помечаются, но не блокируются.
func (s *MessageService) moderateAsync(message *models.Message) {
	messageID := message.ID
	content := message.Content

	goroutine.SafeGo("message-moderation", func() {
		ctx, cancel := context.WithTimeout(context.Background(), moderationTimeout)
		defer cancel()

		result := s.moderator.Moderate(ctx, content)
		if result.Action == advisor.ActionAllow {
			return
		}

		if err := s.repo.Flag(ctx, messageID); err != nil && logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"message_id": messageID,
				"error":      err.Error(),
			}).Error("message service: не удалось пометить сообщение")
		}

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"message_id": messageID,
				"severity":   result.Severity,
				"action":     result.Action,
			}).Warn("message service: сообщение помечено модерацией")
		}
	})
}
