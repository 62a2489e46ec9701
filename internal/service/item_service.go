package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/advisor"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/validation"
)

// ItemRepositoryAPI описывает зависимости ItemService от слоя хранилища.
type ItemRepositoryAPI interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, error)
}

// ItemService инкапсулирует бизнес-логику объявлений.
type ItemService struct {
	repo         ItemRepositoryAPI
	priceChecker advisor.PriceChecker
}

// ItemInput содержит данные объявления при создании или редактировании.
type ItemInput struct {
	Name        string
	Category    string
	Description *string
	Price       float64
	Condition   string
	Photos      []string
}

// NewItemService создаёт сервис объявлений.
func NewItemService(repo ItemRepositoryAPI, priceChecker advisor.PriceChecker) *ItemService {
	return &ItemService{
		repo:         repo,
		priceChecker: priceChecker,
	}
}

func validateItemInput(in ItemInput) error {
	if err := validation.ValidateItemName(in.Name); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(in.Price); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if _, ok := models.ValidItemConditions[in.Condition]; !ok {
		return apperror.New(apperror.ErrCodeValidation, "недопустимое состояние товара")
	}
	if err := validation.ValidatePhotos(in.Photos); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}

// Create публикует новое объявление и сразу возвращает оценку цены.
func (s *ItemService) Create(ctx context.Context, sellerID uuid.UUID, in ItemInput) (*models.ItemWithPriceCheck, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	photos := in.Photos
	if photos == nil {
		photos = []string{}
	}

	item := &models.Item{
		SellerID:           sellerID,
		Name:               strings.TrimSpace(in.Name),
		Category:           strings.TrimSpace(in.Category),
		Description:        in.Description,
		Price:              in.Price,
		Condition:          in.Condition,
		AvailabilityStatus: models.ItemStatusAvailable,
		Photos:             photos,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	return s.withPriceCheck(ctx, item), nil
}

// GetByID возвращает объявление вместе с оценкой цены.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*models.ItemWithPriceCheck, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	return s.withPriceCheck(ctx, item), nil
}

// Update редактирует объявление. Доступно только продавцу и только до
// продажи товара.
func (s *ItemService) Update(ctx context.Context, sellerID, itemID uuid.UUID, in ItemInput) (*models.ItemWithPriceCheck, error) {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, apperror.ErrItemNotFound
		}
		return nil, err
	}

	if item.SellerID != sellerID {
		return nil, apperror.New(apperror.ErrCodeForbidden, "редактировать объявление может только продавец")
	}
	if item.AvailabilityStatus == models.ItemStatusSold {
		return nil, apperror.New(apperror.ErrCodeConflict, "проданный товар нельзя редактировать")
	}

	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(in.Name)
	item.Category = strings.TrimSpace(in.Category)
	item.Description = in.Description
	item.Price = in.Price
	item.Condition = in.Condition
	if in.Photos != nil {
		item.Photos = in.Photos
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return s.withPriceCheck(ctx, item), nil
}

// Delete удаляет объявление. Доступно только продавцу, пока товар не
// участвует в активной сделке.
func (s *ItemService) Delete(ctx context.Context, sellerID, itemID uuid.UUID) error {
	item, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return apperror.ErrItemNotFound
		}
		return err
	}

	if item.SellerID != sellerID {
		return apperror.New(apperror.ErrCodeForbidden, "удалить объявление может только продавец")
	}
	if item.AvailabilityStatus != models.ItemStatusAvailable {
		return apperror.New(apperror.ErrCodeConflict, "товар участвует в сделке, удаление недоступно")
	}

	return s.repo.Delete(ctx, itemID)
}

// List возвращает объявления по фильтру.
func (s *ItemService) List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.repo.List(ctx, filter)
}

// CheckPrice возвращает оценку справедливости цены без создания объявления.
func (s *ItemService) CheckPrice(ctx context.Context, itemName string, price float64, condition string) (advisor.PriceCheckResult, error) {
	if err := validation.ValidateItemName(itemName); err != nil {
		return advisor.PriceCheckResult{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidatePrice(price); err != nil {
		return advisor.PriceCheckResult{}, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	return s.priceChecker.Check(ctx, itemName, price, condition), nil
}

func (s *ItemService) withPriceCheck(ctx context.Context, item *models.Item) *models.ItemWithPriceCheck {
	check := s.priceChecker.Check(ctx, item.Name, item.Price, item.Condition)
	return &models.ItemWithPriceCheck{
		Item:             *item,
		PriceRating:      check.Rating,
		AvgCampusPrice:   check.AveragePrice,
		PriceExplanation: check.Explanation,
	}
}
