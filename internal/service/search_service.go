package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/quickgrab/backend/internal/advisor"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/pkg/apperror"
	"github.com/quickgrab/backend/internal/repository"
)

// SearchItemRepository — доступ сервиса поиска к объявлениям.
type SearchItemRepository interface {
	List(ctx context.Context, filter repository.ItemFilter) ([]models.Item, error)
}

// SearchService реализует поиск на естественном языке: запрос разбирается
// советником в структурированные фильтры, затем выполняется обычная выборка.
type SearchService struct {
	items  SearchItemRepository
	parser advisor.SearchParser
}

// SearchResult возвращает найденные товары вместе с разбором запроса.
type SearchResult struct {
	Items       []models.Item       `json:"items"`
	ParsedQuery advisor.ParsedQuery `json:"parsed_query"`
	Suggestion  string              `json:"suggestion,omitempty"`
}

// NewSearchService создаёт сервис поиска.
func NewSearchService(items SearchItemRepository, parser advisor.SearchParser) *SearchService {
	return &SearchService{
		items:  items,
		parser: parser,
	}
}

// Search разбирает запрос и ищет доступные товары.
func (s *SearchService) Search(ctx context.Context, query string, limit, offset int) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "поисковый запрос не может быть пустым")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	parsed := s.parser.Parse(ctx, query)

	filter := repository.ItemFilter{
		Query:    parsed.Item,
		Category: parsed.Category,
		MaxPrice: parsed.MaxPrice,
		Status:   models.ItemStatusAvailable,
		Limit:    limit,
		Offset:   offset,
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// Пустая выдача с категорией — пробуем расширить поиск на всю категорию.
	var suggestion string
	if len(items) == 0 && parsed.Category != "" {
		filter.Query = ""
		items, err = s.items.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			suggestion = fmt.Sprintf("точных совпадений нет, показаны товары категории %q", parsed.Category)
		}
	}

	return &SearchResult{
		Items:       items,
		ParsedQuery: parsed,
		Suggestion:  suggestion,
	}, nil
}
