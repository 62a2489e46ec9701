package advisor

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// ParsedQuery — структурированный результат разбора поискового запроса
// на естественном языке.
type ParsedQuery struct {
	Item      string   `json:"item"`
	Urgency   string   `json:"urgency"`
	Category  string   `json:"category,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Condition string   `json:"condition,omitempty"`
	Keywords  []string `json:"keywords"`
}

// Уровни срочности.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// SearchParser разбирает свободный текст запроса в фильтры поиска.
type SearchParser interface {
	Parse(ctx context.Context, query string) ParsedQuery
}

// categoryKeywords сопоставляет ключевые слова запроса с категориями каталога.
var categoryKeywords = []struct {
	keyword  string
	category string
}{
	{"phone", "electronics"},
	{"laptop", "electronics"},
	{"charger", "electronics"},
	{"cable", "electronics"},
	{"book", "books"},
	{"textbook", "books"},
	{"desk", "furniture"},
	{"chair", "furniture"},
	{"shirt", "clothing"},
	{"jacket", "clothing"},
}

var urgencyKeywords = []string{"urgent", "asap", "now"}

var (
	maxPriceRegexp   = regexp.MustCompile(`(?:under|below|max)\s*\$?(\d+)`)
	fillerWordRegexp = regexp.MustCompile(`(?i)urgent|asap|need|want|looking for|under \$?\d+`)
)

// HeuristicSearchParser — детерминированный разбор по ключевым словам.
type HeuristicSearchParser struct{}

func NewHeuristicSearchParser() *HeuristicSearchParser {
	return &HeuristicSearchParser{}
}

// Parse извлекает срочность, категорию, ценовой потолок и ключевые слова.
func (h *HeuristicSearchParser) Parse(_ context.Context, query string) ParsedQuery {
	lowerQuery := strings.ToLower(query)

	urgency := UrgencyMedium
	for _, kw := range urgencyKeywords {
		if strings.Contains(lowerQuery, kw) {
			urgency = UrgencyHigh
			break
		}
	}

	var category string
	for _, entry := range categoryKeywords {
		if strings.Contains(lowerQuery, entry.keyword) {
			category = entry.category
			break
		}
	}

	var maxPrice *float64
	if match := maxPriceRegexp.FindStringSubmatch(lowerQuery); match != nil {
		if parsed, err := strconv.ParseFloat(match[1], 64); err == nil {
			maxPrice = &parsed
		}
	}

	// Убираем служебные слова и оставляем только значимые токены.
	cleaned := strings.TrimSpace(fillerWordRegexp.ReplaceAllString(query, ""))
	var keywords []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) > 2 {
			keywords = append(keywords, word)
		}
	}

	item := strings.Join(keywords, " ")
	if item == "" {
		item = query
	}
	if len(keywords) == 0 {
		keywords = []string{query}
	}

	return ParsedQuery{
		Item:     item,
		Urgency:  urgency,
		Category: category,
		MaxPrice: maxPrice,
		Keywords: keywords,
	}
}
