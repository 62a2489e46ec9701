package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/quickgrab/backend/internal/ai"
	"github.com/quickgrab/backend/internal/logger"
)

// AI-реализации советников. Каждая делает один вызов внешней модели и при
// любой ошибке (сеть, таймаут, мусор вместо JSON) молча откатывается на
// эвристику. Ошибки внешнего вызова никогда не доходят до пользователя.

const pricePrompt = `Ты аналитик цен студенческого маркетплейса QuickGrab.
Оцени, справедлива ли цена товара относительно типичных цен вторичного рынка кампуса.
Верни JSON с полями:
- rating: "Fair" | "Overpriced" | "Underpriced" | "Great Deal"
- percentage_diff: number (отклонение от средней цены в процентах)
- average_price: number (оценка справедливой цены)
- explanation: string (краткое объяснение)`

const searchPrompt = `Ты парсер поисковых запросов студенческого маркетплейса QuickGrab.
Разбери запрос пользователя и верни JSON с полями:
- item: string (основной искомый товар)
- urgency: "low" | "medium" | "high"
- category: string | null
- max_price: number | null
- keywords: string[]`

const disputePrompt = `Ты арбитр споров маркетплейса QuickGrab.
Проанализируй материалы сделки и вынеси справедливое решение.
Верни JSON с полями:
- decision: "buyer_favor" | "seller_favor" | "split" | "needs_review"
- confidence: number (0-100)
- reasoning: string
- suggested_action: string`

// logDegrade пишет предупреждение об откате на эвристику.
func logDegrade(component string, err error) {
	if logger.Log != nil {
		logger.Log.WithFields(logrus.Fields{
			"component": component,
			"error":     err.Error(),
		}).Warn("внешний AI недоступен, используем эвристику")
	}
}

// AIPriceChecker — оценка цены через внешнюю модель с откатом на эвристику.
type AIPriceChecker struct {
	client   *ai.Client
	fallback PriceChecker
}

func NewAIPriceChecker(client *ai.Client, fallback PriceChecker) *AIPriceChecker {
	return &AIPriceChecker{client: client, fallback: fallback}
}

func (a *AIPriceChecker) Check(ctx context.Context, itemName string, price float64, condition string) PriceCheckResult {
	userPrompt := fmt.Sprintf("Товар: %s\nЦена: $%.2f\nСостояние: %s\nВерни JSON с оценкой цены.", itemName, price, condition)

	raw, err := a.client.Complete(ctx, pricePrompt, userPrompt)
	if err != nil {
		logDegrade("price_checker", err)
		return a.fallback.Check(ctx, itemName, price, condition)
	}

	jsonText, err := ai.ExtractJSON(raw)
	if err != nil {
		logDegrade("price_checker", err)
		return a.fallback.Check(ctx, itemName, price, condition)
	}

	var result PriceCheckResult
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil || !validPriceRating(result.Rating) {
		logDegrade("price_checker", fmt.Errorf("некорректный JSON модели"))
		return a.fallback.Check(ctx, itemName, price, condition)
	}

	return result
}

func validPriceRating(rating string) bool {
	switch rating {
	case PriceRatingFair, PriceRatingOverpriced, PriceRatingUnderpriced, PriceRatingGreatDeal:
		return true
	}
	return false
}

// AISearchParser — разбор запроса через внешнюю модель с откатом на эвристику.
type AISearchParser struct {
	client   *ai.Client
	fallback SearchParser
}

func NewAISearchParser(client *ai.Client, fallback SearchParser) *AISearchParser {
	return &AISearchParser{client: client, fallback: fallback}
}

func (a *AISearchParser) Parse(ctx context.Context, query string) ParsedQuery {
	userPrompt := fmt.Sprintf("Разбери поисковый запрос: %q\nВерни структурированный JSON.", query)

	raw, err := a.client.Complete(ctx, searchPrompt, userPrompt)
	if err != nil {
		logDegrade("search_parser", err)
		return a.fallback.Parse(ctx, query)
	}

	jsonText, err := ai.ExtractJSON(raw)
	if err != nil {
		logDegrade("search_parser", err)
		return a.fallback.Parse(ctx, query)
	}

	var result ParsedQuery
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil || strings.TrimSpace(result.Item) == "" {
		logDegrade("search_parser", fmt.Errorf("некорректный JSON модели"))
		return a.fallback.Parse(ctx, query)
	}

	if result.Urgency == "" {
		result.Urgency = UrgencyMedium
	}
	if len(result.Keywords) == 0 {
		result.Keywords = []string{result.Item}
	}

	return result
}

// AIDisputeResolver — арбитраж через внешнюю модель с откатом на эвристику.
type AIDisputeResolver struct {
	client   *ai.Client
	fallback DisputeResolver
}

func NewAIDisputeResolver(client *ai.Client, fallback DisputeResolver) *AIDisputeResolver {
	return &AIDisputeResolver{client: client, fallback: fallback}
}

func (a *AIDisputeResolver) Resolve(ctx context.Context, evidence DisputeEvidence) DisputeResolution {
	history := evidence.MessageHistory
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	var timeline strings.Builder
	for key, value := range evidence.Timeline {
		fmt.Fprintf(&timeline, "%s: %s\n", key, value.Format("2006-01-02 15:04:05"))
	}

	userPrompt := fmt.Sprintf(
		"Претензия покупателя: %s\nПретензия продавца: %s\nПоследние сообщения:\n%s\nКоличество фотографий: %d\nХронология:\n%s\nВынеси справедливое решение.",
		evidence.BuyerClaim,
		evidence.SellerClaim,
		strings.Join(history, "\n"),
		evidence.PhotoCount,
		timeline.String(),
	)

	raw, err := a.client.Complete(ctx, disputePrompt, userPrompt)
	if err != nil {
		logDegrade("dispute_resolver", err)
		return a.fallback.Resolve(ctx, evidence)
	}

	jsonText, err := ai.ExtractJSON(raw)
	if err != nil {
		logDegrade("dispute_resolver", err)
		return a.fallback.Resolve(ctx, evidence)
	}

	var result DisputeResolution
	if err := json.Unmarshal([]byte(jsonText), &result); err != nil || !validDisputeOutcome(result.Decision) {
		logDegrade("dispute_resolver", fmt.Errorf("некорректный JSON модели"))
		return a.fallback.Resolve(ctx, evidence)
	}

	if result.Confidence < 0 || result.Confidence > 100 {
		result.Confidence = 50
	}

	return result
}

func validDisputeOutcome(decision string) bool {
	switch decision {
	case DisputeOutcomeBuyerFavor, DisputeOutcomeSellerFavor, DisputeOutcomeSplit, DisputeOutcomeNeedsReview:
		return true
	}
	return false
}
