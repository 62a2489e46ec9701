package advisor

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// PriceCheckResult содержит оценку справедливости цены объявления.
type PriceCheckResult struct {
	Rating         string  `json:"rating"`
	PercentageDiff int     `json:"percentage_diff"`
	AveragePrice   float64 `json:"average_price"`
	Explanation    string  `json:"explanation"`
}

// Оценки цены.
const (
	PriceRatingFair        = "Fair"
	PriceRatingOverpriced  = "Overpriced"
	PriceRatingUnderpriced = "Underpriced"
	PriceRatingGreatDeal   = "Great Deal"
)

// PriceChecker оценивает цену товара относительно типичных цен кампуса.
type PriceChecker interface {
	Check(ctx context.Context, itemName string, price float64, condition string) PriceCheckResult
}

// campusPriceEstimates — таблица средних цен кампуса. Ключ сопоставляется
// с названием товара по подстроке.
var campusPriceEstimates = map[string]float64{
	"iphone charger": 15,
	"laptop charger": 35,
	"usb cable":      8,
	"textbook":       45,
	"calculator":     25,
	"headphones":     40,
	"desk lamp":      20,
	"chair":          50,
	"backpack":       30,
	"bike":           100,
}

// conditionMultipliers корректируют среднюю цену под состояние товара.
var conditionMultipliers = map[string]float64{
	"NEW":      1.2,
	"LIKE_NEW": 1.0,
	"GOOD":     0.85,
	"FAIR":     0.7,
	"POOR":     0.5,
}

const defaultConditionMultiplier = 0.85

// MarketPriceSource отдаёт среднюю цену живых объявлений с похожим названием
// и количество таких объявлений.
type MarketPriceSource interface {
	AveragePriceByName(ctx context.Context, name string) (float64, int, error)
}

// HeuristicPriceChecker — детерминированная оценка по таблице цен.
// Это основная реализация: AI-путь лишь надстройка над ней.
type HeuristicPriceChecker struct {
	market MarketPriceSource
}

func NewHeuristicPriceChecker(market MarketPriceSource) *HeuristicPriceChecker {
	return &HeuristicPriceChecker{market: market}
}

// Check сравнивает цену со средней по таблице с поправкой на состояние
// и раскладывает отклонение по корзинам.
func (h *HeuristicPriceChecker) Check(ctx context.Context, itemName string, price float64, condition string) PriceCheckResult {
	lowerName := strings.ToLower(itemName)

	avgPrice, known := 0.0, false
	for key, estimate := range campusPriceEstimates {
		if strings.Contains(lowerName, key) || strings.Contains(key, lowerName) {
			avgPrice, known = estimate, true
			break
		}
	}

	// Товара нет в таблице: пробуем среднюю по живым объявлениям кампуса.
	if !known && h.market != nil {
		if avg, count, err := h.market.AveragePriceByName(ctx, itemName); err == nil && count > 0 {
			avgPrice, known = avg, true
		}
	}

	// Средней взять неоткуда: считаем заявленную цену справедливой базой.
	if !known {
		avgPrice = price
	}

	multiplier, ok := conditionMultipliers[strings.ToUpper(condition)]
	if !ok {
		multiplier = defaultConditionMultiplier
	}

	adjustedAvg := avgPrice * multiplier
	percentageDiff := (price - adjustedAvg) / adjustedAvg * 100

	var rating, explanation string
	switch {
	case percentageDiff > 30:
		rating = PriceRatingOverpriced
		explanation = fmt.Sprintf("Цена на %d%% выше типичной для кампуса.", int(math.Abs(math.Round(percentageDiff))))
	case percentageDiff > -10:
		rating = PriceRatingFair
		explanation = "Цена соответствует типичным ценам кампуса."
	case percentageDiff > -30:
		rating = PriceRatingUnderpriced
		explanation = "Хорошее предложение: цена ниже средней."
	default:
		rating = PriceRatingGreatDeal
		explanation = fmt.Sprintf("Отличная цена: на %d%% ниже типичной для кампуса.", int(math.Abs(math.Round(percentageDiff))))
	}

	return PriceCheckResult{
		Rating:         rating,
		PercentageDiff: int(math.Round(percentageDiff)),
		AveragePrice:   math.Round(adjustedAvg),
		Explanation:    explanation,
	}
}
