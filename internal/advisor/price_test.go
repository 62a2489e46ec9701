package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicPriceChecker_Overpriced(t *testing.T) {
	checker := NewHeuristicPriceChecker(nil)

	// Средняя для iphone charger 15, GOOD даёт множитель 0.85: 12.75.
	result := checker.Check(context.Background(), "iPhone Charger", 25, "GOOD")

	assert.Equal(t, PriceRatingOverpriced, result.Rating)
	assert.Equal(t, 96, result.PercentageDiff)
	assert.InDelta(t, 13, result.AveragePrice, 0.01)
	assert.NotEmpty(t, result.Explanation)
}

func TestHeuristicPriceChecker_Fair(t *testing.T) {
	checker := NewHeuristicPriceChecker(nil)

	result := checker.Check(context.Background(), "textbook", 45, "LIKE_NEW")

	assert.Equal(t, PriceRatingFair, result.Rating)
	assert.Equal(t, 0, result.PercentageDiff)
}

func TestHeuristicPriceChecker_Underpriced(t *testing.T) {
	checker := NewHeuristicPriceChecker(nil)

	// 35 против средней 45: отклонение около -22%.
	result := checker.Check(context.Background(), "textbook", 35, "LIKE_NEW")

	assert.Equal(t, PriceRatingUnderpriced, result.Rating)
}

func TestHeuristicPriceChecker_GreatDeal(t *testing.T) {
	checker := NewHeuristicPriceChecker(nil)

	result := checker.Check(context.Background(), "textbook", 20, "LIKE_NEW")

	assert.Equal(t, PriceRatingGreatDeal, result.Rating)
}

func TestHeuristicPriceChecker_UnknownItem(t *testing.T) {
	checker := NewHeuristicPriceChecker(nil)

	// Неизвестный товар: заявленная цена считается средней, но множитель
	// состояния всё равно применяется.
	result := checker.Check(context.Background(), "quantum flux capacitor", 100, "LIKE_NEW")

	assert.Equal(t, PriceRatingFair, result.Rating)
	assert.Equal(t, 0, result.PercentageDiff)
}

type stubMarketSource struct {
	avg   float64
	count int
}

func (s stubMarketSource) AveragePriceByName(_ context.Context, _ string) (float64, int, error) {
	return s.avg, s.count, nil
}

func TestHeuristicPriceChecker_MarketAverageForUnknownItem(t *testing.T) {
	// Товара нет в таблице, но на кампусе есть живые объявления: средняя
	// берётся из них. 60 * 0.85 = 51, цена 80 выше на ~57%.
	checker := NewHeuristicPriceChecker(stubMarketSource{avg: 60, count: 4})

	result := checker.Check(context.Background(), "mini fridge", 80, "GOOD")

	assert.Equal(t, PriceRatingOverpriced, result.Rating)
	assert.Equal(t, 57, result.PercentageDiff)
	assert.InDelta(t, 51, result.AveragePrice, 0.01)
}

func TestHeuristicPriceChecker_TableBeatsMarket(t *testing.T) {
	// Для товаров из таблицы живые объявления не опрашиваются.
	checker := NewHeuristicPriceChecker(stubMarketSource{avg: 999, count: 10})

	result := checker.Check(context.Background(), "textbook", 45, "LIKE_NEW")

	assert.Equal(t, PriceRatingFair, result.Rating)
	assert.InDelta(t, 45, result.AveragePrice, 0.01)
}

func TestHeuristicPriceChecker_EmptyMarketFallsBackToPrice(t *testing.T) {
	checker := NewHeuristicPriceChecker(stubMarketSource{avg: 0, count: 0})

	result := checker.Check(context.Background(), "mini fridge", 80, "LIKE_NEW")

	assert.Equal(t, PriceRatingFair, result.Rating)
	assert.Equal(t, 0, result.PercentageDiff)
}

func TestHeuristicPriceChecker_UnknownConditionUsesDefault(t *testing.T) {
	checker := NewHeuristicPriceChecker(nil)

	withDefault := checker.Check(context.Background(), "calculator", 20, "")
	withGood := checker.Check(context.Background(), "calculator", 20, "GOOD")

	assert.Equal(t, withGood.AveragePrice, withDefault.AveragePrice)
	assert.Equal(t, withGood.Rating, withDefault.Rating)
}
