package advisor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicDisputeResolver_NeedsReview(t *testing.T) {
	resolver := NewHeuristicDisputeResolver()

	// Нет фотографий и переписка короткая: материалов недостаточно.
	resolution := resolver.Resolve(context.Background(), DisputeEvidence{
		BuyerClaim:     "товар не соответствует описанию",
		SellerClaim:    "всё было в порядке",
		MessageHistory: []string{"привет", "встретимся у библиотеки", "ок"},
		PhotoCount:     0,
	})

	assert.Equal(t, DisputeOutcomeNeedsReview, resolution.Decision)
	assert.Equal(t, 30, resolution.Confidence)
}

func TestHeuristicDisputeResolver_BuyerFavor(t *testing.T) {
	resolver := NewHeuristicDisputeResolver()

	resolution := resolver.Resolve(context.Background(), DisputeEvidence{
		BuyerClaim:  strings.Repeat("экран разбит, продавец знал о дефекте. ", 5),
		SellerClaim: "неправда",
		PhotoCount:  3,
	})

	assert.Equal(t, DisputeOutcomeBuyerFavor, resolution.Decision)
	assert.Equal(t, 60, resolution.Confidence)
}

func TestHeuristicDisputeResolver_Split(t *testing.T) {
	resolver := NewHeuristicDisputeResolver()

	resolution := resolver.Resolve(context.Background(), DisputeEvidence{
		BuyerClaim:  "товар пришёл с царапинами",
		SellerClaim: "царапины были указаны в описании",
		PhotoCount:  2,
	})

	assert.Equal(t, DisputeOutcomeSplit, resolution.Decision)
	assert.Equal(t, 55, resolution.Confidence)
}

func TestHeuristicDisputeResolver_NeverAutoResolves(t *testing.T) {
	resolver := NewHeuristicDisputeResolver()

	cases := []DisputeEvidence{
		{},
		{PhotoCount: 5, BuyerClaim: strings.Repeat("x", 100), SellerClaim: "y"},
		{MessageHistory: make([]string, 10)},
	}

	// Эвристика всегда ниже порога: без внешнего анализа решение не
	// применяется автоматически.
	for _, evidence := range cases {
		resolution := resolver.Resolve(context.Background(), evidence)
		assert.LessOrEqual(t, resolution.Confidence, AutoResolveThreshold)
	}
}
