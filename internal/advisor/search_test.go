package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicSearchParser_Urgency(t *testing.T) {
	parser := NewHeuristicSearchParser()

	parsed := parser.Parse(context.Background(), "need iphone charger asap")
	assert.Equal(t, UrgencyHigh, parsed.Urgency)

	parsed = parser.Parse(context.Background(), "looking for a desk lamp")
	assert.Equal(t, UrgencyMedium, parsed.Urgency)
}

func TestHeuristicSearchParser_Category(t *testing.T) {
	parser := NewHeuristicSearchParser()

	parsed := parser.Parse(context.Background(), "cheap laptop for classes")
	assert.Equal(t, "electronics", parsed.Category)

	parsed = parser.Parse(context.Background(), "calculus textbook")
	assert.Equal(t, "books", parsed.Category)

	parsed = parser.Parse(context.Background(), "something nice")
	assert.Empty(t, parsed.Category)
}

func TestHeuristicSearchParser_MaxPrice(t *testing.T) {
	parser := NewHeuristicSearchParser()

	parsed := parser.Parse(context.Background(), "headphones under $30")
	if assert.NotNil(t, parsed.MaxPrice) {
		assert.Equal(t, 30.0, *parsed.MaxPrice)
	}

	parsed = parser.Parse(context.Background(), "headphones")
	assert.Nil(t, parsed.MaxPrice)
}

func TestHeuristicSearchParser_Keywords(t *testing.T) {
	parser := NewHeuristicSearchParser()

	parsed := parser.Parse(context.Background(), "need iphone charger urgent under $20")

	assert.Contains(t, parsed.Keywords, "iphone")
	assert.Contains(t, parsed.Keywords, "charger")
	assert.NotContains(t, parsed.Keywords, "urgent")
	assert.NotContains(t, parsed.Keywords, "need")
	assert.NotEmpty(t, parsed.Item)
}

func TestHeuristicSearchParser_EmptyAfterCleanup(t *testing.T) {
	parser := NewHeuristicSearchParser()

	// Запрос из одних служебных слов не должен давать пустой item.
	parsed := parser.Parse(context.Background(), "need")

	assert.NotEmpty(t, parsed.Item)
	assert.NotEmpty(t, parsed.Keywords)
}
