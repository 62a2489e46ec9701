package advisor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicModerator_CleanMessage(t *testing.T) {
	moderator := NewHeuristicModerator()

	result := moderator.Moderate(context.Background(), "Встретимся завтра у библиотеки в 15:00?")

	assert.True(t, result.IsSafe)
	assert.Empty(t, result.Flags)
	assert.Equal(t, SeverityNone, result.Severity)
	assert.Equal(t, ActionAllow, result.Action)
}

func TestHeuristicModerator_SingleFlag(t *testing.T) {
	moderator := NewHeuristicModerator()

	result := moderator.Moderate(context.Background(), "this looks fake to me")

	assert.False(t, result.IsSafe)
	assert.Len(t, result.Flags, 1)
	assert.Equal(t, SeverityLow, result.Severity)
	assert.Equal(t, ActionWarn, result.Action)
}

func TestHeuristicModerator_ScamPattern(t *testing.T) {
	moderator := NewHeuristicModerator()

	result := moderator.Moderate(context.Background(), "send money via western union, link: bit.ly/abc")

	assert.False(t, result.IsSafe)
	assert.GreaterOrEqual(t, len(result.Flags), 3)
	assert.Equal(t, SeverityHigh, result.Severity)
	assert.Equal(t, ActionReview, result.Action)
}

func TestHeuristicModerator_CaseInsensitive(t *testing.T) {
	moderator := NewHeuristicModerator()

	result := moderator.Moderate(context.Background(), "SEND MONEY first")

	assert.False(t, result.IsSafe)
}
