package advisor

import (
	"context"
	"fmt"
	"strings"
)

// ModerationResult — вердикт проверки содержимого сообщения.
type ModerationResult struct {
	IsSafe   bool     `json:"is_safe"`
	Flags    []string `json:"flags"`
	Severity string   `json:"severity"`
	Action   string   `json:"action"`
}

// Уровни серьёзности и действия модерации.
const (
	SeverityNone   = "none"
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"

	ActionAllow  = "allow"
	ActionWarn   = "warn"
	ActionReview = "review"
)

// Moderator проверяет сообщения чата на токсичность и признаки мошенничества.
type Moderator interface {
	Moderate(ctx context.Context, content string) ModerationResult
}

var (
	toxicWords      = []string{"stupid", "idiot", "scam", "fake", "threat", "kill"}
	scamIndicators  = []string{"send money", "western union", "gift card", "wire transfer", "venmo me first"}
	suspiciousLinks = []string{"bit.ly", "tinyurl", "click here"}
)

// HeuristicModerator — проверка по спискам ключевых слов.
type HeuristicModerator struct{}

func NewHeuristicModerator() *HeuristicModerator {
	return &HeuristicModerator{}
}

// Moderate собирает флаги по спискам и выводит серьёзность из их количества.
func (h *HeuristicModerator) Moderate(_ context.Context, content string) ModerationResult {
	lowerContent := strings.ToLower(content)
	var flags []string

	for _, word := range toxicWords {
		if strings.Contains(lowerContent, word) {
			flags = append(flags, fmt.Sprintf("потенциально токсичное слово: %s", word))
		}
	}

	for _, indicator := range scamIndicators {
		if strings.Contains(lowerContent, indicator) {
			flags = append(flags, fmt.Sprintf("возможный признак мошенничества: %s", indicator))
		}
	}

	for _, link := range suspiciousLinks {
		if strings.Contains(lowerContent, link) {
			flags = append(flags, fmt.Sprintf("подозрительная ссылка: %s", link))
		}
	}

	var severity string
	switch {
	case len(flags) == 0:
		severity = SeverityNone
	case len(flags) == 1:
		severity = SeverityLow
	case len(flags) < 3:
		severity = SeverityMedium
	default:
		severity = SeverityHigh
	}

	action := ActionAllow
	if len(flags) == 1 {
		action = ActionWarn
	} else if len(flags) >= 2 {
		action = ActionReview
	}

	return ModerationResult{
		IsSafe:   len(flags) == 0,
		Flags:    flags,
		Severity: severity,
		Action:   action,
	}
}
