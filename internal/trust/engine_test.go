package trust

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quickgrab/backend/internal/models"
)

func TestCalculateScore_NewAccount(t *testing.T) {
	score, components := CalculateScore(Inputs{
		VerificationStatus: models.VerificationStatusPending,
	})

	// Нулевая история: только слагаемое надёжности даёт 20.
	assert.Equal(t, 20, score)
	assert.Equal(t, 0, components.Verification)
	assert.Equal(t, 0, components.Ratings)
	assert.Equal(t, 0, components.DealVolume)
	assert.Equal(t, 20, components.Reliability)
}

func TestCalculateScore_MaxedOut(t *testing.T) {
	score, components := CalculateScore(Inputs{
		VerificationStatus: models.VerificationStatusVerified,
		AvgRating:          5,
		CompletedDeals:     100,
		CancellationRate:   0,
	})

	assert.Equal(t, 100, score)
	assert.Equal(t, 20, components.Verification)
	assert.Equal(t, 40, components.Ratings)
	assert.Equal(t, 20, components.DealVolume)
	assert.Equal(t, 20, components.Reliability)
}

func TestCalculateScore_Range(t *testing.T) {
	cases := []Inputs{
		{},
		{VerificationStatus: models.VerificationStatusVerified},
		{AvgRating: 3.7, CompletedDeals: 12, CancellationRate: 0.25},
		{AvgRating: 5, CompletedDeals: 1000, CancellationRate: 1},
		{AvgRating: 1, CompletedDeals: 0, CancellationRate: 0.9},
	}

	for _, in := range cases {
		score, _ := CalculateScore(in)
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
}

func TestCalculateScore_VolumeSaturates(t *testing.T) {
	at100, _ := CalculateScore(Inputs{CompletedDeals: 100})
	at500, _ := CalculateScore(Inputs{CompletedDeals: 500})

	assert.Equal(t, at100, at500)
}

func TestCalculateScore_CancellationHurts(t *testing.T) {
	clean, _ := CalculateScore(Inputs{AvgRating: 4.5, CompletedDeals: 30})
	flaky, _ := CalculateScore(Inputs{AvgRating: 4.5, CompletedDeals: 30, CancellationRate: 0.5})

	assert.Greater(t, clean, flaky)
}

func TestEarnedBadges_TrustedSeller(t *testing.T) {
	badges := EarnedBadges(Inputs{CompletedDeals: 50, AvgRating: 4.8})
	assert.Contains(t, badges, BadgeTrustedSeller)

	// Просадка рейтинга снимает бейдж при пересчёте.
	badges = EarnedBadges(Inputs{CompletedDeals: 50, AvgRating: 4.7})
	assert.NotContains(t, badges, BadgeTrustedSeller)
}

func TestEarnedBadges_PerfectSuccess(t *testing.T) {
	badges := EarnedBadges(Inputs{CompletedDeals: 10, CancellationRate: 0})
	assert.Contains(t, badges, BadgePerfectSuccess)

	badges = EarnedBadges(Inputs{CompletedDeals: 10, CancellationRate: 0.01})
	assert.NotContains(t, badges, BadgePerfectSuccess)

	badges = EarnedBadges(Inputs{CompletedDeals: 9, CancellationRate: 0})
	assert.NotContains(t, badges, BadgePerfectSuccess)
}

func TestEarnedBadges_OptionalSignals(t *testing.T) {
	fast := 250.0
	fair := 0.95

	badges := EarnedBadges(Inputs{AvgResponseTime: &fast, FairPriceRate: &fair})
	assert.Contains(t, badges, BadgeQuickResponder)
	assert.Contains(t, badges, BadgeFairPricer)

	// Без сигналов бейджи недостижимы.
	badges = EarnedBadges(Inputs{})
	assert.Empty(t, badges)
	assert.NotNil(t, badges)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "Exceptional", Level(90))
	assert.Equal(t, "Trusted", Level(70))
	assert.Equal(t, "Established", Level(50))
	assert.Equal(t, "New", Level(20))
	assert.Equal(t, "Unverified", Level(19))
	assert.Equal(t, "Unverified", Level(0))
}
