package service

import (
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/trust"
)

// reputationFor пересчитывает балл доверия и бейджи по текущему состоянию
// пользователя. Вызывается после каждого события, влияющего на репутацию:
// верификации, новой оценки, завершения или возврата сделки.
func reputationFor(user *models.User) (int, []string) {
	in := trust.Inputs{
		VerificationStatus: user.VerificationStatus,
		AvgRating:          user.AvgRating,
		CompletedDeals:     user.CompletedDeals,
		CancellationRate:   user.CancellationRate,
	}

	score, _ := trust.CalculateScore(in)
	return score, trust.EarnedBadges(in)
}
