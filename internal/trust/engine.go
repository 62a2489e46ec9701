package trust

import (
	"math"

	"github.com/quickgrab/backend/internal/models"
)

// Engine — чистые функции расчёта репутации. Никакого состояния:
// балл и бейджи каждый раз полностью пересчитываются из входных данных,
// чтобы хранимые значения не расходились с историей.

// Inputs содержит данные аккаунта, влияющие на доверие.
type Inputs struct {
	VerificationStatus string
	AvgRating          float64
	CompletedDeals     int
	CancellationRate   float64

	// Необязательные сигналы для бейджей. Если источник их не считает,
	// соответствующие бейджи просто недостижимы.
	AvgResponseTime *float64 // секунды
	FairPriceRate   *float64 // доля объявлений с оценкой Fair
}

// Components раскладывает итоговый балл на слагаемые.
type Components struct {
	Verification int `json:"verification"`
	Ratings      int `json:"ratings"`
	DealVolume   int `json:"deal_volume"`
	Reliability  int `json:"reliability"`
}

// Пороговые значения бейджей.
const (
	trustedSellerMinDeals    = 50
	trustedSellerMinRating   = 4.8
	quickResponderMaxSeconds = 300
	fairPricerMinRate        = 0.9
	perfectSuccessMinDeals   = 10
)

// Названия бейджей.
const (
	BadgeTrustedSeller  = "Trusted Seller"
	BadgeQuickResponder = "Quick Responder"
	BadgeFairPricer     = "Fair Pricer"
	BadgePerfectSuccess = "100% Success Rate"
)

// CalculateScore возвращает балл доверия 0-100 и его составляющие:
// 20 за верификацию + до 40 за рейтинг + до 20 за объём сделок +
// до 20 за надёжность.
func CalculateScore(in Inputs) (int, Components) {
	verification := 0.0
	if in.VerificationStatus == models.VerificationStatusVerified {
		verification = 20
	}

	ratings := clamp(in.AvgRating/5*40, 0, 40)

	// Насыщение на 100 сделках.
	volume := clamp(float64(in.CompletedDeals)/100*20, 0, 20)

	reliability := clamp(20*(1-in.CancellationRate), 0, 20)

	score := int(math.Round(verification + ratings + volume + reliability))

	return score, Components{
		Verification: int(math.Round(verification)),
		Ratings:      int(math.Round(ratings)),
		DealVolume:   int(math.Round(volume)),
		Reliability:  int(math.Round(reliability)),
	}
}

// EarnedBadges возвращает полный набор заработанных бейджей.
// Набор всегда пересчитывается с нуля: бейдж пропадает, как только
// его условие перестаёт выполняться.
func EarnedBadges(in Inputs) []string {
	badges := []string{}

	if in.CompletedDeals >= trustedSellerMinDeals && in.AvgRating >= trustedSellerMinRating {
		badges = append(badges, BadgeTrustedSeller)
	}

	if in.AvgResponseTime != nil && *in.AvgResponseTime <= quickResponderMaxSeconds {
		badges = append(badges, BadgeQuickResponder)
	}

	if in.FairPriceRate != nil && *in.FairPriceRate >= fairPricerMinRate {
		badges = append(badges, BadgeFairPricer)
	}

	if in.CompletedDeals >= perfectSuccessMinDeals && in.CancellationRate == 0 {
		badges = append(badges, BadgePerfectSuccess)
	}

	return badges
}

// Level переводит балл в текстовый уровень для профиля.
func Level(score int) string {
	switch {
	case score >= 90:
		return "Exceptional"
	case score >= 70:
		return "Trusted"
	case score >= 50:
		return "Established"
	case score >= 20:
		return "New"
	default:
		return "Unverified"
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
