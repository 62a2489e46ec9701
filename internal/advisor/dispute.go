package advisor

import (
	"context"
	"time"
)

// DisputeEvidence — материалы спора, по которым выносится решение.
type DisputeEvidence struct {
	BuyerClaim     string
	SellerClaim    string
	MessageHistory []string
	PhotoCount     int
	Timeline       map[string]time.Time
}

// DisputeResolution — предложенное решение по спору.
type DisputeResolution struct {
	Decision        string `json:"decision"`
	Confidence      int    `json:"confidence"`
	Reasoning       string `json:"reasoning"`
	SuggestedAction string `json:"suggested_action"`
}

// Решения арбитража в терминах советника. Сервис споров переводит их
// в хранимые значения decision.
const (
	DisputeOutcomeBuyerFavor  = "buyer_favor"
	DisputeOutcomeSellerFavor = "seller_favor"
	DisputeOutcomeSplit       = "split"
	DisputeOutcomeNeedsReview = "needs_review"
)

// AutoResolveThreshold — минимальная уверенность, при которой решение
// применяется автоматически. Всё, что ниже, остаётся на ручной разбор.
const AutoResolveThreshold = 80

// DisputeResolver классифицирует исход спора.
type DisputeResolver interface {
	Resolve(ctx context.Context, evidence DisputeEvidence) DisputeResolution
}

// HeuristicDisputeResolver — детерминированные правила арбитража.
// Уверенность эвристики сознательно держится ниже порога автоматического
// решения: без внешнего анализа спор всегда уходит на ручной разбор.
type HeuristicDisputeResolver struct{}

func NewHeuristicDisputeResolver() *HeuristicDisputeResolver {
	return &HeuristicDisputeResolver{}
}

// Resolve применяет простые правила к материалам спора.
func (h *HeuristicDisputeResolver) Resolve(_ context.Context, evidence DisputeEvidence) DisputeResolution {
	hasPhotos := evidence.PhotoCount > 0
	hasMessageHistory := len(evidence.MessageHistory) > 5

	if !hasPhotos && !hasMessageHistory {
		return DisputeResolution{
			Decision:        DisputeOutcomeNeedsReview,
			Confidence:      30,
			Reasoning:       "Недостаточно материалов для автоматического решения.",
			SuggestedAction: "Запросить дополнительные материалы у обеих сторон.",
		}
	}

	if len(evidence.BuyerClaim) > len(evidence.SellerClaim)*2 && hasPhotos {
		return DisputeResolution{
			Decision:        DisputeOutcomeBuyerFavor,
			Confidence:      60,
			Reasoning:       "Покупатель предоставил более подробную претензию с фотографиями.",
			SuggestedAction: "Вернуть деньги покупателю, предупредить продавца.",
		}
	}

	return DisputeResolution{
		Decision:        DisputeOutcomeSplit,
		Confidence:      55,
		Reasoning:       "Обе стороны приводят разумные аргументы. Справедливо разделить сумму.",
		SuggestedAction: "Вернуть 50% покупателю, выплатить 50% продавцу.",
	}
}
