package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/http/handlers/common"
	"github.com/quickgrab/backend/internal/service"
)

// DisputeHandler предоставляет HTTP слой для споров.
type DisputeHandler struct {
	disputes *service.DisputeService
}

// NewDisputeHandler создаёт хэндлер.
func NewDisputeHandler(disputes *service.DisputeService) *DisputeHandler {
	return &DisputeHandler{disputes: disputes}
}

// Open обрабатывает POST /disputes.
func (h *DisputeHandler) Open(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
		EvidenceText  string    `json:"evidence_text" binding:"required"`
		Photos        []string  `json:"photos"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.disputes.Open(c.Request.Context(), userID, service.OpenDisputeInput{
		TransactionID: req.TransactionID,
		EvidenceText:  req.EvidenceText,
		Photos:        req.Photos,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dispute)
}

// List обрабатывает GET /disputes?transaction_id=&status=.
func (h *DisputeHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	filter := service.DisputeListFilter{
		Decision: c.Query("status"),
	}

	if raw := c.Query("transaction_id"); raw != "" {
		txnID, err := uuid.Parse(raw)
		if err != nil {
			common.RespondBadRequest(c, "некорректный transaction_id")
			return
		}
		filter.TransactionID = &txnID
	}

	disputes, err := h.disputes.List(c.Request.Context(), userID, filter)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"disputes": disputes})
}
