package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/http/handlers/common"
	"github.com/quickgrab/backend/internal/models"
	"github.com/quickgrab/backend/internal/service"
)

// TransactionHandler предоставляет HTTP слой для жизненного цикла сделок.
type TransactionHandler struct {
	transactions *service.TransactionService
}

// NewTransactionHandler создаёт хэндлер.
func NewTransactionHandler(transactions *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Request обрабатывает POST /transactions/request.
func (h *TransactionHandler) Request(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		ItemID uuid.UUID `json:"item_id" binding:"required"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	txn, err := h.transactions.Request(c.Request.Context(), userID, req.ItemID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, txn)
}

// Accept обрабатывает POST /transactions/:id/accept.
func (h *TransactionHandler) Accept(c *gin.Context) {
	h.transition(c, h.transactions.Accept)
}

// Pay обрабатывает POST /transactions/:id/pay.
func (h *TransactionHandler) Pay(c *gin.Context) {
	h.transition(c, h.transactions.Pay)
}

// StartMeeting обрабатывает POST /transactions/:id/meet.
func (h *TransactionHandler) StartMeeting(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	txnID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	// Место встречи опционально.
	var req struct {
		MeetupLocation string `json:"meetup_location"`
	}
	_ = c.ShouldBindJSON(&req)

	txn, err := h.transactions.StartMeeting(c.Request.Context(), userID, txnID, req.MeetupLocation)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, txn)
}

// Confirm обрабатывает POST /transactions/:id/confirm.
func (h *TransactionHandler) Confirm(c *gin.Context) {
	h.transition(c, h.transactions.Confirm)
}

// Refund обрабатывает POST /transactions/:id/refund.
func (h *TransactionHandler) Refund(c *gin.Context) {
	h.transition(c, h.transactions.Refund)
}

// Get обрабатывает GET /transactions/:id.
func (h *TransactionHandler) Get(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	txnID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	txn, err := h.transactions.GetByID(c.Request.Context(), userID, txnID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, txn)
}

// List обрабатывает GET /transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	limit, offset := common.GetPagination(c)

	transactions, err := h.transactions.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"transactions": transactions, "limit": limit, "offset": offset})
}

// transition — общий каркас операций перехода статуса над /transactions/:id.
func (h *TransactionHandler) transition(c *gin.Context, op func(ctx context.Context, actorID, txnID uuid.UUID) (*models.Transaction, error)) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	txnID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	txn, err := op(c.Request.Context(), userID, txnID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, txn)
}
