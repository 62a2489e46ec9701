package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickgrab/backend/internal/http/handlers/common"
	"github.com/quickgrab/backend/internal/service"
)

// MessageHandler предоставляет HTTP слой для чата сделки.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler создаёт хэндлер.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send обрабатывает POST /transactions/:id/messages.
func (h *MessageHandler) Send(c *gin.Context) {
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

	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	message, err := h.messages.Send(c.Request.Context(), userID, txnID, req.Content)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, message)
}

// List обрабатывает GET /transactions/:id/messages.
func (h *MessageHandler) List(c *gin.Context) {
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

	limit, offset := common.GetPagination(c)

	messages, err := h.messages.List(c.Request.Context(), userID, txnID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"messages": messages, "limit": limit, "offset": offset})
}

// SuggestMeetup обрабатывает POST /transactions/:id/meetup-suggestions.
func (h *MessageHandler) SuggestMeetup(c *gin.Context) {
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

	message, suggestion, err := h.messages.SuggestMeetup(c.Request.Context(), userID, txnID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, gin.H{
		"message":    message,
		"suggestion": suggestion,
	})
}
