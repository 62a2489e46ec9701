package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/http/handlers/common"
	"github.com/quickgrab/backend/internal/service"
)

// RatingHandler предоставляет HTTP слой для взаимных оценок.
type RatingHandler struct {
	ratings *service.RatingService
}

// NewRatingHandler создаёт хэндлер.
func NewRatingHandler(ratings *service.RatingService) *RatingHandler {
	return &RatingHandler{ratings: ratings}
}

// Create обрабатывает POST /ratings.
func (h *RatingHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req struct {
		TransactionID uuid.UUID `json:"transaction_id" binding:"required"`
		Stars         int       `json:"stars" binding:"required"`
		Comment       *string   `json:"comment"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	rating, err := h.ratings.Rate(c.Request.Context(), userID, service.RateInput{
		TransactionID: req.TransactionID,
		Stars:         req.Stars,
		Comment:       req.Comment,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, rating)
}

// ListByUser обрабатывает GET /users/:id/ratings.
func (h *RatingHandler) ListByUser(c *gin.Context) {
	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)

	ratings, err := h.ratings.ListByUser(c.Request.Context(), targetID, limit, offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"ratings": ratings, "limit": limit, "offset": offset})
}
