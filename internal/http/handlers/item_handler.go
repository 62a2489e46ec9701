package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickgrab/backend/internal/http/handlers/common"
	"github.com/quickgrab/backend/internal/repository"
	"github.com/quickgrab/backend/internal/service"
)

// ItemHandler предоставляет HTTP слой для объявлений.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler создаёт хэндлер.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

type itemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category"`
	Description *string  `json:"description"`
	Price       float64  `json:"price" binding:"required"`
	Condition   string   `json:"condition" binding:"required"`
	Photos      []string `json:"photos"`
}

func (r itemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Condition:   r.Condition,
		Photos:      r.Photos,
	}
}

// Create обрабатывает POST /items.
func (h *ItemHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	var req itemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.Create(c.Request.Context(), userID, req.toInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, item)
}

// Get обрабатывает GET /items/:id.
func (h *ItemHandler) Get(c *gin.Context) {
	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), itemID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Update обрабатывает PUT /items/:id.
func (h *ItemHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req itemRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.Update(c.Request.Context(), userID, itemID, req.toInput())
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, item)
}

// Delete обрабатывает DELETE /items/:id.
func (h *ItemHandler) Delete(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	itemID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.items.Delete(c.Request.Context(), userID, itemID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List обрабатывает GET /items.
func (h *ItemHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	filter := repository.ItemFilter{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Condition: c.Query("condition"),
		MinPrice:  common.ParseFloatQuery(c, "min_price"),
		MaxPrice:  common.ParseFloatQuery(c, "max_price"),
		Status:    c.Query("status"),
		Limit:     limit,
		Offset:    offset,
	}

	if raw := c.Query("seller_id"); raw != "" {
		if sellerID, err := uuid.Parse(raw); err == nil {
			filter.SellerID = &sellerID
		}
	}

	items, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

// CheckPrice обрабатывает POST /items/price-check.
func (h *ItemHandler) CheckPrice(c *gin.Context) {
	var req struct {
		Name      string  `json:"name" binding:"required"`
		Price     float64 `json:"price" binding:"required"`
		Condition string  `json:"condition"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.items.CheckPrice(c.Request.Context(), req.Name, req.Price, req.Condition)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}
