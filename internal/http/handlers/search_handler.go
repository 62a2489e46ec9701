package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickgrab/backend/internal/http/handlers/common"
	"github.com/quickgrab/backend/internal/service"
)

// SearchHandler предоставляет HTTP слой для поиска на естественном языке.
type SearchHandler struct {
	search *service.SearchService
}

// NewSearchHandler создаёт хэндлер.
func NewSearchHandler(search *service.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search обрабатывает POST /search.
func (h *SearchHandler) Search(c *gin.Context) {
	var req struct {
		Query  string `json:"query" binding:"required"`
		Limit  int    `json:"limit"`
		Offset int    `json:"offset"`
	}

	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.search.Search(c.Request.Context(), req.Query, req.Limit, req.Offset)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, result)
}
