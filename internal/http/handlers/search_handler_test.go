package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSearchHandler_Search_RequiresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &SearchHandler{search: nil}
	r.POST("/search", handler.Search)

	req, _ := http.NewRequest("POST", "/search", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchHandler_Search_RequiresQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &SearchHandler{search: nil}
	r.POST("/search", handler.Search)

	// Запрос без query отклоняется до обращения к сервису.
	req, _ := http.NewRequest("POST", "/search", strings.NewReader(`{"limit": 10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
