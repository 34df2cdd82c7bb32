package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docrag/internal/app"
	"docrag/internal/transport/http/response"
)

type SearchHandler struct {
	answers *app.AnswerService
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k" binding:"max=20"`
}

func NewSearchHandler(answers *app.AnswerService) *SearchHandler {
	return &SearchHandler{answers: answers}
}

// Search performs semantic search over the indexed chunks.
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	results, err := h.answers.Search(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		if errors.Is(err, app.ErrInvalidQuery) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				"error during search: "+err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"query":   req.Query,
		"results": results,
		"total":   len(results),
	})
}
