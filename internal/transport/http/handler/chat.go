package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docrag/internal/app"
	"docrag/internal/transport/http/response"
)

type ChatHandler struct {
	answers *app.AnswerService
}

type ChatRequest struct {
	Question   string `json:"question" binding:"required"`
	MaxSources int    `json:"max_sources" binding:"max=50"`
}

func NewChatHandler(answers *app.AnswerService) *ChatHandler {
	return &ChatHandler{answers: answers}
}

// Chat answers a question grounded in the indexed documents.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.answers.Answer(c.Request.Context(), req.Question, req.MaxSources)
	if err != nil {
		if errors.Is(err, app.ErrInvalidQuery) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer,
				"error generating answer: "+err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"question": req.Question,
		"answer":   result.Answer,
		"sources":  result.Sources,
	})
}
