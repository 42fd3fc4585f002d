package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
	"github.com/anup-shanbhag/TrelloQuora/internal/models"
)

const (
	statusQuestionCreated = "QUESTION CREATED"
	statusQuestionEdited  = "QUESTION EDITED"
	statusQuestionDeleted = "QUESTION DELETED"
)

type questionRequest struct {
	Content string `json:"content" form:"content"`
}

type questionResponse struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func (h HandlerSet) CreateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	question, err := h.questions.Create(c.Request.Context(), middleware.TokenFrom(c), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, statusResponse{ID: question.UUID, Status: statusQuestionCreated})
}

func (h HandlerSet) AllQuestions(c *gin.Context) {
	questions, err := h.questions.All(c.Request.Context(), middleware.TokenFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	writeQuestions(c, questions)
}

func (h HandlerSet) EditQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	question, err := h.questions.Edit(c.Request.Context(), middleware.TokenFrom(c), c.Param("questionId"), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{ID: question.UUID, Status: statusQuestionEdited})
}

func (h HandlerSet) DeleteQuestion(c *gin.Context) {
	question, err := h.questions.Delete(c.Request.Context(), middleware.TokenFrom(c), c.Param("questionId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{ID: question.UUID, Status: statusQuestionDeleted})
}

func (h HandlerSet) QuestionsByUser(c *gin.Context) {
	questions, err := h.questions.ByUser(c.Request.Context(), middleware.TokenFrom(c), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	writeQuestions(c, questions)
}

func writeQuestions(c *gin.Context, questions []models.Question) {
	if len(questions) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]questionResponse, 0, len(questions))
	for _, q := range questions {
		resp = append(resp, questionResponse{ID: q.UUID, Content: q.Content})
	}
	c.JSON(http.StatusOK, resp)
}
