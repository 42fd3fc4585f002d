package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
)

const (
	statusAnswerCreated = "ANSWER CREATED"
	statusAnswerEdited  = "ANSWER EDITED"
	statusAnswerDeleted = "ANSWER DELETED"
)

type answerRequest struct {
	Answer string `json:"answer" form:"answer"`
}

type answerEditRequest struct {
	Content string `json:"content" form:"content"`
}

type answerDetailsResponse struct {
	ID              string `json:"id"`
	AnswerContent   string `json:"answerContent"`
	QuestionContent string `json:"questionContent"`
}

func (h HandlerSet) CreateAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	answer, err := h.answers.Create(c.Request.Context(), middleware.TokenFrom(c), c.Param("questionId"), req.Answer)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, statusResponse{ID: answer.UUID, Status: statusAnswerCreated})
}

func (h HandlerSet) EditAnswer(c *gin.Context) {
	var req answerEditRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	answer, err := h.answers.Edit(c.Request.Context(), middleware.TokenFrom(c), c.Param("answerId"), req.Content)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{ID: answer.UUID, Status: statusAnswerEdited})
}

func (h HandlerSet) DeleteAnswer(c *gin.Context) {
	answer, err := h.answers.Delete(c.Request.Context(), middleware.TokenFrom(c), c.Param("answerId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{ID: answer.UUID, Status: statusAnswerDeleted})
}

func (h HandlerSet) AnswersForQuestion(c *gin.Context) {
	answers, err := h.answers.ByQuestion(c.Request.Context(), middleware.TokenFrom(c), c.Param("questionId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	if len(answers) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]answerDetailsResponse, 0, len(answers))
	for _, a := range answers {
		resp = append(resp, answerDetailsResponse{
			ID:              a.UUID,
			AnswerContent:   a.Content,
			QuestionContent: a.Question.Content,
		})
	}
	c.JSON(http.StatusOK, resp)
}
