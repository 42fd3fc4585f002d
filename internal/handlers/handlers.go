package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anup-shanbhag/TrelloQuora/internal/config"
	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
	"github.com/anup-shanbhag/TrelloQuora/internal/service"
)

// Dependencies are the collaborators the HTTP layer needs. DB and Cache are
// only used by the health check and may be nil.
type Dependencies struct {
	Users     *service.UserService
	Questions *service.QuestionService
	Answers   *service.AnswerService
	DB        *pgxpool.Pool
	Cache     *redis.Client
}

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	users     *service.UserService
	questions *service.QuestionService
	answers   *service.AnswerService
	db        *pgxpool.Pool
	cache     *redis.Client
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		users:     deps.Users,
		questions: deps.Questions,
		answers:   deps.Answers,
		db:        deps.DB,
		cache:     deps.Cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	user := router.Group("/user")
	user.POST("/signup", h.Signup)
	user.POST("/signin", h.Signin)

	authed := router.Group("")
	authed.Use(middleware.AccessToken())
	{
		authed.POST("/user/signout", h.Signout)
		authed.GET("/user/sessions", h.ListSessions)
		authed.GET("/userprofile/:userId", h.Profile)

		authed.DELETE("/admin/user/:userId", h.DeleteUser)

		authed.POST("/question/create", h.CreateQuestion)
		authed.GET("/question/all", h.AllQuestions)
		authed.PUT("/question/edit/:questionId", h.EditQuestion)
		authed.DELETE("/question/delete/:questionId", h.DeleteQuestion)
		authed.GET("/question/all/:userId", h.QuestionsByUser)

		authed.POST("/question/:questionId/answer/create", h.CreateAnswer)
		authed.PUT("/answer/edit/:answerId", h.EditAnswer)
		authed.DELETE("/answer/delete/:answerId", h.DeleteAnswer)
		authed.GET("/answer/all/:questionId", h.AnswersForQuestion)
	}
}
