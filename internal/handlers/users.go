package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
	"github.com/anup-shanbhag/TrelloQuora/internal/service"
)

const (
	statusUserRegistered = "USER SUCCESSFULLY REGISTERED"
	statusSignedIn       = "SIGNED IN SUCCESSFULLY"
	statusSignedOut      = "SIGNED OUT SUCCESSFULLY"

	accessTokenHeader = "access_token"
)

type signupRequest struct {
	FirstName     string `json:"firstName" form:"firstName"`
	LastName      string `json:"lastName" form:"lastName"`
	UserName      string `json:"userName" form:"userName"`
	EmailAddress  string `json:"emailAddress" form:"emailAddress"`
	Password      string `json:"password" form:"password"`
	Country       string `json:"country" form:"country"`
	AboutMe       string `json:"aboutMe" form:"aboutMe"`
	DOB           string `json:"dob" form:"dob"`
	ContactNumber string `json:"contactNumber" form:"contactNumber"`
}

type statusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type messageResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type profileResponse struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	UserName      string `json:"userName"`
	EmailAddress  string `json:"emailAddress"`
	Country       string `json:"country"`
	AboutMe       string `json:"aboutMe"`
	DOB           string `json:"dob"`
	ContactNumber string `json:"contactNumber"`
}

type sessionResponse struct {
	ID        string    `json:"id"`
	LoginAt   time.Time `json:"loginAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Current   bool      `json:"current"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.Signup(c.Request.Context(), service.SignupInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		UserName:      req.UserName,
		Email:         req.EmailAddress,
		Password:      req.Password,
		Country:       req.Country,
		AboutMe:       req.AboutMe,
		DOB:           req.DOB,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, statusResponse{ID: user.UUID, Status: statusUserRegistered})
}

// Signin expects "Authorization: Basic base64(username password)" and returns
// the bearer token in the access_token response header.
func (h HandlerSet) Signin(c *gin.Context) {
	envelope := middleware.BasicEnvelope(c.GetHeader("Authorization"))

	session, err := h.users.Signin(c.Request.Context(), envelope)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header(accessTokenHeader, session.AccessToken)
	c.JSON(http.StatusOK, messageResponse{ID: session.User.UUID, Message: statusSignedIn})
}

func (h HandlerSet) Signout(c *gin.Context) {
	user, err := h.users.Signout(c.Request.Context(), middleware.TokenFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{ID: user.UUID, Message: statusSignedOut})
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	token := middleware.TokenFrom(c)

	sessions, err := h.users.Sessions(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, sessionResponse{
			ID:        session.UUID,
			LoginAt:   session.LoginAt,
			ExpiresAt: session.ExpiresAt,
			Current:   session.AccessToken == token,
		})
	}

	c.JSON(http.StatusOK, resp)
}

func (h HandlerSet) Profile(c *gin.Context) {
	user, err := h.users.Profile(c.Request.Context(), middleware.TokenFrom(c), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, profileResponse{
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		UserName:      user.UserName,
		EmailAddress:  user.Email,
		Country:       user.Country,
		AboutMe:       user.AboutMe,
		DOB:           user.DOB,
		ContactNumber: user.ContactNumber,
	})
}
