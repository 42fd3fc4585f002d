package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anup-shanbhag/TrelloQuora/internal/apperr"
	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const badRequestCode = "REQ-001"

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidCredentials:
		return http.StatusUnauthorized
	case apperr.KindNotSignedIn, apperr.KindSessionExpired, apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindDuplicateIdentity:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail renders err as {"code", "message"}. Unexpected failures are logged and
// their detail withheld from the client.
func (h HandlerSet) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindUnexpected {
		h.log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{
			Code:    apperr.GenericError.Code,
			Message: apperr.GenericError.Message,
		})
		return
	}

	c.JSON(statusFor(appErr.Kind), errorResponse{Code: appErr.Code, Message: appErr.Message})
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, errorResponse{Code: badRequestCode, Message: "Malformed request body"})
}
