package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anup-shanbhag/TrelloQuora/internal/middleware"
)

const statusUserDeleted = "USER SUCCESSFULLY DELETED"

// DeleteUser removes a user with all their sessions and content. Admin only.
func (h HandlerSet) DeleteUser(c *gin.Context) {
	user, err := h.users.Delete(c.Request.Context(), middleware.TokenFrom(c), c.Param("userId"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{ID: user.UUID, Status: statusUserDeleted})
}
