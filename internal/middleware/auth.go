package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenKey = "access_token"
	bearerPrefix   = "Bearer "
	basicPrefix    = "Basic "
)

// BearerToken returns the text after "Bearer " when present, otherwise the
// raw header value.
func BearerToken(header string) string {
	if idx := strings.Index(header, bearerPrefix); idx >= 0 {
		return header[idx+len(bearerPrefix):]
	}
	return header
}

// BasicEnvelope strips the "Basic " scheme from a sign-in header.
func BasicEnvelope(header string) string {
	if idx := strings.Index(header, basicPrefix); idx >= 0 {
		return header[idx+len(basicPrefix):]
	}
	return header
}

// AccessToken extracts the bearer token for downstream handlers. It never
// rejects a request: a missing token resolves to "not signed in" in the
// service layer, where the error code depends on the operation.
func AccessToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(accessTokenKey, BearerToken(c.GetHeader("Authorization")))
		c.Next()
	}
}

func TokenFrom(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
