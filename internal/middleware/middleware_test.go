package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def", "abc.def"},
		{"abc.def", "abc.def"},
		{"", ""},
		{"Bearer ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BearerToken(tt.header), tt.header)
	}
}

func TestBasicEnvelope(t *testing.T) {
	assert.Equal(t, "YWxpY2UgcHc=", BasicEnvelope("Basic YWxpY2UgcHc="))
	assert.Equal(t, "YWxpY2UgcHc=", BasicEnvelope("YWxpY2UgcHc="))
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(handlers...)
	return engine
}

func TestAccessTokenStoresBearer(t *testing.T) {
	engine := newEngine(AccessToken())
	var got string
	engine.GET("/", func(c *gin.Context) {
		got = TokenFrom(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	engine.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "tok-1", got)
}

func TestRequestID(t *testing.T) {
	engine := newEngine(RequestID())
	var got string
	engine.GET("/", func(c *gin.Context) {
		got = c.GetString(RequestIDKey)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "given")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "given", rec.Header().Get("X-Request-Id"))
}

func TestCORS(t *testing.T) {
	engine := newEngine(CORS([]string{"https://app.example"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "access_token")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryRendersGenericError(t *testing.T) {
	engine := newEngine(RequestID(), Logger(zerolog.Nop()), Recovery(zerolog.Nop()))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"code":"GEN-001","message":"An unexpected error occurred"}`, rec.Body.String())
}
