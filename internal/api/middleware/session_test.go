package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apiclient"
)

func sessionRouter(seen *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Session(false))
	r.GET("/", func(c *gin.Context) {
		*seen = apiclient.SessionID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestSession_IssuesCookieForNewVisitor(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	sessionRouter(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSession_ReusesCookieAndHeader(t *testing.T) {
	var seen string
	id := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	w := httptest.NewRecorder()
	sessionRouter(&seen).ServeHTTP(w, req)
	assert.Equal(t, id, seen)
	assert.Empty(t, w.Result().Cookies())

	other := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, other)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
	sessionRouter(&seen).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, other, seen)
}

func TestSession_ReplacesForgedID(t *testing.T) {
	var seen string
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "../../admin")
	w := httptest.NewRecorder()
	sessionRouter(&seen).ServeHTTP(w, req)

	assert.NotEqual(t, "../../admin", seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestRequestID(t *testing.T) {
	var seen string
	w := httptest.NewRecorder()
	sessionRouter(&seen).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	sessionRouter(&seen).ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
