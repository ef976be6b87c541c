package middleware

import (
	"net/http"

	"storefront/internal/apiclient"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-Id"
	RequestIDKey    = "requestID"

	SessionHeader = "X-Session-Id"
	SessionCookie = "sf_session"
	SessionKey    = "sessionID"

	sessionMaxAge = 30 * 24 * 60 * 60
)

// RequestID tags every request with an id, reusing the caller's when sent.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, id)
		}
		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Session gives each browser a stable guest id. The id travels to the remote
// API as X-Session-Id together with the other forwarded headers, and keys
// per-shopper cache entries.
func Session(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(SessionHeader)
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = cookie
			}
		}
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, sessionMaxAge, "/", "", secure, true)
		}

		c.Request.Header.Set(SessionHeader, id)
		c.Set(SessionKey, id)
		c.Request = c.Request.WithContext(apiclient.WithHeaders(c.Request.Context(), c.Request.Header))
		c.Next()
	}
}
