package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const SessionContextKey = "session_id"

// SessionHeader carries the opaque session identifier. Clients keep the value
// the server echoes back; a missing or blank header starts a fresh session.
const SessionHeader = "X-Session-ID"

// SessionMiddleware resolves the opaque session identifier that keys the
// cart. No identity is attached to it; it is an anonymous session token.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		c.Set(SessionContextKey, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the session identifier from the Gin context.
func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get(SessionContextKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
