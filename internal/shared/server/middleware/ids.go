package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey = "requestId"
	resumeIDKey  = "resumeId"

	requestIDHeader = "X-Request-Id"
	resumeIDHeader  = "X-Resume-Id"

	maxRequestIDLen = 64
)

// RequestID propagates a caller supplied X-Request-Id when it is a short token,
// otherwise it mints a fresh one. The id is echoed on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext fetches the request ID stored by RequestID middleware.
func RequestIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(requestIDKey)
}

// SetResumeID tags the request with the resume it operates on. Logs and error
// envelopes pick it up, and clients see it as X-Resume-Id.
func SetResumeID(c *gin.Context, id string) {
	if id == "" {
		return
	}
	c.Set(resumeIDKey, id)
	c.Writer.Header().Set(resumeIDHeader, id)
}

// ResumeIDFromContext returns the id recorded by SetResumeID.
func ResumeIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(resumeIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
