package security

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const readOnlyMessage = "This action is disabled in read-only mode"

// ReadOnly blocks every write request when enabled. Pages still render, so
// forms stay visible but cannot be submitted.
type ReadOnly struct {
	enabled bool
}

func NewReadOnly(enabled bool) *ReadOnly {
	return &ReadOnly{enabled: enabled}
}

func (m *ReadOnly) IsEnabled() bool {
	return m.enabled
}

func (m *ReadOnly) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.String(http.StatusForbidden, readOnlyMessage)
		c.Abort()
	}
}
