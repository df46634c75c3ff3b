package http

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestTimeout(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		hasDeadline bool
	}{
		{"bounded", time.Second, true},
		{"disabled", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hasDeadline bool
			router := gin.New()
			router.Use(requestTimeout(tt.timeout))
			router.GET("/", func(c *gin.Context) {
				_, hasDeadline = c.Request.Context().Deadline()
				c.Status(http.StatusNoContent)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tt.hasDeadline, hasDeadline)
		})
	}
}

func TestParseIDParam(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		param string
		want  uuid.UUID
		ok    bool
	}{
		{id.String(), id, true},
		{"123", uuid.Nil, false},
		{"", uuid.Nil, false},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.param}}

		got, ok := parseIDParam(c)
		assert.Equal(t, tt.ok, ok, tt.param)
		assert.Equal(t, tt.want, got, tt.param)
	}
}

func TestTrusted(t *testing.T) {
	assert.Equal(t, template.HTML("Tom &amp; Jerry"), trusted("Tom &amp; Jerry"))
}
