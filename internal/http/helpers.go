package http

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/security"
)

// pages carries what every HTML controller needs to answer a request.
type pages struct {
	logger   *zap.Logger
	sessions SessionStore
	audit    AuditLog
}

func newPages(cfg RouterConfig) pages {
	p := pages{logger: cfg.Logger, sessions: cfg.Sessions, audit: cfg.Audit}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.audit == nil {
		p.audit = nopAudit{}
	}
	return p
}

// render adds the CSRF field and the pending flash message to data and
// renders the named template.
func (p pages) render(c *gin.Context, status int, name string, data gin.H) {
	data["CSRFField"] = security.CSRFField(c)
	if p.sessions != nil {
		data["Flash"] = p.sessions.PopFlash(c.Request.Context())
	}
	c.HTML(status, name, data)
}

// redirect answers a successful mutation.
func (p pages) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// redirectWithFlash stores message for the page at location.
func (p pages) redirectWithFlash(c *gin.Context, location, message string) {
	if p.sessions != nil {
		p.sessions.SetFlash(c.Request.Context(), message)
	}
	p.redirect(c, location)
}

func (p pages) respondNotFound(c *gin.Context, resource string) {
	p.render(c, http.StatusNotFound, "error", gin.H{
		"Title":   "Not Found",
		"Message": resource + " not found",
		"Status":  http.StatusNotFound,
	})
}

func (p pages) respondBadRequest(c *gin.Context, message string) {
	p.render(c, http.StatusBadRequest, "error", gin.H{
		"Title":   "Bad Request",
		"Message": message,
		"Status":  http.StatusBadRequest,
	})
}

// respondInternalError logs the error and renders the error page.
// The actual error is logged but not exposed to the client.
func (p pages) respondInternalError(c *gin.Context, err error, context string) {
	p.logger.Error("internal error",
		zap.String("context", context),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	p.render(c, http.StatusInternalServerError, "error", gin.H{
		"Title":   "Error",
		"Message": "Something went wrong. Please try again later.",
		"Status":  http.StatusInternalServerError,
	})
}

// respondLookupError maps a failed fetch to a 404 or a 500 page.
func (p pages) respondLookupError(c *gin.Context, err error, resource string) {
	if errors.Is(err, database.ErrNotFound) {
		p.respondNotFound(c, resource)
		return
	}
	p.respondInternalError(c, err, "fetch "+resource)
}

// parseIDParam reads the :id path parameter. A malformed id can never
// name a record, so callers treat false as "not found".
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// postForm returns the submitted form fields.
func postForm(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// trusted marks a value that was escaped on input, so the template engine
// does not escape it a second time.
func trusted(s string) template.HTML {
	return template.HTML(s) //nolint:gosec // escaped by forms.Escape before storage
}

// requestTimeout bounds the context of every request.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
