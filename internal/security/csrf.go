package security

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const csrfFieldKey = "csrf_field"

// CSRFMiddleware protects every unsafe request with gorilla/csrf. The hidden
// form field for the current request is stored in the gin context and read
// back with CSRFField.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailed)),
	)

	return func(c *gin.Context) {
		if !secure {
			c.Request = csrf.PlaintextHTTPRequest(c.Request)
		}

		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(csrfFieldKey, csrf.TemplateField(r))
			c.Request = r
			c.Next()
		}))
		handler.ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

func csrfFailed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("Form has expired or is invalid. Go back, reload the page and try again."))
}

// CSRFField returns the hidden input carrying the CSRF token, or an empty
// string when protection is disabled.
func CSRFField(c *gin.Context) template.HTML {
	if v, ok := c.Get(csrfFieldKey); ok {
		if field, ok := v.(template.HTML); ok {
			return field
		}
	}
	return ""
}
