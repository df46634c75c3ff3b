package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/security"
	"github.com/mrlokans/library/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	p := newPages(cfg)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.Middleware(p.logger))
	router.Use(requestTimeout(cfg.RequestTimeout))

	router.Use(security.HeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(security.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadAndSave())
	}

	router.Use(security.NewReadOnly(cfg.ReadOnly).Handler())

	funcMap := template.FuncMap{
		"trusted": trusted,
	}
	router.SetHTMLTemplate(template.Must(loadTemplates(cfg.TemplatesPath, funcMap)))

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		router.StaticFS("/static", http.FS(web.Static()))
	}

	probes := map[string]HealthChecker{"database": nil}
	if cfg.Database != nil {
		probes["database"] = cfg.Database
	}
	if cfg.TaskQueue != nil {
		probes["tasks"] = cfg.TaskQueue
	}
	health := NewHealthController(probes, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", Ping)

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/catalog")
	})

	catalog := router.Group("/catalog")
	home := NewHomeController(p, cfg.Catalog)
	catalog.GET("", home.Index)
	catalog.GET("/audit", NewAuditController(p).AuditLogPage)

	authors := NewAuthorsController(p, cfg.Catalog.Authors, cfg.Catalog.Books)
	catalog.GET("/authors", authors.List)
	catalog.GET("/author/create", authors.CreateForm)
	catalog.POST("/author/create", authors.CreateSubmit)
	catalog.GET("/author/:id", authors.Detail)
	catalog.GET("/author/:id/update", authors.UpdateForm)
	catalog.POST("/author/:id/update", authors.UpdateSubmit)
	catalog.GET("/author/:id/delete", authors.DeleteForm)
	catalog.POST("/author/:id/delete", authors.DeleteSubmit)

	books := NewBooksController(p, cfg.Catalog)
	catalog.GET("/books", books.List)
	catalog.GET("/book/create", books.CreateForm)
	catalog.POST("/book/create", books.CreateSubmit)
	catalog.GET("/book/:id", books.Detail)
	catalog.GET("/book/:id/update", books.UpdateForm)
	catalog.POST("/book/:id/update", books.UpdateSubmit)
	catalog.GET("/book/:id/delete", books.DeleteForm)
	catalog.POST("/book/:id/delete", books.DeleteSubmit)

	genres := NewGenresController(p, cfg.Catalog.Genres, cfg.Catalog.Books)
	catalog.GET("/genres", genres.List)
	catalog.GET("/genre/create", genres.CreateForm)
	catalog.POST("/genre/create", genres.CreateSubmit)
	catalog.GET("/genre/:id", genres.Detail)
	catalog.GET("/genre/:id/update", genres.UpdateForm)
	catalog.POST("/genre/:id/update", genres.UpdateSubmit)
	catalog.GET("/genre/:id/delete", genres.DeleteForm)
	catalog.POST("/genre/:id/delete", genres.DeleteSubmit)

	instances := NewBookInstancesController(p, cfg.Catalog.Instances, cfg.Catalog.Books)
	catalog.GET("/bookinstances", instances.List)
	catalog.GET("/bookinstance/create", instances.CreateForm)
	catalog.POST("/bookinstance/create", instances.CreateSubmit)
	catalog.GET("/bookinstance/:id", instances.Detail)
	catalog.GET("/bookinstance/:id/update", instances.UpdateForm)
	catalog.POST("/bookinstance/:id/update", instances.UpdateSubmit)
	catalog.GET("/bookinstance/:id/delete", instances.DeleteForm)
	catalog.POST("/bookinstance/:id/delete", instances.DeleteSubmit)

	return router
}

// loadTemplates parses the page templates from dir, or from the embedded
// copy when dir is empty.
func loadTemplates(dir string, funcMap template.FuncMap) (*template.Template, error) {
	tmpl := template.New("").Funcs(funcMap)
	if dir != "" {
		return tmpl.ParseGlob(dir + "/*.html")
	}
	return tmpl.ParseFS(web.Templates, "templates/*.html")
}
