package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/bookinstances"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/dbtest"
	"github.com/mrlokans/library/internal/database/genres"
	"github.com/mrlokans/library/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

// testApp is a router over a throwaway sqlite catalog.
type testApp struct {
	db        *database.Database
	router    *gin.Engine
	authors   *authors.Repository
	genres    *genres.Repository
	books     *books.Repository
	instances *bookinstances.Repository
	audit     *audit.Service
}

func newTestApp(t *testing.T, opts ...func(*RouterConfig)) *testApp {
	t.Helper()

	db := dbtest.New(t)
	app := &testApp{
		db:        db,
		authors:   authors.NewRepository(db.DB),
		genres:    genres.NewRepository(db.DB),
		books:     books.NewRepository(db.DB),
		instances: bookinstances.NewRepository(db.DB),
		audit:     audit.NewService(auditrepo.NewRepository(db.DB), zap.NewNop()),
	}

	sessions := session.NewMemoryManager(session.Options{Lifetime: time.Hour})
	t.Cleanup(sessions.Close)

	cfg := RouterConfig{
		Database: db,
		Catalog: Catalog{
			Authors:   app.authors,
			Genres:    app.genres,
			Books:     app.books,
			Instances: app.instances,
		},
		Audit:          app.audit,
		Logger:         zap.NewNop(),
		Sessions:       sessions,
		RequestTimeout: 5 * time.Second,
		Version:        "test",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	app.router = NewRouter(cfg)
	return app
}

func (a *testApp) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// created asserts a 303 to a detail page under prefix and returns the id.
func created(t *testing.T, w *httptest.ResponseRecorder, prefix string) uuid.UUID {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, prefix), "unexpected location %q", location)
	id, err := uuid.Parse(strings.TrimPrefix(location, prefix))
	require.NoError(t, err)
	return id
}

func (a *testApp) createAuthor(t *testing.T, first, family string) uuid.UUID {
	t.Helper()
	w := a.post("/catalog/author/create", url.Values{"first_name": {first}, "family_name": {family}})
	return created(t, w, "/catalog/author/")
}

func (a *testApp) createGenre(t *testing.T, name string) uuid.UUID {
	t.Helper()
	w := a.post("/catalog/genre/create", url.Values{"name": {name}})
	return created(t, w, "/catalog/genre/")
}

func (a *testApp) createBook(t *testing.T, title string, author uuid.UUID, genres ...uuid.UUID) uuid.UUID {
	t.Helper()
	form := url.Values{
		"title":   {title},
		"author":  {author.String()},
		"summary": {"A summary of " + title},
		"isbn":    {"9780000000000"},
	}
	for _, g := range genres {
		form.Add("genre", g.String())
	}
	w := a.post("/catalog/book/create", form)
	return created(t, w, "/catalog/book/")
}
