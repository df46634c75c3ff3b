package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthors_CreateThenDetail(t *testing.T) {
	app := newTestApp(t)

	id := app.createAuthor(t, "Patrick", "Rothfuss")

	stored, err := app.authors.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Patrick", stored.FirstName)
	assert.Equal(t, "Rothfuss", stored.FamilyName)
	assert.Nil(t, stored.DateOfBirth)
	assert.Nil(t, stored.DateOfDeath)

	w := app.get("/catalog/author/" + id.String())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rothfuss, Patrick")
	assert.Contains(t, w.Body.String(), "This author has no books.")
}

func TestAuthors_CreateRejectsNonAlphanumericName(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/catalog/author/create", url.Values{"first_name": {"John@"}, "family_name": {"Smith"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "First name has non-alphanumeric characters.")
	assert.NotContains(t, w.Body.String(), "Family name has non-alphanumeric characters.")
	// The sanitized input is shown again.
	assert.Contains(t, w.Body.String(), `value="John@"`)

	count, err := app.authors.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAuthors_CreateRejectsBadDates(t *testing.T) {
	app := newTestApp(t)

	w := app.post("/catalog/author/create", url.Values{
		"first_name":    {"Jane"},
		"family_name":   {"Austen"},
		"date_of_birth": {"1775-13-40"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid date of birth")
}

func TestAuthors_DetailNotFound(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		path string
	}{
		{"unknown id", "/catalog/author/" + uuid.NewString()},
		{"malformed id", "/catalog/author/not-an-id"},
		{"unknown id on update", "/catalog/author/" + uuid.NewString() + "/update"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.get(tt.path)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "Author not found")
		})
	}
}

func TestAuthors_Update(t *testing.T) {
	app := newTestApp(t)
	id := app.createAuthor(t, "Isaac", "Asimov")

	form := app.get("/catalog/author/" + id.String() + "/update")
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `value="Isaac"`)

	w := app.post("/catalog/author/"+id.String()+"/update", url.Values{
		"first_name":    {"Isaac"},
		"family_name":   {"Asimov"},
		"date_of_birth": {"1920-01-02"},
		"date_of_death": {"1992-04-06"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog/author/"+id.String(), w.Header().Get("Location"))

	stored, err := app.authors.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "1920 - 1992", stored.Lifespan())

	missing := app.post("/catalog/author/"+uuid.NewString()+"/update", url.Values{"first_name": {"A"}, "family_name": {"B"}})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestAuthors_Delete(t *testing.T) {
	app := newTestApp(t)
	writer := app.createAuthor(t, "Ursula", "LeGuin")
	idle := app.createAuthor(t, "Nobody", "Atall")
	app.createBook(t, "Earthsea", writer)

	t.Run("author with books is kept", func(t *testing.T) {
		w := app.post("/catalog/author/"+writer.String()+"/delete", url.Values{"authorid": {writer.String()}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following books")
		assert.Contains(t, w.Body.String(), "Earthsea")

		_, err := app.authors.Get(context.Background(), writer)
		assert.NoError(t, err)
	})

	t.Run("author without books is removed", func(t *testing.T) {
		confirm := app.get("/catalog/author/" + idle.String() + "/delete")
		require.Equal(t, http.StatusOK, confirm.Code)
		assert.Contains(t, confirm.Body.String(), "Do you really want to delete this Author?")

		w := app.post("/catalog/author/"+idle.String()+"/delete", url.Values{"authorid": {idle.String()}})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, authorsPath, w.Header().Get("Location"))

		// The flash survives exactly one page view.
		list := app.get(authorsPath, w.Result().Cookies()...)
		assert.Contains(t, list.Body.String(), "Author deleted")
		assert.NotContains(t, list.Body.String(), "Nobody")
	})

	t.Run("unknown author redirects to the list", func(t *testing.T) {
		w := app.get("/catalog/author/" + uuid.NewString() + "/delete")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, authorsPath, w.Header().Get("Location"))

		w = app.post("/catalog/author/"+uuid.NewString()+"/delete", nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
	})
}

func TestAuthors_ListSortedByFamilyName(t *testing.T) {
	app := newTestApp(t)

	empty := app.get(authorsPath)
	require.Equal(t, http.StatusOK, empty.Code)
	assert.Contains(t, empty.Body.String(), "There are no authors.")

	app.createAuthor(t, "Terry", "Pratchett")
	app.createAuthor(t, "Iain", "Banks")

	body := app.get(authorsPath).Body.String()
	assert.Less(t, strings.Index(body, "Banks, Iain"), strings.Index(body, "Pratchett, Terry"))
}
