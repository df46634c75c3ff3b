package forms

import (
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/entities"
)

func TestParseBook(t *testing.T) {
	authorID := uuid.New()
	genreA, genreB := uuid.New(), uuid.New()

	t.Run("valid with uppercase ids and repeated genre", func(t *testing.T) {
		form, errs := ParseBook(url.Values{
			"title":   {"The Name of the Wind"},
			"author":  {strings.ToUpper(authorID.String())},
			"summary": {"A & B"},
			"isbn":    {"9781473211896"},
			"genre":   {genreA.String(), genreB.String(), strings.ToUpper(genreA.String())},
		})
		require.Empty(t, errs)
		assert.Equal(t, authorID, form.AuthorID())
		assert.Equal(t, []uuid.UUID{genreA, genreB}, form.GenreIDs())
		assert.Equal(t, "A &amp; B", form.Summary)
	})

	t.Run("no genres is an empty set", func(t *testing.T) {
		form, errs := ParseBook(url.Values{"title": {"T"}, "author": {authorID.String()}, "summary": {"S"}, "isbn": {"I"}})
		require.Empty(t, errs)
		assert.NotNil(t, form.Genres)
		assert.Empty(t, form.Genres)
	})

	t.Run("errors in field order", func(t *testing.T) {
		_, errs := ParseBook(url.Values{"genre": {"fiction", "drama"}})
		want := Errors{
			{Field: "title", Message: "Title must not be empty."},
			{Field: "author", Message: "Author must not be empty."},
			{Field: "summary", Message: "Summary must not be empty."},
			{Field: "isbn", Message: "ISBN must not be empty"},
			{Field: "genre", Message: "Invalid genre selection."},
		}
		if diff := cmp.Diff(want, errs); diff != "" {
			t.Errorf("errors mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("malformed author reference", func(t *testing.T) {
		_, errs := ParseBook(url.Values{"title": {"T"}, "author": {"42"}, "summary": {"S"}, "isbn": {"I"}})
		assert.Equal(t, Errors{UnknownAuthor}, errs)
	})
}

func TestBookForm_RoundTripFromEntity(t *testing.T) {
	g := entities.Genre{ID: uuid.New(), Name: "Fantasy"}
	book := entities.Book{Title: "T", AuthorID: uuid.New(), Summary: "S", ISBN: "I", Genres: []entities.Genre{g}}

	form := BookFormFrom(book)
	assert.Equal(t, []string{g.ID.String()}, form.Genres)

	built := form.Book([]entities.Genre{g})
	assert.Equal(t, book.AuthorID, built.AuthorID)
	assert.Equal(t, book.Genres, built.Genres)
}
