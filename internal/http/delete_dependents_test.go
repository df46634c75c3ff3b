package http

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/genres"
	"github.com/mrlokans/library/internal/entities"
)

// The stores below add a dependent record right before the delete runs,
// after the controller has already seen an empty dependents list.

type authorsGainingBook struct {
	*authors.Repository
	beforeDelete func(ctx context.Context, id uuid.UUID)
}

func (s authorsGainingBook) Delete(ctx context.Context, id uuid.UUID) error {
	s.beforeDelete(ctx, id)
	return s.Repository.Delete(ctx, id)
}

type genresGainingBook struct {
	*genres.Repository
	beforeDelete func(ctx context.Context, id uuid.UUID)
}

func (s genresGainingBook) Delete(ctx context.Context, id uuid.UUID) error {
	s.beforeDelete(ctx, id)
	return s.Repository.Delete(ctx, id)
}

type booksGainingCopy struct {
	*books.Repository
	beforeDelete func(ctx context.Context, id uuid.UUID)
}

func (s booksGainingCopy) Delete(ctx context.Context, id uuid.UUID) error {
	s.beforeDelete(ctx, id)
	return s.Repository.Delete(ctx, id)
}

func TestDelete_DependentAddedDuringRequest(t *testing.T) {
	t.Run("author", func(t *testing.T) {
		var app *testApp
		app = newTestApp(t, func(cfg *RouterConfig) {
			cfg.Catalog.Authors = authorsGainingBook{
				Repository: cfg.Catalog.Authors.(*authors.Repository),
				beforeDelete: func(ctx context.Context, id uuid.UUID) {
					book := &entities.Book{Title: "Late Arrival", AuthorID: id, Summary: "s", ISBN: "i"}
					require.NoError(t, app.books.Create(ctx, book))
				},
			}
		})
		author := app.createAuthor(t, "Iain", "Banks")

		w := app.post("/catalog/author/"+author.String()+"/delete", url.Values{"authorid": {author.String()}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following books before attempting to delete this author.")
		assert.Contains(t, w.Body.String(), "Late Arrival")

		_, err := app.authors.Get(context.Background(), author)
		assert.NoError(t, err)
	})

	t.Run("genre", func(t *testing.T) {
		var app *testApp
		app = newTestApp(t, func(cfg *RouterConfig) {
			cfg.Catalog.Genres = genresGainingBook{
				Repository: cfg.Catalog.Genres.(*genres.Repository),
				beforeDelete: func(ctx context.Context, id uuid.UUID) {
					author := &entities.Author{FirstName: "Iain", FamilyName: "Banks"}
					require.NoError(t, app.authors.Create(ctx, author))
					book := &entities.Book{
						Title:    "Excession",
						AuthorID: author.ID,
						Summary:  "s",
						ISBN:     "i",
						Genres:   []entities.Genre{{ID: id}},
					}
					require.NoError(t, app.books.Create(ctx, book))
				},
			}
		})
		genre := app.createGenre(t, "Space Opera")

		w := app.post("/catalog/genre/"+genre.String()+"/delete", url.Values{"genreid": {genre.String()}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following books before attempting to delete this genre.")
		assert.Contains(t, w.Body.String(), "Excession")

		_, err := app.genres.Get(context.Background(), genre)
		assert.NoError(t, err)
	})

	t.Run("book", func(t *testing.T) {
		var app *testApp
		app = newTestApp(t, func(cfg *RouterConfig) {
			cfg.Catalog.Books = booksGainingCopy{
				Repository: cfg.Catalog.Books.(*books.Repository),
				beforeDelete: func(ctx context.Context, id uuid.UUID) {
					instance := &entities.BookInstance{BookID: id, Imprint: "Orbit 1996", Status: entities.StatusAvailable}
					require.NoError(t, app.instances.Create(ctx, instance))
				},
			}
		})
		author := app.createAuthor(t, "Iain", "Banks")
		book := app.createBook(t, "Excession", author)

		w := app.post("/catalog/book/"+book.String()+"/delete", url.Values{"bookid": {book.String()}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following copies before attempting to delete this book.")
		assert.Contains(t, w.Body.String(), "Orbit 1996")

		_, err := app.books.Get(context.Background(), book)
		assert.NoError(t, err)
	})
}
