package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

const genresPath = "/catalog/genres"

type GenresController struct {
	pages
	genres GenreStore
	books  BookStore
}

func NewGenresController(p pages, genres GenreStore, books BookStore) *GenresController {
	return &GenresController{pages: p, genres: genres, books: books}
}

// GET /catalog/genres
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.genres.List(c.Request.Context())
	if err != nil {
		gc.respondInternalError(c, err, "list genres")
		return
	}

	gc.render(c, http.StatusOK, "genre_list", gin.H{
		"Title":  "Genre List",
		"Genres": genres,
	})
}

// GET /catalog/genre/:id
func (gc *GenresController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		gc.respondNotFound(c, "Genre")
		return
	}

	genre, books, err := gc.withBooks(c, id)
	if err != nil {
		gc.respondLookupError(c, err, "Genre")
		return
	}

	gc.render(c, http.StatusOK, "genre_detail", gin.H{
		"Title": "Genre Detail",
		"Genre": genre,
		"Books": books,
	})
}

// GET /catalog/genre/create
func (gc *GenresController) CreateForm(c *gin.Context) {
	gc.renderForm(c, "Create Genre", forms.GenreForm{}, nil)
}

// CreateSubmit stores a new genre, or sends the user to the genre that
// already has this name.
// POST /catalog/genre/create
func (gc *GenresController) CreateSubmit(c *gin.Context) {
	values, err := postForm(c)
	if err != nil {
		gc.respondBadRequest(c, "Malformed form submission")
		return
	}

	form, errs := forms.ParseGenreCreate(values)
	if len(errs) > 0 {
		gc.renderForm(c, "Create Genre", form, errs)
		return
	}

	genre := form.Genre()
	stored, created, err := gc.genres.CreateOrGet(c.Request.Context(), &genre)
	if err != nil {
		gc.respondInternalError(c, err, "create genre")
		return
	}

	if created {
		gc.audit.LogCreate(c.Request.Context(), "genre", stored.ID, stored.Name)
	}
	gc.redirect(c, stored.URL())
}

// GET /catalog/genre/:id/update
func (gc *GenresController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		gc.respondNotFound(c, "Genre")
		return
	}

	genre, err := gc.genres.Get(c.Request.Context(), id)
	if err != nil {
		gc.respondLookupError(c, err, "Genre")
		return
	}

	gc.renderForm(c, "Update Genre", forms.GenreFormFrom(*genre), nil)
}

// POST /catalog/genre/:id/update
func (gc *GenresController) UpdateSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		gc.respondNotFound(c, "Genre")
		return
	}

	values, err := postForm(c)
	if err != nil {
		gc.respondBadRequest(c, "Malformed form submission")
		return
	}

	form, errs := forms.ParseGenreUpdate(values)
	if len(errs) > 0 {
		gc.renderForm(c, "Update Genre", form, errs)
		return
	}

	genre := form.Genre()
	genre.ID = id
	err = gc.genres.Update(c.Request.Context(), &genre)
	if errors.Is(err, database.ErrDuplicate) {
		gc.renderForm(c, "Update Genre", form, forms.Errors{forms.DuplicateGenre})
		return
	}
	if err != nil {
		gc.respondLookupError(c, err, "Genre")
		return
	}

	gc.audit.LogUpdate(c.Request.Context(), "genre", genre.ID, genre.Name)
	gc.redirect(c, genre.URL())
}

// GET /catalog/genre/:id/delete
func (gc *GenresController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		gc.redirect(c, genresPath)
		return
	}

	genre, books, err := gc.withBooks(c, id)
	if errors.Is(err, database.ErrNotFound) {
		gc.redirect(c, genresPath)
		return
	}
	if err != nil {
		gc.respondInternalError(c, err, "fetch genre for delete")
		return
	}

	gc.renderDelete(c, genre, books)
}

// DeleteSubmit removes a genre that no book uses.
// POST /catalog/genre/:id/delete
func (gc *GenresController) DeleteSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		gc.redirect(c, genresPath)
		return
	}
	ctx := c.Request.Context()

	genre, books, err := gc.withBooks(c, id)
	if errors.Is(err, database.ErrNotFound) {
		gc.redirect(c, genresPath)
		return
	}
	if err != nil {
		gc.respondInternalError(c, err, "fetch genre for delete")
		return
	}
	if len(books) > 0 {
		gc.renderDelete(c, genre, books)
		return
	}

	err = gc.genres.Delete(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		gc.redirect(c, genresPath)
		return
	case errors.Is(err, database.ErrHasDependents):
		books, err = gc.books.ListByGenre(ctx, id)
		if err != nil {
			gc.respondInternalError(c, err, "list genre books")
			return
		}
		gc.renderDelete(c, genre, books)
		return
	case err != nil:
		gc.respondInternalError(c, err, "delete genre")
		return
	}

	gc.audit.LogDelete(ctx, "genre", id, genre.Name)
	gc.redirectWithFlash(c, genresPath, "Genre deleted")
}

func (gc *GenresController) withBooks(c *gin.Context, id uuid.UUID) (*entities.Genre, []entities.Book, error) {
	var (
		genre *entities.Genre
		books []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		genre, err = gc.genres.Get(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = gc.books.ListByGenre(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return genre, books, nil
}

func (gc *GenresController) renderForm(c *gin.Context, title string, form forms.GenreForm, errs forms.Errors) {
	gc.render(c, http.StatusOK, "genre_form", gin.H{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
	})
}

func (gc *GenresController) renderDelete(c *gin.Context, genre *entities.Genre, books []entities.Book) {
	gc.render(c, http.StatusOK, "genre_delete", gin.H{
		"Title": "Delete Genre",
		"Genre": genre,
		"Books": books,
	})
}
