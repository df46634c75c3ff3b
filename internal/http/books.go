package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

const booksPath = "/catalog/books"

type BooksController struct {
	pages
	books     BookStore
	authors   AuthorStore
	genres    GenreStore
	instances BookInstanceStore
}

func NewBooksController(p pages, catalog Catalog) *BooksController {
	return &BooksController{
		pages:     p,
		books:     catalog.Books,
		authors:   catalog.Authors,
		genres:    catalog.Genres,
		instances: catalog.Instances,
	}
}

// GET /catalog/books
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.books.List(c.Request.Context())
	if err != nil {
		bc.respondInternalError(c, err, "list books")
		return
	}

	bc.render(c, http.StatusOK, "book_list", gin.H{
		"Title": "Book List",
		"Books": books,
	})
}

// Detail renders a book with its author, genres and copies.
// GET /catalog/book/:id
func (bc *BooksController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		bc.respondNotFound(c, "Book")
		return
	}

	book, instances, err := bc.withInstances(c, id)
	if err != nil {
		bc.respondLookupError(c, err, "Book")
		return
	}

	bc.render(c, http.StatusOK, "book_detail", gin.H{
		"Title":     book.Title,
		"Book":      book,
		"Instances": instances,
	})
}

// GET /catalog/book/create
func (bc *BooksController) CreateForm(c *gin.Context) {
	bc.renderForm(c, "Create Book", forms.BookForm{Genres: []string{}}, nil)
}

// POST /catalog/book/create
func (bc *BooksController) CreateSubmit(c *gin.Context) {
	form, genres, errs, ok := bc.parse(c)
	if !ok {
		return
	}
	if len(errs) > 0 {
		bc.renderForm(c, "Create Book", form, errs)
		return
	}

	book := form.Book(genres)
	if err := bc.books.Create(c.Request.Context(), &book); err != nil {
		bc.respondInternalError(c, err, "create book")
		return
	}

	bc.audit.LogCreate(c.Request.Context(), "book", book.ID, book.Title)
	bc.redirect(c, book.URL())
}

// UpdateForm pre-populates the form and pre-marks the book's author and
// genres.
// GET /catalog/book/:id/update
func (bc *BooksController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		bc.respondNotFound(c, "Book")
		return
	}

	var (
		book    *entities.Book
		authors []entities.Author
		genres  []entities.Genre
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		book, err = bc.books.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		authors, err = bc.authors.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = bc.genres.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		bc.respondLookupError(c, err, "Book")
		return
	}

	form := forms.BookFormFrom(*book)
	bc.render(c, http.StatusOK, "book_form", gin.H{
		"Title":   "Update Book",
		"Form":    form,
		"Authors": forms.MarkAuthors(authors, form.Author),
		"Genres":  forms.MarkGenres(genres, form.Genres),
	})
}

// POST /catalog/book/:id/update
func (bc *BooksController) UpdateSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		bc.respondNotFound(c, "Book")
		return
	}

	form, genres, errs, ok := bc.parse(c)
	if !ok {
		return
	}
	if len(errs) > 0 {
		bc.renderForm(c, "Update Book", form, errs)
		return
	}

	book := form.Book(genres)
	book.ID = id
	if err := bc.books.Update(c.Request.Context(), &book); err != nil {
		bc.respondLookupError(c, err, "Book")
		return
	}

	bc.audit.LogUpdate(c.Request.Context(), "book", book.ID, book.Title)
	bc.redirect(c, book.URL())
}

// GET /catalog/book/:id/delete
func (bc *BooksController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		bc.redirect(c, booksPath)
		return
	}

	book, instances, err := bc.withInstances(c, id)
	if errors.Is(err, database.ErrNotFound) {
		bc.redirect(c, booksPath)
		return
	}
	if err != nil {
		bc.respondInternalError(c, err, "fetch book for delete")
		return
	}

	bc.renderDelete(c, book, instances)
}

// DeleteSubmit removes a book that has no copies, along with its genre
// links.
// POST /catalog/book/:id/delete
func (bc *BooksController) DeleteSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		bc.redirect(c, booksPath)
		return
	}
	ctx := c.Request.Context()

	book, instances, err := bc.withInstances(c, id)
	if errors.Is(err, database.ErrNotFound) {
		bc.redirect(c, booksPath)
		return
	}
	if err != nil {
		bc.respondInternalError(c, err, "fetch book for delete")
		return
	}
	if len(instances) > 0 {
		bc.renderDelete(c, book, instances)
		return
	}

	err = bc.books.Delete(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		bc.redirect(c, booksPath)
		return
	case errors.Is(err, database.ErrHasDependents):
		instances, err = bc.instances.ListByBook(ctx, id)
		if err != nil {
			bc.respondInternalError(c, err, "list book copies")
			return
		}
		bc.renderDelete(c, book, instances)
		return
	case err != nil:
		bc.respondInternalError(c, err, "delete book")
		return
	}

	bc.audit.LogDelete(ctx, "book", id, book.Title)
	bc.redirectWithFlash(c, booksPath, "Book deleted")
}

// parse runs the form pipeline and resolves the author and genre
// references. ok is false when a response has already been written.
func (bc *BooksController) parse(c *gin.Context) (forms.BookForm, []entities.Genre, forms.Errors, bool) {
	values, err := postForm(c)
	if err != nil {
		bc.respondBadRequest(c, "Malformed form submission")
		return forms.BookForm{}, nil, nil, false
	}

	form, errs := forms.ParseBook(values)
	genres, errs, err := bc.resolve(c.Request.Context(), form, errs)
	if err != nil {
		bc.respondInternalError(c, err, "resolve book references")
		return form, nil, nil, false
	}
	return form, genres, errs, true
}

// resolve checks that well-formed references name existing records.
func (bc *BooksController) resolve(ctx context.Context, form forms.BookForm, errs forms.Errors) ([]entities.Genre, forms.Errors, error) {
	if !errs.Has("author") {
		exists, err := bc.authors.Exists(ctx, form.AuthorID())
		if err != nil {
			return nil, nil, err
		}
		if !exists {
			errs = append(errs, forms.UnknownAuthor)
		}
	}

	ids := form.GenreIDs()
	if errs.Has("genre") || len(ids) == 0 {
		return nil, errs, nil
	}
	genres, err := bc.genres.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(genres) != len(ids) {
		errs = append(errs, forms.UnknownGenre)
	}
	return genres, errs, nil
}

func (bc *BooksController) withInstances(c *gin.Context, id uuid.UUID) (*entities.Book, []entities.BookInstance, error) {
	var (
		book      *entities.Book
		instances []entities.BookInstance
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		book, err = bc.books.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		instances, err = bc.instances.ListByBook(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return book, instances, nil
}

// renderForm reloads the author and genre choices and marks the ones the
// form selected.
func (bc *BooksController) renderForm(c *gin.Context, title string, form forms.BookForm, errs forms.Errors) {
	var (
		authors []entities.Author
		genres  []entities.Genre
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		authors, err = bc.authors.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = bc.genres.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		bc.respondInternalError(c, err, "load book form choices")
		return
	}

	bc.render(c, http.StatusOK, "book_form", gin.H{
		"Title":   title,
		"Form":    form,
		"Authors": forms.MarkAuthors(authors, form.Author),
		"Genres":  forms.MarkGenres(genres, form.Genres),
		"Errors":  errs,
	})
}

func (bc *BooksController) renderDelete(c *gin.Context, book *entities.Book, instances []entities.BookInstance) {
	bc.render(c, http.StatusOK, "book_delete", gin.H{
		"Title":     "Delete Book",
		"Book":      book,
		"Instances": instances,
	})
}
