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

const authorsPath = "/catalog/authors"

type AuthorsController struct {
	pages
	authors AuthorStore
	books   BookStore
}

func NewAuthorsController(p pages, authors AuthorStore, books BookStore) *AuthorsController {
	return &AuthorsController{pages: p, authors: authors, books: books}
}

// List renders every author ordered by family name.
// GET /catalog/authors
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.authors.List(c.Request.Context())
	if err != nil {
		ac.respondInternalError(c, err, "list authors")
		return
	}

	ac.render(c, http.StatusOK, "author_list", gin.H{
		"Title":   "Author List",
		"Authors": authors,
	})
}

// Detail renders an author with the books they wrote.
// GET /catalog/author/:id
func (ac *AuthorsController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ac.respondNotFound(c, "Author")
		return
	}

	author, books, err := ac.withBooks(c, id)
	if err != nil {
		ac.respondLookupError(c, err, "Author")
		return
	}

	ac.render(c, http.StatusOK, "author_detail", gin.H{
		"Title":  "Author Detail",
		"Author": author,
		"Books":  books,
	})
}

// GET /catalog/author/create
func (ac *AuthorsController) CreateForm(c *gin.Context) {
	ac.renderForm(c, "Create Author", forms.AuthorForm{}, nil)
}

// POST /catalog/author/create
func (ac *AuthorsController) CreateSubmit(c *gin.Context) {
	values, err := postForm(c)
	if err != nil {
		ac.respondBadRequest(c, "Malformed form submission")
		return
	}

	form, errs := forms.ParseAuthor(values)
	if len(errs) > 0 {
		ac.renderForm(c, "Create Author", form, errs)
		return
	}

	author := form.Author()
	if err := ac.authors.Create(c.Request.Context(), &author); err != nil {
		ac.respondInternalError(c, err, "create author")
		return
	}

	ac.audit.LogCreate(c.Request.Context(), "author", author.ID, author.FullName())
	ac.redirect(c, author.URL())
}

// GET /catalog/author/:id/update
func (ac *AuthorsController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ac.respondNotFound(c, "Author")
		return
	}

	author, err := ac.authors.Get(c.Request.Context(), id)
	if err != nil {
		ac.respondLookupError(c, err, "Author")
		return
	}

	ac.renderForm(c, "Update Author", forms.AuthorFormFrom(*author), nil)
}

// POST /catalog/author/:id/update
func (ac *AuthorsController) UpdateSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ac.respondNotFound(c, "Author")
		return
	}

	values, err := postForm(c)
	if err != nil {
		ac.respondBadRequest(c, "Malformed form submission")
		return
	}

	form, errs := forms.ParseAuthor(values)
	if len(errs) > 0 {
		ac.renderForm(c, "Update Author", form, errs)
		return
	}

	author := form.Author()
	author.ID = id
	if err := ac.authors.Update(c.Request.Context(), &author); err != nil {
		ac.respondLookupError(c, err, "Author")
		return
	}

	ac.audit.LogUpdate(c.Request.Context(), "author", author.ID, author.FullName())
	ac.redirect(c, author.URL())
}

// DeleteForm asks for confirmation, listing the books that would block it.
// GET /catalog/author/:id/delete
func (ac *AuthorsController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ac.redirect(c, authorsPath)
		return
	}

	author, books, err := ac.withBooks(c, id)
	if errors.Is(err, database.ErrNotFound) {
		ac.redirect(c, authorsPath)
		return
	}
	if err != nil {
		ac.respondInternalError(c, err, "fetch author for delete")
		return
	}

	ac.renderDelete(c, author, books)
}

// DeleteSubmit removes an author that has no books.
// POST /catalog/author/:id/delete
func (ac *AuthorsController) DeleteSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ac.redirect(c, authorsPath)
		return
	}
	ctx := c.Request.Context()

	author, books, err := ac.withBooks(c, id)
	if errors.Is(err, database.ErrNotFound) {
		ac.redirect(c, authorsPath)
		return
	}
	if err != nil {
		ac.respondInternalError(c, err, "fetch author for delete")
		return
	}
	if len(books) > 0 {
		ac.renderDelete(c, author, books)
		return
	}

	err = ac.authors.Delete(ctx, id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		ac.redirect(c, authorsPath)
		return
	case errors.Is(err, database.ErrHasDependents):
		// A book was added since the lookup above.
		books, err = ac.books.ListByAuthor(ctx, id)
		if err != nil {
			ac.respondInternalError(c, err, "list author books")
			return
		}
		ac.renderDelete(c, author, books)
		return
	case err != nil:
		ac.respondInternalError(c, err, "delete author")
		return
	}

	ac.audit.LogDelete(ctx, "author", id, author.FullName())
	ac.redirectWithFlash(c, authorsPath, "Author deleted")
}

// withBooks fetches the author and their books concurrently.
func (ac *AuthorsController) withBooks(c *gin.Context, id uuid.UUID) (*entities.Author, []entities.Book, error) {
	var (
		author *entities.Author
		books  []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		author, err = ac.authors.Get(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		books, err = ac.books.ListByAuthor(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return author, books, nil
}

func (ac *AuthorsController) renderForm(c *gin.Context, title string, form forms.AuthorForm, errs forms.Errors) {
	ac.render(c, http.StatusOK, "author_form", gin.H{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
	})
}

func (ac *AuthorsController) renderDelete(c *gin.Context, author *entities.Author, books []entities.Book) {
	ac.render(c, http.StatusOK, "author_delete", gin.H{
		"Title":  "Delete Author",
		"Author": author,
		"Books":  books,
	})
}
