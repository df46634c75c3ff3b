package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
	"github.com/mrlokans/library/internal/forms"
)

const bookInstancesPath = "/catalog/bookinstances"

type BookInstancesController struct {
	pages
	instances BookInstanceStore
	books     BookStore
}

func NewBookInstancesController(p pages, instances BookInstanceStore, books BookStore) *BookInstancesController {
	return &BookInstancesController{pages: p, instances: instances, books: books}
}

// GET /catalog/bookinstances
func (ic *BookInstancesController) List(c *gin.Context) {
	instances, err := ic.instances.List(c.Request.Context())
	if err != nil {
		ic.respondInternalError(c, err, "list book instances")
		return
	}

	ic.render(c, http.StatusOK, "bookinstance_list", gin.H{
		"Title":     "Book Instance List",
		"Instances": instances,
	})
}

// GET /catalog/bookinstance/:id
func (ic *BookInstancesController) Detail(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ic.respondNotFound(c, "Book copy")
		return
	}

	instance, err := ic.instances.Get(c.Request.Context(), id)
	if err != nil {
		ic.respondLookupError(c, err, "Book copy")
		return
	}

	ic.render(c, http.StatusOK, "bookinstance_detail", gin.H{
		"Title":    "Book: " + instance.Book.Title,
		"Instance": instance,
	})
}

// GET /catalog/bookinstance/create
func (ic *BookInstancesController) CreateForm(c *gin.Context) {
	form := forms.BookInstanceForm{Status: string(entities.StatusMaintenance)}
	ic.renderForm(c, "Create BookInstance", form, nil)
}

// POST /catalog/bookinstance/create
func (ic *BookInstancesController) CreateSubmit(c *gin.Context) {
	form, errs, ok := ic.parse(c)
	if !ok {
		return
	}
	if len(errs) > 0 {
		ic.renderForm(c, "Create BookInstance", form, errs)
		return
	}

	instance := form.BookInstance()
	if err := ic.instances.Create(c.Request.Context(), &instance); err != nil {
		ic.respondInternalError(c, err, "create book instance")
		return
	}

	ic.audit.LogCreate(c.Request.Context(), "bookinstance", instance.ID, instance.Imprint)
	ic.redirect(c, instance.URL())
}

// GET /catalog/bookinstance/:id/update
func (ic *BookInstancesController) UpdateForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ic.respondNotFound(c, "Book copy")
		return
	}

	var (
		instance *entities.BookInstance
		books    []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		instance, err = ic.instances.Get(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = ic.books.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		ic.respondLookupError(c, err, "Book copy")
		return
	}

	form := forms.BookInstanceFormFrom(*instance)
	ic.render(c, http.StatusOK, "bookinstance_form", gin.H{
		"Title":    "Update BookInstance",
		"Form":     form,
		"Books":    forms.MarkBooks(books, form.Book),
		"Statuses": forms.MarkStatuses(form.Status),
	})
}

// POST /catalog/bookinstance/:id/update
func (ic *BookInstancesController) UpdateSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ic.respondNotFound(c, "Book copy")
		return
	}

	form, errs, ok := ic.parse(c)
	if !ok {
		return
	}
	if len(errs) > 0 {
		ic.renderForm(c, "Update BookInstance", form, errs)
		return
	}

	instance := form.BookInstance()
	instance.ID = id
	if err := ic.instances.Update(c.Request.Context(), &instance); err != nil {
		ic.respondLookupError(c, err, "Book copy")
		return
	}

	ic.audit.LogUpdate(c.Request.Context(), "bookinstance", instance.ID, instance.Imprint)
	ic.redirect(c, instance.URL())
}

// GET /catalog/bookinstance/:id/delete
func (ic *BookInstancesController) DeleteForm(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ic.redirect(c, bookInstancesPath)
		return
	}

	instance, err := ic.instances.Get(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		ic.redirect(c, bookInstancesPath)
		return
	}
	if err != nil {
		ic.respondInternalError(c, err, "fetch book instance for delete")
		return
	}

	ic.render(c, http.StatusOK, "bookinstance_delete", gin.H{
		"Title":    "Delete BookInstance",
		"Instance": instance,
	})
}

// DeleteSubmit removes a copy. Nothing depends on copies.
// POST /catalog/bookinstance/:id/delete
func (ic *BookInstancesController) DeleteSubmit(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		ic.redirect(c, bookInstancesPath)
		return
	}
	ctx := c.Request.Context()

	instance, err := ic.instances.Get(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		ic.redirect(c, bookInstancesPath)
		return
	}
	if err != nil {
		ic.respondInternalError(c, err, "fetch book instance for delete")
		return
	}

	err = ic.instances.Delete(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		ic.redirect(c, bookInstancesPath)
		return
	}
	if err != nil {
		ic.respondInternalError(c, err, "delete book instance")
		return
	}

	ic.audit.LogDelete(ctx, "bookinstance", id, instance.Imprint)
	ic.redirectWithFlash(c, bookInstancesPath, "Book instance deleted")
}

// parse runs the form pipeline and checks that the chosen book exists.
// ok is false when a response has already been written.
func (ic *BookInstancesController) parse(c *gin.Context) (forms.BookInstanceForm, forms.Errors, bool) {
	values, err := postForm(c)
	if err != nil {
		ic.respondBadRequest(c, "Malformed form submission")
		return forms.BookInstanceForm{}, nil, false
	}

	form, errs := forms.ParseBookInstance(values)
	if !errs.Has("book") {
		exists, err := ic.books.Exists(c.Request.Context(), form.BookID())
		if err != nil {
			ic.respondInternalError(c, err, "resolve book reference")
			return form, nil, false
		}
		if !exists {
			errs = append(errs, forms.UnknownBook)
		}
	}
	return form, errs, true
}

// renderForm reloads the book choices and marks the selected book and
// status.
func (ic *BookInstancesController) renderForm(c *gin.Context, title string, form forms.BookInstanceForm, errs forms.Errors) {
	books, err := ic.books.List(c.Request.Context())
	if err != nil {
		ic.respondInternalError(c, err, "load book instance form choices")
		return
	}

	ic.render(c, http.StatusOK, "bookinstance_form", gin.H{
		"Title":    title,
		"Form":     form,
		"Books":    forms.MarkBooks(books, form.Book),
		"Statuses": forms.MarkStatuses(form.Status),
		"Errors":   errs,
	})
}
