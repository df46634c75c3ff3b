package forms

import (
	"net/url"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mrlokans/library/internal/entities"
)

// BookForm holds the sanitized fields of the book form. Author and Genres
// carry identifiers as submitted.
type BookForm struct {
	Title   string   `form:"title" validate:"required,max=512"`
	Author  string   `form:"author" validate:"required,uuid4"`
	Summary string   `form:"summary" validate:"required,max=5000"`
	ISBN    string   `form:"isbn" validate:"required,max=64"`
	Genres  []string `form:"genre" validate:"dive,uuid4"`
}

var bookMessages = messages{
	"title.required":   "Title must not be empty.",
	"title.max":        "Title must not exceed 512 characters.",
	"author.required":  "Author must not be empty.",
	"author.uuid4":     UnknownAuthor.Message,
	"summary.required": "Summary must not be empty.",
	"summary.max":      "Summary must not exceed 5000 characters.",
	"isbn.required":    "ISBN must not be empty",
	"isbn.max":         "ISBN must not exceed 64 characters.",
	"genre":            "Invalid genre selection.",
}

// ParseBook runs the book pipeline over submitted values.
func ParseBook(values url.Values) (BookForm, Errors) {
	form := BookForm{
		Title:   field(values, "title"),
		Author:  idField(values, "author"),
		Summary: field(values, "summary"),
		ISBN:    field(values, "isbn"),
		Genres:  lowerAll(NormalizeSet(values, "genre")),
	}

	errs := check(form, bookMessages)

	form.Title = Escape(form.Title)
	form.Summary = Escape(form.Summary)
	form.ISBN = Escape(form.ISBN)
	return form, errs
}

func BookFormFrom(b entities.Book) BookForm {
	return BookForm{
		Title:   b.Title,
		Author:  b.AuthorID.String(),
		Summary: b.Summary,
		ISBN:    b.ISBN,
		Genres:  lo.Map(b.GenreIDs(), func(id uuid.UUID, _ int) string { return id.String() }),
	}
}

// AuthorID returns the parsed author reference.
func (f BookForm) AuthorID() uuid.UUID {
	return parseID(f.Author)
}

// GenreIDs returns the parsed genre references, skipping malformed ones.
func (f BookForm) GenreIDs() []uuid.UUID {
	return parseIDs(f.Genres)
}

// Book builds the record with the resolved genres.
func (f BookForm) Book(genres []entities.Genre) entities.Book {
	return entities.Book{
		Title:    f.Title,
		AuthorID: f.AuthorID(),
		Summary:  f.Summary,
		ISBN:     f.ISBN,
		Genres:   genres,
	}
}
