package forms

import (
	"net/url"

	"github.com/mrlokans/library/internal/entities"
)

// GenreForm holds the sanitized genre name.
type GenreForm struct {
	Name string
}

// Creation only needs a name; renaming asks for at least three characters.
type genreCreateRules struct {
	Name string `form:"name" validate:"required,max=100"`
}

type genreUpdateRules struct {
	Name string `form:"name" validate:"min=3,max=100"`
}

var genreCreateMessages = messages{
	"name.required": "Genre name required",
	"name.max":      "Genre name must not exceed 100 characters.",
}

var genreUpdateMessages = messages{
	"name.min": "Genre name must contain at least 3 characters",
	"name.max": "Genre name must not exceed 100 characters.",
}

// DuplicateGenre is reported when a rename collides with another genre.
var DuplicateGenre = FieldError{Field: "name", Message: "A genre with this name already exists."}

// ParseGenreCreate runs the pipeline of the create form.
func ParseGenreCreate(values url.Values) (GenreForm, Errors) {
	name := field(values, "name")
	errs := check(genreCreateRules{Name: name}, genreCreateMessages)
	return GenreForm{Name: Escape(name)}, errs
}

// ParseGenreUpdate runs the pipeline of the update form.
func ParseGenreUpdate(values url.Values) (GenreForm, Errors) {
	name := field(values, "name")
	errs := check(genreUpdateRules{Name: name}, genreUpdateMessages)
	return GenreForm{Name: Escape(name)}, errs
}

func GenreFormFrom(g entities.Genre) GenreForm {
	return GenreForm{Name: g.Name}
}

func (f GenreForm) Genre() entities.Genre {
	return entities.Genre{Name: f.Name}
}
