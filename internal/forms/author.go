package forms

import (
	"net/url"

	"github.com/mrlokans/library/internal/entities"
)

// AuthorForm holds the sanitized fields of the author form.
type AuthorForm struct {
	FirstName   string `form:"first_name" validate:"required,max=100,alphanum"`
	FamilyName  string `form:"family_name" validate:"required,max=100,alphanum"`
	DateOfBirth string `form:"date_of_birth" validate:"isodate"`
	DateOfDeath string `form:"date_of_death" validate:"isodate"`
}

var authorMessages = messages{
	"first_name.required":  "First name must be specified.",
	"first_name.max":       "First name must not exceed 100 characters.",
	"first_name.alphanum":  "First name has non-alphanumeric characters.",
	"family_name.required": "Family name must be specified.",
	"family_name.max":      "Family name must not exceed 100 characters.",
	"family_name.alphanum": "Family name has non-alphanumeric characters.",
	"date_of_birth":        "Invalid date of birth",
	"date_of_death":        "Invalid date of death",
}

// ParseAuthor runs the author pipeline over submitted values.
func ParseAuthor(values url.Values) (AuthorForm, Errors) {
	form := AuthorForm{
		FirstName:   field(values, "first_name"),
		FamilyName:  field(values, "family_name"),
		DateOfBirth: field(values, "date_of_birth"),
		DateOfDeath: field(values, "date_of_death"),
	}

	errs := check(form, authorMessages)

	form.FirstName = Escape(form.FirstName)
	form.FamilyName = Escape(form.FamilyName)
	return form, errs
}

// AuthorFormFrom pre-populates the form from a stored author.
func AuthorFormFrom(a entities.Author) AuthorForm {
	return AuthorForm{
		FirstName:   a.FirstName,
		FamilyName:  a.FamilyName,
		DateOfBirth: a.DateOfBirthInput(),
		DateOfDeath: a.DateOfDeathInput(),
	}
}

// Author builds the record. Call it only on a form without errors.
func (f AuthorForm) Author() entities.Author {
	return entities.Author{
		FirstName:   f.FirstName,
		FamilyName:  f.FamilyName,
		DateOfBirth: optionalDate(f.DateOfBirth),
		DateOfDeath: optionalDate(f.DateOfDeath),
	}
}
