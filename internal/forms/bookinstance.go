package forms

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/mrlokans/library/internal/entities"
)

// BookInstanceForm holds the sanitized fields of the copy form.
type BookInstanceForm struct {
	Book    string `form:"book" validate:"required,uuid4"`
	Imprint string `form:"imprint" validate:"required,max=512"`
	Status  string `form:"status" validate:"oneof=Available Maintenance Loaned Reserved"`
	DueBack string `form:"due_back" validate:"isodate"`
}

var bookInstanceMessages = messages{
	"book.required":    "Book must be specified.",
	"book.uuid4":       UnknownBook.Message,
	"imprint.required": "Imprint must be specified.",
	"imprint.max":      "Imprint must not exceed 512 characters.",
	"status":           "Invalid status.",
	"due_back":         "Invalid date.",
}

// ParseBookInstance runs the copy pipeline. A blank status means
// Maintenance.
func ParseBookInstance(values url.Values) (BookInstanceForm, Errors) {
	form := BookInstanceForm{
		Book:    idField(values, "book"),
		Imprint: field(values, "imprint"),
		Status:  field(values, "status"),
		DueBack: field(values, "due_back"),
	}
	if form.Status == "" {
		form.Status = string(entities.StatusMaintenance)
	}

	errs := check(form, bookInstanceMessages)

	form.Imprint = Escape(form.Imprint)
	return form, errs
}

func BookInstanceFormFrom(bi entities.BookInstance) BookInstanceForm {
	return BookInstanceForm{
		Book:    bi.BookID.String(),
		Imprint: bi.Imprint,
		Status:  string(bi.Status),
		DueBack: bi.DueBackInput(),
	}
}

func (f BookInstanceForm) BookID() uuid.UUID {
	return parseID(f.Book)
}

func (f BookInstanceForm) BookInstance() entities.BookInstance {
	return entities.BookInstance{
		BookID:  f.BookID(),
		Imprint: f.Imprint,
		Status:  entities.BookInstanceStatus(f.Status),
		DueBack: optionalDate(f.DueBack),
	}
}
