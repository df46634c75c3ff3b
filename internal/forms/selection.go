package forms

import (
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mrlokans/library/internal/entities"
)

// Reference resolution failures, reported against the referring field.
var (
	UnknownAuthor = FieldError{Field: "author", Message: "Selected author does not exist."}
	UnknownGenre  = FieldError{Field: "genre", Message: "Selected genre does not exist."}
	UnknownBook   = FieldError{Field: "book", Message: "Selected book does not exist."}
)

type AuthorOption struct {
	entities.Author
	Selected bool
}

type GenreOption struct {
	entities.Genre
	Checked bool
}

type BookOption struct {
	entities.Book
	Selected bool
}

type StatusOption struct {
	Value    entities.BookInstanceStatus
	Selected bool
}

// MarkAuthors flags the author whose id matches selectedID.
func MarkAuthors(all []entities.Author, selectedID string) []AuthorOption {
	selected := parseID(selectedID)
	return lo.Map(all, func(a entities.Author, _ int) AuthorOption {
		return AuthorOption{Author: a, Selected: selected != uuid.Nil && a.ID == selected}
	})
}

// MarkGenres flags every genre whose id is among selected.
func MarkGenres(all []entities.Genre, selected []string) []GenreOption {
	ids := parseIDs(selected)
	return lo.Map(all, func(g entities.Genre, _ int) GenreOption {
		return GenreOption{Genre: g, Checked: lo.Contains(ids, g.ID)}
	})
}

// MarkBooks flags the book whose id matches selectedID.
func MarkBooks(all []entities.Book, selectedID string) []BookOption {
	selected := parseID(selectedID)
	return lo.Map(all, func(b entities.Book, _ int) BookOption {
		return BookOption{Book: b, Selected: selected != uuid.Nil && b.ID == selected}
	})
}

// MarkStatuses lists every status, flagging the current one.
func MarkStatuses(current string) []StatusOption {
	return lo.Map(entities.BookInstanceStatuses, func(s entities.BookInstanceStatus, _ int) StatusOption {
		return StatusOption{Value: s, Selected: string(s) == current}
	})
}

// parseID returns uuid.Nil for anything that is not an identifier.
func parseID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func parseIDs(values []string) []uuid.UUID {
	return lo.FilterMap(values, func(s string, _ int) (uuid.UUID, bool) {
		id := parseID(s)
		return id, id != uuid.Nil
	})
}
