package database

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an identifier does not resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrHasDependents is returned when a delete is refused because other
	// records still reference the target.
	ErrHasDependents = errors.New("record has dependents")

	// ErrDuplicate is returned when a write collides with a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// Translate maps gorm errors onto the package sentinels.
func Translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}
