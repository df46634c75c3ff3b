package database

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reference names a column in another table that points at a primary key.
type Reference struct {
	Table  string
	Column string
}

// DeleteUnreferenced removes the row with the given id from table unless a
// row in any of refs still points at it. The check and the delete run as one
// statement, so a dependent inserted concurrently cannot slip past the guard.
// It reports whether a row was removed.
func DeleteUnreferenced(tx *gorm.DB, table string, id uuid.UUID, refs ...Reference) (bool, error) {
	stmt := sq.Delete(table).Where(sq.Eq{"id": id})
	for _, ref := range refs {
		sub, args, err := sq.Select("1").From(ref.Table).Where(sq.Eq{ref.Column: id}).ToSql()
		if err != nil {
			return false, fmt.Errorf("build %s reference check: %w", ref.Table, err)
		}
		stmt = stmt.Where(sq.Expr("NOT EXISTS ("+sub+")", args...))
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete for %s: %w", table, err)
	}

	result := tx.Exec(query, args...)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether table holds a row with the given id.
func Exists(tx *gorm.DB, table string, id uuid.UUID) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}

	var count int64
	if err := tx.Raw(query, args...).Scan(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GuardedDelete runs DeleteUnreferenced and turns a refused delete into
// ErrNotFound or ErrHasDependents.
func GuardedDelete(tx *gorm.DB, table string, id uuid.UUID, refs ...Reference) error {
	deleted, err := DeleteUnreferenced(tx, table, id, refs...)
	if err != nil {
		return err
	}
	if deleted {
		return nil
	}

	exists, err := Exists(tx, table, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrHasDependents
}
