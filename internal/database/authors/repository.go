// Package authors provides database operations for catalog authors.
package authors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every author ordered by family name.
func (r *Repository) List(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.WithContext(ctx).
		Order("family_name ASC").
		Order("first_name ASC").
		Find(&authors).Error
	return authors, err
}

// Get returns the author with the given id or database.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.WithContext(ctx).First(&author, "id = ?", id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &author, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return database.Exists(r.db.WithContext(ctx), entities.Author{}.TableName(), id)
}

func (r *Repository) Create(ctx context.Context, author *entities.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

// Update replaces the mutable fields of an existing author. Absent dates are
// stored as NULL.
func (r *Repository) Update(ctx context.Context, author *entities.Author) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Author{ID: author.ID}).
		Select("first_name", "family_name", "date_of_birth", "date_of_death", "updated_at").
		Updates(author)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes an author that no book refers to. It returns
// database.ErrHasDependents when books remain.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.GuardedDelete(r.db.WithContext(ctx), entities.Author{}.TableName(), id,
		database.Reference{Table: entities.Book{}.TableName(), Column: "author_id"},
	)
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Author{}).Count(&count).Error
	return count, err
}
