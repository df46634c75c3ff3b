// Package genres provides database operations for catalog genres.
package genres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every genre ordered by name.
func (r *Repository) List(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.db.WithContext(ctx).First(&genre, "id = ?", id).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &genre, nil
}

// FindByName looks a genre up by name (case-insensitive).
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&genre).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &genre, nil
}

// GetByIDs returns the genres among ids that exist, ordered by name.
func (r *Repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entities.Genre, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var genres []entities.Genre
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&genres).Error
	return genres, err
}

// Create returns database.ErrDuplicate when the name is taken.
func (r *Repository) Create(ctx context.Context, genre *entities.Genre) error {
	return database.Translate(r.db.WithContext(ctx).Create(genre).Error)
}

// CreateOrGet stores genre unless one with the same name exists, in which
// case the existing record is returned and created is false. A concurrent
// insert of the same name loses on the unique index and returns the winner.
func (r *Repository) CreateOrGet(ctx context.Context, genre *entities.Genre) (existing *entities.Genre, created bool, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found entities.Genre
		lookup := tx.Where("LOWER(name) = LOWER(?)", genre.Name).Limit(1).Find(&found)
		if lookup.Error != nil {
			return lookup.Error
		}
		if lookup.RowsAffected > 0 {
			existing = &found
			return nil
		}
		if err := tx.Create(genre).Error; err != nil {
			return err
		}
		existing, created = genre, true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, err = r.FindByName(ctx, genre.Name)
		return existing, false, err
	}
	return existing, created, err
}

func (r *Repository) Update(ctx context.Context, genre *entities.Genre) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Genre{ID: genre.ID}).
		Select("name", "updated_at").
		Updates(genre)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes a genre that no book is tagged with.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.GuardedDelete(r.db.WithContext(ctx), entities.Genre{}.TableName(), id,
		database.Reference{Table: "book_genres", Column: "genre_id"},
	)
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Genre{}).Count(&count).Error
	return count, err
}
