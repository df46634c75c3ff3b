// Package bookinstances provides database operations for physical copies
// of catalog books.
package bookinstances

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every copy with its book, ordered by book title and imprint.
func (r *Repository) List(ctx context.Context) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	if err := r.db.WithContext(ctx).Preload("Book").Find(&instances).Error; err != nil {
		return nil, err
	}
	sortByBook(instances)
	return instances, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	err := r.db.WithContext(ctx).Preload("Book").First(&instance, "id = ?", id).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &instance, nil
}

// ListByBook returns the copies of one book ordered by imprint.
func (r *Repository) ListByBook(ctx context.Context, bookID uuid.UUID) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("imprint ASC").
		Find(&instances).Error
	return instances, err
}

// ListOverdue returns loaned copies whose due date is before now.
func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("status = ? AND due_back IS NOT NULL AND due_back < ?", entities.StatusLoaned, now).
		Order("due_back ASC").
		Find(&instances).Error
	return instances, err
}

func (r *Repository) Create(ctx context.Context, instance *entities.BookInstance) error {
	return r.db.WithContext(ctx).Omit("Book").Create(instance).Error
}

func (r *Repository) Update(ctx context.Context, instance *entities.BookInstance) error {
	result := r.db.WithContext(ctx).
		Model(&entities.BookInstance{ID: instance.ID}).
		Select("book_id", "imprint", "status", "due_back", "updated_at").
		Updates(instance)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes a copy. Nothing references copies, so only a missing id
// fails.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.GuardedDelete(r.db.WithContext(ctx), entities.BookInstance{}.TableName(), id)
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.BookInstance{}).Count(&count).Error
	return count, err
}

// CountByStatus counts copies in the given status.
func (r *Repository) CountByStatus(ctx context.Context, status entities.BookInstanceStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.BookInstance{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func sortByBook(instances []entities.BookInstance) {
	sort.SliceStable(instances, func(i, j int) bool {
		if instances[i].Book.Title != instances[j].Book.Title {
			return instances[i].Book.Title < instances[j].Book.Title
		}
		return instances[i].Imprint < instances[j].Imprint
	})
}
