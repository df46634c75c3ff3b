// Package books provides database operations for catalog books and their
// genre associations.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Get(ctx, id)
package books

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

const genreJoinTable = "book_genres"

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every book with its author, ordered by title.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// Get retrieves a book with its author and genres.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, database.Translate(err)
	}
	return &book, nil
}

func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return database.Exists(r.db.WithContext(ctx), entities.Book{}.TableName(), id)
}

// ListByAuthor returns the books written by an author, ordered by title.
func (r *Repository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("title ASC").
		Find(&books).Error
	return books, err
}

// ListByGenre returns the books tagged with a genre, ordered by title.
func (r *Repository) ListByGenre(ctx context.Context, genreID uuid.UUID) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.WithContext(ctx).
		Joins("JOIN "+genreJoinTable+" ON "+genreJoinTable+".book_id = books.id").
		Where(genreJoinTable+".genre_id = ?", genreID).
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// Create stores a book together with its genre links. Genres must already
// exist; only the join rows are written.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Omit("Author", "Genres.*").Create(book).Error
}

// Update replaces the book's fields and its genre set.
func (r *Repository) Update(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Book{ID: book.ID}).
			Select("title", "author_id", "summary", "isbn", "updated_at").
			Updates(book)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}

		owner := &entities.Book{ID: book.ID}
		association := tx.Model(owner).Association("Genres")
		if len(book.Genres) == 0 {
			return association.Clear()
		}
		genres := append([]entities.Genre(nil), book.Genres...)
		return association.Replace(genres)
	})
}

// Delete removes a book that has no copies. Its genre links go with it.
// When copies remain the transaction rolls back and
// database.ErrHasDependents is returned.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Book{ID: id}).Association("Genres").Clear(); err != nil {
			return err
		}
		return database.GuardedDelete(tx, entities.Book{}.TableName(), id,
			database.Reference{Table: entities.BookInstance{}.TableName(), Column: "book_id"},
		)
	})
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
