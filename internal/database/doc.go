// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── guard.go         # Deletes refused while rows still reference the target
//	├── authors/         # Author CRUD
//	├── genres/          # Genre CRUD and the case-insensitive name lookup
//	├── books/           # Book CRUD and genre links
//	├── bookinstances/   # Copy CRUD and overdue loans
//	├── audit/           # Audit trail
//	└── dbtest/          # Throwaway databases for tests
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase(database.Options{Driver: database.DriverSQLite, DSN: "./library.db"})
//
//	authorsRepo := authors.NewRepository(db.DB)
//	booksRepo := books.NewRepository(db.DB)
//
//	author, err := authorsRepo.Get(ctx, id)
//
// # Errors
//
// Repositories translate gorm's record-not-found into ErrNotFound. Delete
// returns ErrHasDependents when other rows still point at the record; the
// record is left untouched in that case.
package database
