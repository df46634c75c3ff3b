package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database owns the connection pool for the lifetime of the process.
// It is created once at startup and closed on shutdown.
type Database struct {
	DB     *gorm.DB
	Driver string
}

// Options configures NewDatabase.
type Options struct {
	Driver   string
	DSN      string
	LogLevel logger.LogLevel
	Logger   *zap.Logger
}

func NewDatabase(opts Options) (*Database, error) {
	dialector, err := dialectorFor(opts.Driver, opts.DSN)
	if err != nil {
		return nil, err
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	database := &Database{DB: db, Driver: driverName(opts.Driver)}

	if err := database.Migrate(); err != nil {
		_ = database.Close()
		return nil, err
	}

	if opts.Logger != nil {
		opts.Logger.Info("database initialized", zap.String("driver", database.Driver))
	}

	return database, nil
}

// Migrate creates or updates the catalog schema.
func (d *Database) Migrate() error {
	err := d.DB.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookInstance{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Genre names are unique regardless of case. Both drivers accept
	// expression indexes.
	err = d.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_genres_name_lower ON genres (LOWER(name))").Error
	if err != nil {
		return fmt.Errorf("failed to create genre name index: %w", err)
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func driverName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return strings.ToLower(driver)
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is empty")
	}

	switch driverName(driver) {
	case DriverSQLite:
		return sqlite.Open(sqliteDSN(dsn)), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// sqliteDSN enables WAL and a busy timeout unless the caller passed options.
// Detail pages read from several goroutines at once.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") || path == ":memory:" {
		return path
	}
	return path + "?_journal_mode=WAL&_busy_timeout=5000"
}
