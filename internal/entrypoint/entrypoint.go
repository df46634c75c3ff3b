package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/authors"
	"github.com/mrlokans/library/internal/database/bookinstances"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/genres"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/seed"
	"github.com/mrlokans/library/internal/session"
	"github.com/mrlokans/library/internal/tasks"
)

const sessionCleanupInterval = 5 * time.Minute

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the database and the repositories built on top of it. Every
// command opens one and closes it on exit.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *database.Database

	Authors   *authors.Repository
	Genres    *genres.Repository
	Books     *books.Repository
	Instances *bookinstances.Repository
	Audit     *audit.Service
}

// Open connects to the configured database, migrates it and builds the
// repositories.
func Open(cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewDatabase(database.Options{
		Driver: cfg.Database.Driver,
		DSN:    cfg.Database.DSN(),
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Authors:   authors.NewRepository(db.DB),
		Genres:    genres.NewRepository(db.DB),
		Books:     books.NewRepository(db.DB),
		Instances: bookinstances.NewRepository(db.DB),
		Audit:     audit.NewService(auditrepo.NewRepository(db.DB), logger),
	}, nil
}

func (a *App) Close() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("error closing database", zap.Error(err))
	}
}

// Catalog returns the repositories as the HTTP layer sees them.
func (a *App) Catalog() http_controllers.Catalog {
	return http_controllers.Catalog{
		Authors:   a.Authors,
		Genres:    a.Genres,
		Books:     a.Books,
		Instances: a.Instances,
	}
}

// Seeder returns a loader writing into this catalog.
func (a *App) Seeder() *seed.Loader {
	return seed.NewLoader(seed.Stores{
		Authors:   a.Authors,
		Genres:    a.Genres,
		Books:     a.Books,
		Instances: a.Instances,
	}, a.Logger)
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then calls onShutdown
// and drains in-flight requests.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()), zap.Duration("timeout", timeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener so no new jobs start
	// against a closing database.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

// Run wires the catalog, the task queue and the maintenance scheduler into
// the web application and serves it.
func Run(cfg *config.Config, logger *zap.Logger, version string) error {
	logger.Info("starting library", zap.String("version", version), zap.String("env", cfg.App.Env))

	app, err := Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer app.Close()

	sessions, err := newSessions(app, cfg)
	if err != nil {
		return err
	}
	defer sessions.Close()

	var taskClient *tasks.Client
	var taskCancel context.CancelFunc
	var maintenance *scheduler.MaintenanceScheduler

	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(tasksDatabasePath(cfg), tasks.FromConfig(cfg.Tasks), logger)
		if err != nil {
			return fmt.Errorf("failed to initialize task queue: %w", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Warn("error closing task client", zap.Error(err))
			}
		}()

		archive := audit.NewArchive(cfg.Audit.ReportsDir, logger)
		taskClient.Register(
			tasks.NewPurgeAuditTrailQueue(app.Audit, app.Audit, logger),
			tasks.NewReportOverdueLoansQueue(app.Instances, app.Audit, archive, logger),
		)

		var taskCtx context.Context
		taskCtx, taskCancel = context.WithCancel(context.Background())
		defer taskCancel()
		taskClient.Start(taskCtx)

		if cfg.Maintenance.Enabled {
			maintenance = scheduler.NewMaintenanceScheduler(taskClient, app.Audit, scheduler.MaintenanceConfig{
				Schedule:           cfg.Maintenance.Schedule,
				AuditRetentionDays: cfg.Audit.RetentionDays,
			}, logger)
			if err := maintenance.Start(); err != nil {
				return fmt.Errorf("failed to start maintenance scheduler: %w", err)
			}
		}
	} else {
		logger.Info("task queue disabled; maintenance jobs will not run")
	}

	csrfSecret := decodeSecret(cfg.Security.CSRFSecret)
	if csrfSecret == nil {
		logger.Warn("CSRF protection disabled; set CSRF_SECRET to enable it")
	}
	if cfg.Security.ReadOnly {
		logger.Info("read-only mode enabled; write operations will be rejected")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       app.DB,
		Catalog:        app.Catalog(),
		Audit:          app.Audit,
		Logger:         logger,
		Sessions:       sessions,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Security.SecureCookies,
		ReadOnly:       cfg.Security.ReadOnly,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Version:        version,
	}
	if taskClient != nil {
		routerCfg.TaskQueue = taskClient
	}
	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			taskCancel()
		}
	}

	return Serve(router, cfg, logger, onShutdown)
}

// newSessions keeps sessions in the catalog database when it is sqlite and
// in memory otherwise.
func newSessions(app *App, cfg *config.Config) (*session.Manager, error) {
	opts := session.Options{
		Lifetime:        cfg.Session.Lifetime,
		SecureCookies:   cfg.Security.SecureCookies,
		CleanupInterval: sessionCleanupInterval,
	}

	if app.DB.Driver != database.DriverSQLite {
		app.Logger.Info("sessions kept in memory", zap.String("driver", app.DB.Driver))
		return session.NewMemoryManager(opts), nil
	}

	sqlDB, err := app.DB.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	manager, err := session.NewSQLiteManager(sqlDB, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}
	return manager, nil
}

// tasksDatabasePath picks the queue database: an explicit path, a sibling
// of the sqlite catalog, or the default file.
func tasksDatabasePath(cfg *config.Config) string {
	if cfg.Tasks.DatabasePath != "" {
		return cfg.Tasks.DatabasePath
	}
	if cfg.Database.Driver == database.DriverSQLite && cfg.Database.DSN() != "" {
		return tasks.DatabasePathFor(cfg.Database.DSN())
	}
	return tasks.DefaultDatabasePath
}

// decodeSecret accepts a hex string and falls back to the raw bytes.
func decodeSecret(secret string) []byte {
	if secret == "" {
		return nil
	}
	if b, err := hex.DecodeString(secret); err == nil {
		return b
	}
	return []byte(secret)
}
