package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type (
	Config struct {
		App
		HTTP
		Global
		Database
		UI
		Tasks
		Maintenance
		Audit
		Security
		Session
	}

	App struct {
		Env string
	}
	HTTP struct {
		Port           int32
		Host           string
		RequestTimeout time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver  string
		URLDev  string
		URLProd string

		env string
	}
	UI struct {
		TemplatesPath string // Empty means the embedded templates
		StaticPath    string // Empty means the embedded assets
	}
	Tasks struct {
		Enabled           bool
		DatabasePath      string // Empty means next to the sqlite catalog
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "0 * * * *" = hourly
	}
	Audit struct {
		RetentionDays int
		ReportsDir    string
	}
	Security struct {
		CSRFSecret    string // CSRF protection is off while empty
		SecureCookies bool   // Set to false for local dev without HTTPS
		ReadOnly      bool
	}
	Session struct {
		Lifetime time.Duration
	}
)

// DSN returns the connection string for the current environment.
func (d Database) DSN() string {
	if d.env == EnvProduction {
		return d.URLProd
	}
	return d.URLDev
}

func (a App) IsProduction() bool {
	return a.Env == EnvProduction
}

// NewConfig reads configuration from the environment. A .env file in the
// working directory, when present, is loaded first without overriding
// variables that are already set.
func NewConfig() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", EnvDevelopment)
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_url_dev", DefaultDatabasePath)
	v.SetDefault("database_url_prod", "")

	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", "0 * * * *") // Hourly at :00

	v.SetDefault("audit_retention_days", 30)
	v.SetDefault("reports_dir", DefaultReportsDir)

	v.SetDefault("csrf_secret", "")
	v.SetDefault("secure_cookies", false)
	v.SetDefault("read_only", false)
	v.SetDefault("session_lifetime", "24h")

	env := v.GetString("APP_ENV")

	return &Config{
		App: App{
			Env: env,
		},
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:  v.GetString("DATABASE_DRIVER"),
			URLDev:  v.GetString("DATABASE_URL_DEV"),
			URLProd: v.GetString("DATABASE_URL_PROD"),
			env:     env,
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			DatabasePath:      v.GetString("TASKS_DATABASE_PATH"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		Audit: Audit{
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
			ReportsDir:    v.GetString("REPORTS_DIR"),
		},
		Security: Security{
			CSRFSecret:    v.GetString("CSRF_SECRET"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			ReadOnly:      v.GetBool("READ_ONLY"),
		},
		Session: Session{
			Lifetime: v.GetDuration("SESSION_LIFETIME"),
		},
	}
}
