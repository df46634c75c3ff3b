package config

const (
	// DefaultDatabasePath is the sqlite catalog used outside production
	DefaultDatabasePath = "./library.db"

	// DefaultReportsDir receives the JSON maintenance reports
	DefaultReportsDir = "./reports"
)
