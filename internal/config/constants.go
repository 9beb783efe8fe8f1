package config

import "time"

// Database drivers.
const (
	// DriverSQLite is the embedded default store.
	DriverSQLite = "sqlite3"
	// DriverPostgres is the shared-deployment store.
	DriverPostgres = "postgres"
)

// Default configuration values.
const (
	// DefaultDatabasePath is the default SQLite database file.
	DefaultDatabasePath = "trendradar.db"
	// DefaultRequestTimeout is the default scraper request timeout.
	DefaultRequestTimeout = 30 * time.Second
	// DefaultRateLimit is the default delay between scraper requests.
	DefaultRateLimit = 2 * time.Second
	// DefaultParallelism is the default scraper parallelism.
	DefaultParallelism = 2
	// DefaultTargetProducts is the default per-run product cap.
	DefaultTargetProducts = 50
	// DefaultMinProducts is the default healthy-run floor.
	DefaultMinProducts = 30
	// DefaultSchedule runs the radar at 09:00 every Monday.
	DefaultSchedule = "0 9 * * 1"
	// DefaultReportDir is where reports are written.
	DefaultReportDir = "reports"
	// DefaultReportTopN limits the ranked markdown table.
	DefaultReportTopN = 25
	// DefaultUserAgent is sent when random user agents are disabled.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)
