// Package config provides configuration management for the trendradar
// application. It handles loading, validation, and access to configuration
// values from YAML files and environment variables via Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/trendradar/internal/logger"
)

// Config represents the application configuration.
type Config struct {
	// App holds application-level settings.
	App AppConfig `yaml:"app" mapstructure:"app"`
	// Logger holds logger settings.
	Logger logger.Config `yaml:"logger" mapstructure:"logger"`
	// Server holds HTTP server settings.
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	// Database holds relational store settings.
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	// Scraper holds ads-intelligence scraper settings.
	Scraper ScraperConfig `yaml:"scraper" mapstructure:"scraper"`
	// Vendors holds vendor API client settings.
	Vendors VendorsConfig `yaml:"vendors" mapstructure:"vendors"`
	// Analyzer holds LLM analyzer settings.
	Analyzer AnalyzerConfig `yaml:"analyzer" mapstructure:"analyzer"`
	// Radar holds scan pipeline settings.
	Radar RadarConfig `yaml:"radar" mapstructure:"radar"`
	// Report holds report renderer settings.
	Report ReportConfig `yaml:"report" mapstructure:"report"`
	// Alerts holds SMTP alert settings.
	Alerts AlertsConfig `yaml:"alerts" mapstructure:"alerts"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `yaml:"address" mapstructure:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return errors.New("server address is required")
	}
	return nil
}

// DatabaseConfig holds relational store settings. SQLite is the default
// embedded store; PostgreSQL is selectable for shared deployments.
type DatabaseConfig struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `yaml:"driver" mapstructure:"driver"`
	// Path is the SQLite database file (sqlite3 driver only).
	Path string `yaml:"path" mapstructure:"path"`
	// Host, Port, User, Password, DBName, SSLMode apply to postgres.
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	DBName   string `yaml:"dbname" mapstructure:"dbname"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
}

// Validate validates the database configuration.
func (c *DatabaseConfig) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("database path is required for sqlite3")
		}
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" {
			return errors.New("database host and dbname are required for postgres")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	return nil
}

// ScraperConfig holds ads-intelligence scraper settings.
type ScraperConfig struct {
	SourceFile         string        `yaml:"source_file" mapstructure:"source_file"`
	UserAgent          string        `yaml:"user_agent" mapstructure:"user_agent"`
	UseRandomUserAgent bool          `yaml:"use_random_user_agent" mapstructure:"use_random_user_agent"`
	RequestTimeout     time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	RateLimit          time.Duration `yaml:"rate_limit" mapstructure:"rate_limit"`
	RandomDelay        time.Duration `yaml:"random_delay" mapstructure:"random_delay"`
	Parallelism        int           `yaml:"parallelism" mapstructure:"parallelism"`
	MaxProductsPerPage int           `yaml:"max_products_per_page" mapstructure:"max_products_per_page"`
}

// VendorsConfig holds vendor API client settings.
type VendorsConfig struct {
	TikTok   TikTokVendorConfig   `yaml:"tiktok" mapstructure:"tiktok"`
	AdsIntel AdsIntelVendorConfig `yaml:"adsintel" mapstructure:"adsintel"`
}

// TikTokVendorConfig configures the TikTok trending client.
type TikTokVendorConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Region  string        `yaml:"region" mapstructure:"region"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// AdsIntelVendorConfig configures the ads-intelligence REST client.
type AdsIntelVendorConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// AnalyzerConfig holds LLM analyzer settings.
type AnalyzerConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// BaseURL points at an OpenAI-compatible API.
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	Model          string        `yaml:"model" mapstructure:"model"`
	EmbeddingModel string        `yaml:"embedding_model" mapstructure:"embedding_model"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// BrandProfile describes the target brand's positioning for fit scoring.
	BrandProfile string `yaml:"brand_profile" mapstructure:"brand_profile"`
	// TargetLanguage is the language hooks and names are translated into.
	TargetLanguage string `yaml:"target_language" mapstructure:"target_language"`
}

// Validate validates the analyzer configuration.
func (c *AnalyzerConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.BaseURL == "" {
		return errors.New("analyzer base_url is required when enabled")
	}
	if c.Model == "" {
		return errors.New("analyzer model is required when enabled")
	}
	return nil
}

// RadarConfig holds scan pipeline settings.
type RadarConfig struct {
	// TargetProducts is the maximum number of products kept per run.
	TargetProducts int `yaml:"target_products" mapstructure:"target_products"`
	// MinProducts is the minimum for a run to be considered healthy.
	MinProducts int `yaml:"min_products" mapstructure:"min_products"`
	// Schedule is a 5-field cron expression for periodic runs.
	Schedule string `yaml:"schedule" mapstructure:"schedule"`
}

// ReportConfig holds report renderer settings.
type ReportConfig struct {
	// OutputDir is where markdown and CSV reports are written.
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	// TopN limits the ranked table in the markdown report.
	TopN int `yaml:"top_n" mapstructure:"top_n"`
}

// AlertsConfig holds SMTP alert settings. Alerts are disabled unless a
// host and recipient are configured.
type AlertsConfig struct {
	Enabled  bool     `yaml:"enabled" mapstructure:"enabled"`
	SMTPHost string   `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port" mapstructure:"smtp_port"`
	Username string   `yaml:"username" mapstructure:"username"`
	Password string   `yaml:"password" mapstructure:"password"`
	From     string   `yaml:"from" mapstructure:"from"`
	To       []string `yaml:"to" mapstructure:"to"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Analyzer.Validate(); err != nil {
		return fmt.Errorf("analyzer: %w", err)
	}
	return nil
}

// Load builds the configuration from the current Viper state.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills zero values that Viper defaults may not cover when a
// partial config file overrides whole sections.
func applyDefaults(cfg *Config) {
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverSQLite
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Scraper.RequestTimeout == 0 {
		cfg.Scraper.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Scraper.RateLimit == 0 {
		cfg.Scraper.RateLimit = DefaultRateLimit
	}
	if cfg.Scraper.Parallelism == 0 {
		cfg.Scraper.Parallelism = DefaultParallelism
	}
	if cfg.Radar.TargetProducts == 0 {
		cfg.Radar.TargetProducts = DefaultTargetProducts
	}
	if cfg.Radar.MinProducts == 0 {
		cfg.Radar.MinProducts = DefaultMinProducts
	}
	if cfg.Radar.Schedule == "" {
		cfg.Radar.Schedule = DefaultSchedule
	}
	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = DefaultReportDir
	}
	if cfg.Report.TopN == 0 {
		cfg.Report.TopN = DefaultReportTopN
	}
}
