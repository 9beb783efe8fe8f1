package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/trendradar/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("server.address", ":8080")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, config.DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, config.DefaultTargetProducts, cfg.Radar.TargetProducts)
	assert.Equal(t, config.DefaultMinProducts, cfg.Radar.MinProducts)
	assert.Equal(t, config.DefaultSchedule, cfg.Radar.Schedule)
	assert.Equal(t, config.DefaultReportDir, cfg.Report.OutputDir)
	assert.Equal(t, config.DefaultRequestTimeout, cfg.Scraper.RequestTimeout)
}

func TestLoad_InvalidConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := config.Load()
	assert.ErrorContains(t, err, "server address is required")
}

func TestDatabaseConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     config.DatabaseConfig
		wantErr string
	}{
		{
			name: "sqlite with path",
			cfg:  config.DatabaseConfig{Driver: config.DriverSQLite, Path: "radar.db"},
		},
		{
			name:    "sqlite without path",
			cfg:     config.DatabaseConfig{Driver: config.DriverSQLite},
			wantErr: "database path is required",
		},
		{
			name: "postgres with host and dbname",
			cfg:  config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db", DBName: "radar"},
		},
		{
			name:    "postgres without dbname",
			cfg:     config.DatabaseConfig{Driver: config.DriverPostgres, Host: "db"},
			wantErr: "host and dbname are required",
		},
		{
			name:    "unknown driver",
			cfg:     config.DatabaseConfig{Driver: "mysql"},
			wantErr: "unsupported database driver",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if c.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, c.wantErr)
		})
	}
}

func TestAnalyzerConfigValidate(t *testing.T) {
	disabled := config.AnalyzerConfig{}
	assert.NoError(t, disabled.Validate(), "disabled analyzer needs nothing")

	noURL := config.AnalyzerConfig{Enabled: true, Model: "gpt-4o-mini"}
	assert.ErrorContains(t, noURL.Validate(), "base_url is required")

	noModel := config.AnalyzerConfig{Enabled: true, BaseURL: "https://api.openai.com"}
	assert.ErrorContains(t, noModel.Validate(), "model is required")

	full := config.AnalyzerConfig{Enabled: true, BaseURL: "https://api.openai.com", Model: "gpt-4o-mini"}
	assert.NoError(t, full.Validate())
}
