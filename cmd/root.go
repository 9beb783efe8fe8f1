// Package cmd implements the command-line interface for the trend radar.
// It provides the root command and subcommands for running scans, browsing
// products and serving the HTTP API.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/trendradar/cmd/httpd"
	cmdproducts "github.com/jonesrussell/trendradar/cmd/products"
	cmdreport "github.com/jonesrussell/trendradar/cmd/report"
	"github.com/jonesrussell/trendradar/cmd/scan"
	cmdscheduler "github.com/jonesrussell/trendradar/cmd/scheduler"
	"github.com/jonesrussell/trendradar/internal/config"
)

// version is set at build time with -ldflags.
var version = "dev"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	rootCmd = &cobra.Command{
		Use:   "trendradar",
		Short: "A trending product radar for short-video commerce",
		Long: `Scans TikTok, TikTok Shop and ads-intelligence sources for trending
products, scores them against a brand profile and produces ranked reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("trendradar version %s\n", version)
		},
	})

	rootCmd.AddCommand(scan.Command())
	rootCmd.AddCommand(cmdproducts.Command())
	rootCmd.AddCommand(cmdreport.Command())
	rootCmd.AddCommand(httpd.Command())
	rootCmd.AddCommand(cmdscheduler.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment variables take precedence over config file values.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// Config file is optional; defaults and environment variables cover a
	// bare setup.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults and environment variables)\n", err)
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}
	if err := bindEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()
	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindEnvVars maps well-known environment variables to config keys.
func bindEnvVars() error {
	bindings := map[string][]string{
		"app.environment":          {"APP_ENV"},
		"app.debug":                {"APP_DEBUG"},
		"logger.level":             {"LOG_LEVEL"},
		"logger.encoding":          {"LOG_FORMAT"},
		"database.driver":          {"DATABASE_DRIVER"},
		"database.path":            {"DATABASE_PATH"},
		"vendors.tiktok.api_key":   {"TIKTOK_API_KEY"},
		"vendors.adsintel.api_key": {"ADSINTEL_API_KEY"},
		"analyzer.api_key":         {"ANALYZER_API_KEY", "OPENAI_API_KEY"},
		"alerts.smtp_host":         {"SMTP_HOST"},
		"alerts.username":          {"SMTP_USERNAME"},
		"alerts.password":          {"SMTP_PASSWORD"},
	}
	for key, envs := range bindings {
		if err := viper.BindEnv(append([]string{key}, envs...)...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults establishes the default configuration values.
func setDefaults() {
	viper.SetDefault("app.name", "trendradar")
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.driver", config.DriverSQLite)
	viper.SetDefault("database.path", config.DefaultDatabasePath)
	viper.SetDefault("scraper.source_file", "sources.yml")
	viper.SetDefault("scraper.request_timeout", config.DefaultRequestTimeout)
	viper.SetDefault("scraper.rate_limit", config.DefaultRateLimit)
	viper.SetDefault("scraper.parallelism", config.DefaultParallelism)
	viper.SetDefault("radar.target_products", config.DefaultTargetProducts)
	viper.SetDefault("radar.min_products", config.DefaultMinProducts)
	viper.SetDefault("radar.schedule", config.DefaultSchedule)
	viper.SetDefault("report.output_dir", config.DefaultReportDir)
	viper.SetDefault("report.top_n", config.DefaultReportTopN)
}

// setupDevelopmentLogging enables debug logging when requested via flag or
// environment.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")
	if debugFlag {
		viper.Set("logger.level", "debug")
		viper.Set("logger.development", true)
	}
}
