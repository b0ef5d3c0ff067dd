package command

// root.go defines the root command for the litreview admin CLI.
// Every subcommand talks to the database named by DATABASE_URL.

import (
	"fmt"
	"os"

	"litreview/database"
	"litreview/internal/config"
	"litreview/internal/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var logFormat string // console or json

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "litreview",
	Short: "litreview - LitReview administration",
	Long: `litreview manages a LitReview installation from the command line:
- apply the database schema
- load demo users, books and reviews
- create accounts without going through the signup page

Configuration is read from .env and the environment, like the API server.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "log output format (console or json)")
}

// connect loads configuration and opens the database. Commands call it
// lazily so flag errors surface without a database.
func connect() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: logFormat})

	db, err := database.OpenGorm(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to database: %w", err)
	}
	return cfg, db, nil
}
