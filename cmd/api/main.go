package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"blog-backend/internal/config"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/shared/response"
	"blog-backend/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	// ========================================
	// LOAD ENVIRONMENT VARIABLES
	// ========================================
	// .env is optional, production uses the process environment.
	envErr := godotenv.Load()

	if err := newRootCmd(envErr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(envErr error) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "blog-api",
		Short:         "Blog platform HTTP API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the binary without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envErr, false)
		},
	}

	cmd.AddCommand(
		newServeCmd(envErr),
		newMigrateCmd(envErr),
	)

	return cmd
}

func newServeCmd(envErr error) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envErr, migrateFirst)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")

	return cmd
}

func runServe(envErr error, migrateFirst bool) error {
	cfg, err := bootstrap(envErr)
	if err != nil {
		return err
	}

	if migrateFirst {
		if err := database.RunMigrations(cfg.Database.PoolConfig().URL()); err != nil {
			return err
		}
		logger.Info("migrations applied", nil)
	}

	return Serve(cfg)
}

// bootstrap loads configuration and sets up process-wide state shared by
// every subcommand.
func bootstrap(envErr error) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.App.Environment)
	if envErr != nil {
		logger.Debug("no .env file found, using process environment", nil)
	}

	// ========================================
	// SET GIN MODE
	// ========================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	response.SetDebug(!cfg.IsProduction())

	logger.Info("configuration loaded", map[string]interface{}{
		"env":     cfg.App.Environment,
		"version": version,
	})
	return cfg, nil
}
