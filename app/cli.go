// Package app wires configuration, storage and the HTTP server behind the libapi command
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/htol/libapi/config"
	"github.com/htol/libapi/logger"
	"github.com/htol/libapi/repo"
)

func CLI(args []string) int {
	var app appEnv
	root := app.command()
	root.SetArgs(args)

	if err := root.ExecuteContext(context.Background()); err != nil {
		logger.Error("Runtime error", "error", err)
		return 1
	}
	return 0
}

type appEnv struct {
	config *config.Config

	port   int
	dbPath string
}

func (app *appEnv) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "libapi",
		Short:         "HTTP API for a library's books and members",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.fromFlags(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&app.dbPath, "db", "d", "", "Path to the SQLite database (overrides DB_PATH)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.serve(cmd.Context())
		},
	}
	serve.Flags().IntVarP(&app.port, "port", "p", 0, "Port number (overrides PORT)")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.initSchema(cmd.Context())
		},
	}

	root.AddCommand(serve, initCmd)
	return root
}

// fromFlags loads the environment and lets CLI flags override it
func (app *appEnv) fromFlags(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg := config.Load()
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = app.port
	}
	if cmd.Flags().Changed("db") {
		cfg.Database.Path = app.dbPath
	}
	app.config = cfg

	logger.Init(cfg.LogLevel)
	return nil
}

func (app *appEnv) openStorage(ctx context.Context) (*repo.Repo, error) {
	storage, err := repo.GetStorage(ctx, app.config.Database)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return storage, nil
}

func (app *appEnv) initSchema(ctx context.Context) error {
	storage, err := app.openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("Error closing storage", "error", err)
		}
	}()
	logger.Info("Schema is up to date", "driver", storage.Driver())
	return nil
}

func (app *appEnv) serve(ctx context.Context) error {
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := app.openStorage(ctx)
	if err != nil {
		return err
	}

	srv := NewServer(storage, app.config)
	defer func() {
		logger.Info("Closing database connection...")
		if err := srv.Close(); err != nil {
			logger.Error("Error closing storage", "error", err)
		}
	}()

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	return nil
}
