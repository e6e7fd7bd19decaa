package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diewo77/go-gestion/internal/config"
	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/logging"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions carries what every command needs once flags are parsed.
type rootOptions struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "gestion",
		Short:         "Client, project and payment ledger with invoice and receipt archive",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.cfg = config.Load()
			opts.log = logging.New(cmd.ErrOrStderr(), opts.cfg.Log.Level, opts.cfg.Log.Pretty)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newImportCommand(opts))
	return cmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Long: `Apply the schema. With MIGRATIONS=1 on PostgreSQL the embedded SQL
migrations are run through golang-migrate; otherwise GORM AutoMigrate is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openDatabase(opts); err != nil {
				return err
			}
			opts.log.Info().Msg("migrations completed")
			return nil
		},
	}
}

// openDatabase connects and brings the schema up to date.
func openDatabase(opts *rootOptions) (*gorm.DB, error) {
	dbConn, err := db.Connect(opts.cfg.Database, opts.log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(dbConn, *opts.cfg, opts.log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return dbConn, nil
}
