package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cargodesk/internal/logging"
	"github.com/dmitrijs2005/cargodesk/internal/server"
	"github.com/dmitrijs2005/cargodesk/internal/server/config"
	"github.com/dmitrijs2005/cargodesk/internal/server/repositories/repomanager"
	"github.com/spf13/cobra"
)

type App struct {
	configPath string
	driver     string
	dsn        string

	config *config.Config
	logger logging.Logger
	out    io.Writer
}

// NewRootCmd builds the command tree. Output is written to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &App{out: out}

	root := &cobra.Command{
		Use:           "cargodesk",
		Short:         "Shipment store maintenance: migrations, seeding, backup and restore",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd.ErrOrStderr())
		},
	}
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "database driver (pgx|sqlite), overrides config")
	root.PersistentFlags().StringVar(&a.dsn, "dsn", "", "database DSN, overrides config")

	root.AddCommand(
		a.migrateCmd(),
		a.seedCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.infoCmd(),
		a.tokenCmd(),
	)
	return root
}

func (a *App) loadConfig(logOut io.Writer) error {
	var args []string
	if a.configPath != "" {
		args = append(args, "-c", a.configPath)
	}
	if a.driver != "" {
		args = append(args, "-driver", a.driver)
	}
	if a.dsn != "" {
		args = append(args, "-d", a.dsn)
	}
	a.config = config.Load(args)

	logger, err := logging.New(a.config.LogBackend, logOut, a.config.LogDebug)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// withStore opens and migrates the store for the duration of fn.
func (a *App) withStore(ctx context.Context, fn func(db *sql.DB, rm *repomanager.SQLRepositoryManager) error) error {
	db, rm, err := server.OpenStore(ctx, a.config)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db, rm)
}

func (a *App) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
