// Command mytodo is a small todo list with a soft-delete history. It serves
// a JSON API and offers the same operations from the command line.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"mytodo/internal/config"
	"mytodo/internal/lifecycle"
	"mytodo/internal/logging"
	"mytodo/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

var rootCmd = &cobra.Command{
	Use:          "mytodo",
	Short:        "A todo list with a restorable history",
	SilenceUsage: true,
}

var (
	configPath string
	dbPath     string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides config and DB_PATH)")
}

// app is everything a command needs to work on the task sets.
type app struct {
	cfg    config.Config
	store  store.Store
	tasks  *lifecycle.Service
	logger *log.Logger
}

func (a *app) Close() error {
	return a.store.Close()
}

// openApp resolves the configuration, opens the store and repairs any
// inconsistency left by an earlier crash.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Storage.Driver = config.DriverSQLite
		cfg.Storage.Path = dbPath
	}

	logger := logging.New(os.Stderr, logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	s, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	records, err := store.NewRecords(s)
	if err != nil {
		s.Close()
		return nil, err
	}

	svc := lifecycle.New(records, lifecycle.WithLogger(logger))
	if _, err := svc.Reconcile(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to reconcile task records: %w", err)
	}

	return &app{cfg: cfg, store: s, tasks: svc, logger: logger}, nil
}

func openStore(cfg config.StorageConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return store.NewMemoryStore(), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		return s, nil
	}
}
