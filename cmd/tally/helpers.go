package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/config"
	"github.com/tally-fin/tally/internal/service"
	"github.com/tally-fin/tally/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/tally/tally.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// resolveOwner returns the identity the ledger is scoped to: the configured
// owner first, then the OS username as a fallback.
func resolveOwner() (string, error) {
	if owner := viper.GetString("owner"); owner != "" {
		return owner, nil
	}
	if owner := os.Getenv("USER"); owner != "" {
		return owner, nil
	}
	return "", common.NewUserError(
		"no owner configured; set owner in the config file or pass --owner",
		common.ErrNoOwner,
	)
}
