package main

import (
	"context"
	"fmt"

	"github.com/nursyahid/dapur-ledger/internal/config"
	"github.com/nursyahid/dapur-ledger/internal/ledger"
	"github.com/nursyahid/dapur-ledger/internal/storage"
)

// newLedgerClient builds the ledger API client from configuration.
func newLedgerClient() (*ledger.Client, error) {
	cfg := config.LoadLedger()
	client, err := ledger.NewClient(ledger.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger client: %w", err)
	}
	return client, nil
}

// openSessionStore opens the snapshot database and ensures its schema.
func openSessionStore(ctx context.Context) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(config.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate session store: %w", err)
	}
	return store, nil
}
