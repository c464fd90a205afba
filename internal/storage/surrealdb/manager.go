// Package surrealdb implements the storage contracts on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	accountStore    *AccountStore
	predictionStore *PredictionStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	m, err := newManagerWithDB(ctx, db, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

// newManagerWithDB defines the schema on an already-connected database.
// Split out so tests can reuse a container-backed connection.
func newManagerWithDB(ctx context.Context, db *surrealdb.DB, logger *common.Logger) (*Manager, error) {
	// Define tables (SurrealDB v3 errors on querying non-existent tables)
	for _, table := range []string{"account", "profile", "prediction"} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	// Username uniqueness lives in the store, not in application pre-checks:
	// concurrent registrations race on this index and exactly one wins.
	indexSQL := "DEFINE INDEX IF NOT EXISTS account_username ON TABLE account COLUMNS username UNIQUE"
	if _, err := surrealdb.Query[any](ctx, db, indexSQL, nil); err != nil {
		return nil, fmt.Errorf("failed to define username index: %w", err)
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}
	m.accountStore = NewAccountStore(db, logger)
	m.predictionStore = NewPredictionStore(db, logger)
	return m, nil
}

func (m *Manager) AccountStore() interfaces.AccountStore {
	return m.accountStore
}

func (m *Manager) PredictionStore() interfaces.PredictionStore {
	return m.predictionStore
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
