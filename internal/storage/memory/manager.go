// Package memory provides an in-memory storage backend used by unit tests
// and local development. Semantics mirror the SurrealDB backend: username
// uniqueness is enforced at insert time under the store's own lock, and the
// two-row account+profile insert is all-or-nothing.
package memory

import (
	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
)

// Manager implements interfaces.StorageManager with in-process maps.
type Manager struct {
	accounts    *AccountStore
	predictions *PredictionStore
}

// NewManager creates an empty in-memory storage manager.
func NewManager(logger *common.Logger) *Manager {
	return &Manager{
		accounts:    NewAccountStore(logger),
		predictions: NewPredictionStore(logger),
	}
}

func (m *Manager) AccountStore() interfaces.AccountStore {
	return m.accounts
}

func (m *Manager) PredictionStore() interfaces.PredictionStore {
	return m.predictions
}

func (m *Manager) Close() error {
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
