// Package interfaces defines service contracts for Aurum
package interfaces

import (
	"context"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

// StorageManager coordinates the storage backends.
type StorageManager interface {
	AccountStore() AccountStore
	PredictionStore() PredictionStore

	// Lifecycle
	Close() error
}

// AccountStore persists accounts and their profiles.
type AccountStore interface {
	// CreateAccount inserts an Account and its Profile as a single atomic
	// unit and returns the generated account ID. Username uniqueness is
	// enforced by the store's own constraint, not a prior read; violation
	// surfaces as common.ErrDuplicateUsername. On any other failure neither
	// row remains committed.
	CreateAccount(ctx context.Context, username, passwordHash, firstName, lastName, email string) (string, error)

	// Authenticate resolves a username to its account and stored hash.
	// A missing username returns (nil, nil, nil) — authentication failure is
	// an expected outcome, not an error. Credential comparison is the
	// caller's concern.
	Authenticate(ctx context.Context, username string) (*models.Account, *models.Profile, error)

	// GetAccount returns the account and profile for an account ID, or
	// common.ErrNotFound.
	GetAccount(ctx context.Context, accountID string) (*models.Account, *models.Profile, error)
}

// PredictionStore persists prediction records. Append-only: the contract has
// no update or delete.
type PredictionStore interface {
	// SavePrediction persists one record in a single transaction. On failure
	// the record is absent; partial writes are not possible.
	SavePrediction(ctx context.Context, record *models.PredictionRecord) error

	// ListPredictions returns an account's records newest-first, without
	// chart payloads. A zero limit means no limit.
	ListPredictions(ctx context.Context, accountID string, limit int) ([]*models.PredictionRecord, error)

	// GetPrediction returns one record including its chart payload, owned by
	// the given account, or common.ErrNotFound.
	GetPrediction(ctx context.Context, accountID, recordID string) (*models.PredictionRecord, error)
}

// Sessions is the process-local binding from an opaque session handle to an
// authenticated identity. Ephemeral: lifecycle is login to logout.
type Sessions interface {
	// Start binds a new handle to the authenticated identity.
	Start(accountID, displayName string) string

	// Current resolves a handle, returning false when no session is bound.
	Current(handle string) (*common.Identity, bool)

	// End clears the binding. Idempotent.
	End(handle string)
}
