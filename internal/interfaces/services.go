// Package interfaces defines service contracts for Aurum
package interfaces

import (
	"context"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

// Model is the opaque trained predictor. Implementations take the fixed
// 4-element feature vector and return a single price. The trained artifact
// backend and the deterministic test stub both satisfy it.
type Model interface {
	Predict(ctx context.Context, features models.DerivedFeatures) (float64, error)
}

// ChartRenderer produces the 4-bar comparison chart as a self-contained PNG.
type ChartRenderer interface {
	Render(previous, open, sevenDayAvg, predicted float64) ([]byte, error)
}

// AuthService is the credential store boundary: registration with atomic
// account+profile creation, and username/password verification.
type AuthService interface {
	// Register creates a new account and returns its ID. A taken username
	// surfaces as common.ErrDuplicateUsername from the store's own constraint.
	Register(ctx context.Context, username, password, firstName, lastName, email string) (string, error)

	// Login verifies credentials. A miss — unknown username or wrong
	// password — returns (nil, nil): failure to authenticate is an expected
	// outcome, not an error.
	Login(ctx context.Context, username, password string) (*common.Identity, error)

	// Identity resolves an account ID to its identity, or common.ErrNotFound.
	Identity(ctx context.Context, accountID string) (*common.Identity, error)
}

// PredictionService runs the session-gated prediction pipeline:
// validate -> derive -> predict -> render -> record.
type PredictionService interface {
	// Run executes the pipeline for the identity bound to handle.
	Run(ctx context.Context, handle string, input models.RawInput) (*models.PredictionResult, error)

	// History returns the account's persisted predictions, newest first.
	History(ctx context.Context, handle string, limit int) ([]*models.PredictionRecord, error)

	// Chart returns the stored chart PNG for one of the account's records.
	Chart(ctx context.Context, handle string, recordID string) ([]byte, error)
}
