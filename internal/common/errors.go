package common

import "errors"

// Sentinel errors for the prediction pipeline. Handlers map these onto HTTP
// status codes; everything else is wrapped and surfaced as a 500.
var (
	// ErrUnauthorized is returned when a prediction or recording is attempted
	// without a resolvable session identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateUsername is returned by account creation when the store's
	// uniqueness constraint rejects the username.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned by login when no account matches.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidInput is returned when raw price inputs are missing,
	// non-numeric, or not finite.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelInvocation is returned when the model artifact cannot be loaded
	// or rejects the feature vector.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrPersistence is returned when a store write fails. Callers must not
	// assume a record exists unless the write returned nil.
	ErrPersistence = errors.New("persistence failed")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)
