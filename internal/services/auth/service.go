// Package auth is the credential store: registration with an atomic
// account+profile insert, and username/password verification.
package auth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/interfaces"
	"github.com/bobmcallan/aurum/internal/models"
)

// Service implements the credential store over an AccountStore. Password
// hashes never leave this package.
type Service struct {
	accounts interfaces.AccountStore
	logger   *common.Logger
}

// NewService creates the credential store service.
func NewService(accounts interfaces.AccountStore, logger *common.Logger) *Service {
	return &Service{
		accounts: accounts,
		logger:   logger,
	}
}

// ValidateUsername checks that a username is safe for storage.
// Rejects empty, too long, null bytes, and control characters.
func ValidateUsername(username string) string {
	if username == "" {
		return "username is required"
	}
	if len(username) > 128 {
		return "username must be 128 characters or fewer"
	}
	for _, c := range username {
		if c < 0x20 || c == 0x7f {
			return "username contains invalid control characters"
		}
	}
	return ""
}

// hashPassword hashes with bcrypt (truncate to 72 bytes, bcrypt's input limit).
func hashPassword(password string) (string, error) {
	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	hash, err := bcrypt.GenerateFromPassword(passwordBytes, 10)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register creates an account and its profile as one atomic unit and returns
// the new account ID. Username uniqueness is the store's concern; a violation
// surfaces as common.ErrDuplicateUsername.
func (s *Service) Register(ctx context.Context, username, password, firstName, lastName, email string) (string, error) {
	username = strings.TrimSpace(username)
	if msg := ValidateUsername(username); msg != "" {
		return "", fmt.Errorf("%w: %s", common.ErrInvalidInput, msg)
	}
	if password == "" {
		return "", fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	}

	hash, err := hashPassword(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return "", fmt.Errorf("%w: hash password: %s", common.ErrPersistence, err)
	}

	accountID, err := s.accounts.CreateAccount(ctx, username, hash, firstName, lastName, email)
	if err != nil {
		return "", err
	}

	s.logger.Info().
		Str("account_id", accountID).
		Str("username", username).
		Msg("Account registered")
	return accountID, nil
}

// Login verifies credentials against the stored hash. An unknown username and
// a wrong password both return (nil, nil): authentication failure is an
// expected outcome, not an error, and the two cases are indistinguishable to
// the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*common.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil
	}

	account, profile, err := s.accounts.Authenticate(ctx, username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	passwordBytes := []byte(password)
	if len(passwordBytes) > 72 {
		passwordBytes = passwordBytes[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), passwordBytes); err != nil {
		return nil, nil
	}

	return &common.Identity{
		AccountID:   account.AccountID,
		DisplayName: displayName(account.Username, profile),
	}, nil
}

func displayName(username string, profile *models.Profile) string {
	if profile != nil {
		if name := profile.DisplayName(); name != "" {
			return name
		}
	}
	return username
}

// Identity resolves an account ID to its display identity.
func (s *Service) Identity(ctx context.Context, accountID string) (*common.Identity, error) {
	account, profile, err := s.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &common.Identity{
		AccountID:   account.AccountID,
		DisplayName: displayName(account.Username, profile),
	}, nil
}

// Compile-time check
var _ interfaces.AuthService = (*Service)(nil)
