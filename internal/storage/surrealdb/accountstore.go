package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

type AccountStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewAccountStore(db *surrealdb.DB, logger *common.Logger) *AccountStore {
	return &AccountStore{
		db:     db,
		logger: logger,
	}
}

// isDuplicateError reports whether a query failed on the unique username
// index rather than some other persistence problem.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "account_username") ||
		strings.Contains(msg, "already contains")
}

func (s *AccountStore) CreateAccount(ctx context.Context, username, passwordHash, firstName, lastName, email string) (string, error) {
	accountID := uuid.New().String()

	account := &models.Account{
		AccountID:    accountID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	profile := &models.Profile{
		AccountID: accountID,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
	}

	// Both rows in one transaction: a unique-index violation on account
	// aborts the whole statement, and a profile failure rolls the account
	// back. No pre-read, no partial insert.
	sql := `BEGIN TRANSACTION;
CREATE type::record('account', $id) CONTENT $account;
CREATE type::record('profile', $id) CONTENT $profile;
COMMIT TRANSACTION;`
	vars := map[string]any{
		"id":      accountID,
		"account": account,
		"profile": profile,
	}

	if _, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars); err != nil {
		if isDuplicateError(err) {
			return "", common.ErrDuplicateUsername
		}
		return "", fmt.Errorf("%w: create account: %s", common.ErrPersistence, err)
	}

	return accountID, nil
}

func (s *AccountStore) Authenticate(ctx context.Context, username string) (*models.Account, *models.Profile, error) {
	sql := "SELECT * FROM account WHERE username = $username LIMIT 1"
	vars := map[string]any{"username": username}

	results, err := surrealdb.Query[[]models.Account](ctx, s.db, sql, vars)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: select account: %s", common.ErrPersistence, err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		// No such username: an expected outcome, not an error.
		return nil, nil, nil
	}
	account := &(*results)[0].Result[0]

	profile, err := s.getProfile(ctx, account.AccountID)
	if err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}

func (s *AccountStore) GetAccount(ctx context.Context, accountID string) (*models.Account, *models.Profile, error) {
	account, err := surrealdb.Select[models.Account](ctx, s.db, surrealmodels.NewRecordID("account", accountID))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: select account: %s", common.ErrPersistence, err)
	}
	if account == nil || account.AccountID == "" {
		return nil, nil, common.ErrNotFound
	}

	profile, err := s.getProfile(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}

func (s *AccountStore) getProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	profile, err := surrealdb.Select[models.Profile](ctx, s.db, surrealmodels.NewRecordID("profile", accountID))
	if err != nil {
		return nil, fmt.Errorf("%w: select profile: %s", common.ErrPersistence, err)
	}
	if profile == nil {
		return nil, common.ErrNotFound
	}
	return profile, nil
}
