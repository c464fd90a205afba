package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/aurum/internal/common"
	"github.com/bobmcallan/aurum/internal/models"
)

// AccountStore holds accounts and profiles keyed by account ID, with a
// username index enforcing uniqueness under the store lock.
type AccountStore struct {
	mu         sync.RWMutex
	logger     *common.Logger
	accounts   map[string]*models.Account // account_id -> account
	profiles   map[string]*models.Profile // account_id -> profile
	byUsername map[string]string          // username -> account_id

	// profileFault, when set, fails the profile insert after the account
	// insert. Used by tests to verify the two-row write is all-or-nothing.
	profileFault error
}

func NewAccountStore(logger *common.Logger) *AccountStore {
	return &AccountStore{
		logger:     logger,
		accounts:   make(map[string]*models.Account),
		profiles:   make(map[string]*models.Profile),
		byUsername: make(map[string]string),
	}
}

// SetProfileFault injects a failure into the profile half of CreateAccount.
func (s *AccountStore) SetProfileFault(err error) {
	s.mu.Lock()
	s.profileFault = err
	s.mu.Unlock()
}

func (s *AccountStore) CreateAccount(ctx context.Context, username, passwordHash, firstName, lastName, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return "", common.ErrDuplicateUsername
	}

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

	s.accounts[accountID] = account
	s.byUsername[username] = accountID

	if s.profileFault != nil {
		// Roll back the account insert so no row with this username remains.
		delete(s.accounts, accountID)
		delete(s.byUsername, username)
		return "", s.profileFault
	}

	s.profiles[accountID] = profile
	return accountID, nil
}

func (s *AccountStore) Authenticate(ctx context.Context, username string) (*models.Account, *models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accountID, ok := s.byUsername[username]
	if !ok {
		return nil, nil, nil
	}
	return copyAccount(s.accounts[accountID]), copyProfile(s.profiles[accountID]), nil
}

func (s *AccountStore) GetAccount(ctx context.Context, accountID string) (*models.Account, *models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, nil, common.ErrNotFound
	}
	return copyAccount(account), copyProfile(s.profiles[accountID]), nil
}

func copyAccount(a *models.Account) *models.Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

func copyProfile(p *models.Profile) *models.Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
