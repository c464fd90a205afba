package models

import "time"

// Account is a login identity. Created by registration, never mutated.
// The password is stored as a bcrypt hash; AccountID is generated on creation.
type Account struct {
	AccountID    string    `json:"account_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile holds personal details attached 1:1 to an Account. It is created
// atomically with its Account and shares its lifecycle.
type Profile struct {
	AccountID string `json:"account_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// DisplayName returns the name shown to a logged-in user.
func (p *Profile) DisplayName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
